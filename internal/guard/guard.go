// Package guard gates access to authenticated views. It is a pure function of
// session state, so a protected view can never flash before resolution
// finishes.
package guard

import "github.com/Wellerson-M/controle-financeiro/internal/session"

// Decision is what the caller should render for a protected view.
type Decision int

const (
	// ShowLoading blocks the view while identity resolution is in flight.
	ShowLoading Decision = iota
	// RedirectLogin sends the user to the login entry point.
	RedirectLogin
	// Allow renders the requested view.
	Allow
)

func (d Decision) String() string {
	switch d {
	case ShowLoading:
		return "loading"
	case RedirectLogin:
		return "redirect to login"
	case Allow:
		return "allow"
	}
	return "unknown"
}

// Decide maps session state to a rendering decision for protected views.
func Decide(state session.State) Decision {
	switch state {
	case session.StateResolving:
		return ShowLoading
	case session.StateAuthenticated:
		return Allow
	default:
		return RedirectLogin
	}
}
