// Package session owns the credential token and the identity resolved from
// it. The Store is the only writer of the persisted token; every other
// component reads session state through it.
package session

import (
	"context"
	"sync"

	"github.com/Wellerson-M/controle-financeiro/internal/api"
	"github.com/Wellerson-M/controle-financeiro/internal/core"
	applog "github.com/Wellerson-M/controle-financeiro/internal/log"
)

// State is the session lifecycle position.
type State int

const (
	// StateUnauthenticated means no token is held.
	StateUnauthenticated State = iota
	// StateResolving means a token is held and the identity fetch is in flight.
	StateResolving
	// StateAuthenticated means the token resolved to an identity.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Store is the session state machine:
//
//	unauthenticated -> resolving -> authenticated
//	                      |
//	                      +-> unauthenticated (resolution failed, token cleared)
//
// There is no terminal state; login, logout and resolution cycle the machine
// for the lifetime of the process. The invariant maintained throughout:
// an identity is held if and only if the state is authenticated.
//
// The mutex guards state, never network calls: identity fetches run outside
// it, so State, Token and Identity stay readable while a login or resolution
// is in flight.
type Store struct {
	mu       sync.Mutex
	api      *api.Client
	tokens   TokenStore
	log      *applog.Logger
	state    State
	token    string
	identity *core.User
	lastErr  error
}

func NewStore(client *api.Client, tokens TokenStore) *Store {
	return &Store{
		api:    client,
		tokens: tokens,
		log:    applog.Default().WithComponent(applog.ComponentSession),
		state:  StateUnauthenticated,
	}
}

// LoadFromStorage reads the persisted token at startup and, if one exists,
// resolves it. A token that fails resolution is cleared, leaving the store
// unauthenticated as if it had never been there.
func (s *Store) LoadFromStorage(ctx context.Context) error {
	token, err := s.tokens.Load()

	s.mu.Lock()
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	if token == "" {
		s.state = StateUnauthenticated
		s.mu.Unlock()
		return nil
	}
	s.token = token
	s.mu.Unlock()

	return s.resolve(ctx)
}

// Login exchanges credentials for a token, persists it and resolves the
// identity. On failure the state stays unauthenticated and the error is
// returned so the caller can surface it.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, email, password, s.api.Login)
}

// Register creates an account; otherwise symmetric to Login.
func (s *Store) Register(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, email, password, s.api.Register)
}

func (s *Store) authenticate(ctx context.Context, email, password string, issue func(context.Context, string, string) (string, error)) error {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()

	token, err := issue(ctx, email, password)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	s.log.DebugContext(ctx, "credentials accepted", applog.FieldEmail, email)

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.tokens.Save(token); err != nil {
		// The session still works in memory; it just will not survive a
		// restart.
		s.log.WarnContext(ctx, "persist token failed", applog.FieldError, err)
	}
	return s.resolve(ctx)
}

// Resolve re-runs identity resolution for the current token. It is idempotent:
// resolving twice with the same valid token yields the same identity and the
// same state.
func (s *Store) Resolve(ctx context.Context) error {
	return s.resolve(ctx)
}

// resolve runs the resolving -> authenticated | unauthenticated transition.
// A token the server rejects never survives past one resolution attempt: it
// is dropped from memory and from durable storage.
//
// The identity fetch happens with the lock released. The result is applied
// only if the token it was issued for is still the current one, so a login
// or logout that lands mid-flight wins over the stale resolution.
func (s *Store) resolve(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	if token == "" {
		s.state = StateUnauthenticated
		s.identity = nil
		s.mu.Unlock()
		return nil
	}
	s.state = StateResolving
	s.identity = nil
	s.mu.Unlock()

	user, err := s.api.Me(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return nil
	}
	if err != nil {
		s.lastErr = err
		s.token = ""
		s.identity = nil
		s.state = StateUnauthenticated
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.log.WarnContext(ctx, "clear dead token failed", applog.FieldError, clearErr)
		}
		s.log.WarnContext(ctx, "token resolution failed",
			applog.FieldError, err,
			applog.FieldState, s.state.String())
		return err
	}

	s.identity = &user
	s.state = StateAuthenticated
	s.lastErr = nil
	return nil
}

// Logout clears the identity, the token and durable storage. Purely local,
// no network call.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.token = ""
	s.state = StateUnauthenticated
	s.lastErr = nil
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn("clear token failed", applog.FieldError, err)
	}
}

// State returns the current lifecycle position.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the resolved user, present only while authenticated.
func (s *Store) Identity() (core.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return core.User{}, false
	}
	return *s.identity, true
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Err returns the most recent auth or resolution failure, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
