package api

import "fmt"

// Typed failures, one per class of non-2xx response. Every operation maps a
// failed response to exactly one of these; the client never retries or
// recovers on its own, so callers decide what a failure means for them.

// AuthError covers bad credentials and invalid or expired tokens.
type AuthError struct {
	Op      string
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

// ValidationError covers malformed mutation payloads rejected by the server.
type ValidationError struct {
	Op      string
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

// NotFoundError covers operations on a resource id the server does not know.
type NotFoundError struct {
	Op      string
	Status  int
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

// FetchError is the generic non-2xx failure on reads.
type FetchError struct {
	Op      string
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}
