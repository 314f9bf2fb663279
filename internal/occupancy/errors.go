// Package occupancy implements the occupancy session engine: matching
// guests to reservations, verifying check-in eligibility, the
// check-in/check-out state machine, grace-period-aware overtime
// billing, live session monitoring and closed-session history.
package occupancy

import "fmt"

// NotFoundError reports that a reservation or session identifier did
// not resolve.  It is surfaced to the caller verbatim and never
// retried.
type NotFoundError struct {
	Kind string // "reservation" or "session"
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// IneligibleError reports that re-verification failed at action time.
// Reason carries the verifier's message and is shown to the end user;
// the caller may re-verify and retry manually.
type IneligibleError struct {
	ReservationID uint64
	Reason        string
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("reservation %d not eligible for check-in: %s", e.ReservationID, e.Reason)
}

// InvalidStateError reports an attempted transition that is illegal
// for the session's current state, such as checking out a session
// that is not checked in.  It is a client error and is never retried.
type InvalidStateError struct {
	SessionID uint64
	Status    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("session %d is %s, transition not allowed", e.SessionID, e.Status)
}

// TransientReadError wraps a failure to fetch current state during a
// monitor refresh or a read path.  Safe to retry with backoff; callers
// must not let it corrupt previously-held in-memory state.
type TransientReadError struct {
	Err error
}

func (e *TransientReadError) Error() string {
	return fmt.Sprintf("transient read failure: %v", e.Err)
}

func (e *TransientReadError) Unwrap() error { return e.Err }
