package occupancy

import (
	"context"
	"errors"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
	"github.com/iliyamo/space-occupancy-engine/internal/repository"
)

// SessionStore persists occupancy sessions.  CreateCheckedIn must
// reject the insert with repository.ErrOpenSessionExists when the
// reservation already has an open session, and Close must apply only
// to sessions still in CHECKED_IN state, returning
// repository.ErrStaleState otherwise.  Those store-level guards are
// the durable half of the serialization contract; the per-reservation
// mutex in Lifecycle is the in-process half.
type SessionStore interface {
	OpenSessionSource
	CreateCheckedIn(ctx context.Context, s *model.Session) error
	GetByID(ctx context.Context, id uint64) (*model.Session, error)
	Close(ctx context.Context, s *model.Session) error
}

// Lifecycle is the session state machine.  It is the sole writer of
// session records: check-in opens a session, check-out settles and
// closes it, and everything else is rejected.
type Lifecycle struct {
	verifier     *Verifier
	reservations ReservationSource
	sessions     SessionStore
	clock        Clock
	sink         EventSink
	locks        *keyedMutex
}

// NewLifecycle constructs the controller.  Pass NopSink when no event
// surface is wired.
func NewLifecycle(verifier *Verifier, reservations ReservationSource, sessions SessionStore, clk Clock, sink EventSink) *Lifecycle {
	if verifier == nil || reservations == nil || sessions == nil || clk == nil {
		panic("nil dependency passed to NewLifecycle")
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Lifecycle{
		verifier:     verifier,
		reservations: reservations,
		sessions:     sessions,
		clock:        clk,
		sink:         sink,
		locks:        newKeyedMutex(),
	}
}

// CheckIn opens a session for the reservation.  Eligibility is
// re-verified under the per-reservation lock at the moment of the
// call — a cached verification from an earlier search is never
// trusted.  On success the session is stamped with the current time,
// the notes and the acting user, and a check-in event is emitted.
//
// Failure modes: NotFoundError when the reservation does not exist,
// IneligibleError (carrying the verifier's reason) when any rule
// fails, including losing a check-in race to a concurrent caller.
func (l *Lifecycle) CheckIn(ctx context.Context, reservationID uint64, notes, actor string) (*model.Session, error) {
	unlock := l.locks.lock(reservationID)
	defer unlock()

	v, err := l.verifier.Verify(ctx, reservationID, "", "")
	if err != nil {
		return nil, err
	}
	if !v.Valid {
		return nil, &NotFoundError{Kind: "reservation", ID: reservationID}
	}
	if !v.CanCheckIn {
		l.sink.CheckInFailed(ctx, reservationID, v.Message)
		return nil, &IneligibleError{ReservationID: reservationID, Reason: v.Message}
	}

	s := &model.Session{
		ReservationID: reservationID,
		Status:        model.SessionStatusCheckedIn,
		CheckInAt:     l.clock.Now().UTC(),
		CheckInNotes:  notes,
		CheckInBy:     actor,
	}
	if err := l.sessions.CreateCheckedIn(ctx, s); err != nil {
		if errors.Is(err, repository.ErrOpenSessionExists) {
			// Lost the race to another process; same answer as rule 4.
			l.sink.CheckInFailed(ctx, reservationID, "already checked in")
			return nil, &IneligibleError{ReservationID: reservationID, Reason: "already checked in"}
		}
		return nil, err
	}

	l.sink.CheckInSucceeded(ctx, model.SessionDetail{Session: *s, Reservation: *v.Reservation})
	return s, nil
}

// CheckOut settles and closes a checked-in session.  The final cost
// is computed with the check-out timestamp as the as-of reference, not
// a live clock, so recomputing later always yields the same figures.
// The closed record is immutable thereafter.
//
// Failure modes: NotFoundError when the session does not exist,
// InvalidStateError when the session is not currently checked in
// (double check-out included).
func (l *Lifecycle) CheckOut(ctx context.Context, sessionID uint64, notes, actor string) (*model.Session, Usage, error) {
	s, err := l.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, Usage{}, &NotFoundError{Kind: "session", ID: sessionID}
		}
		return nil, Usage{}, &TransientReadError{Err: err}
	}

	unlock := l.locks.lock(s.ReservationID)
	defer unlock()

	// Re-read under the lock; the first read raced unguarded.
	s, err = l.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, Usage{}, &NotFoundError{Kind: "session", ID: sessionID}
		}
		return nil, Usage{}, &TransientReadError{Err: err}
	}
	if s.Status != model.SessionStatusCheckedIn {
		return nil, Usage{}, &InvalidStateError{SessionID: sessionID, Status: s.Status}
	}

	res, err := l.reservations.GetByID(ctx, s.ReservationID)
	if err != nil {
		return nil, Usage{}, &TransientReadError{Err: err}
	}

	now := l.clock.Now().UTC()
	u := ComputeUsage(res, s.CheckInAt, now)

	s.Status = model.SessionStatusCheckedOut
	s.CheckOutAt = &now
	s.CheckOutNotes = notes
	s.CheckOutBy = actor
	s.OvertimeHours = u.OvertimeHours
	s.OvertimeCostCents = u.OvertimeCostCents
	s.TotalCostCents = u.TotalCostCents

	if err := l.sessions.Close(ctx, s); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, Usage{}, &InvalidStateError{SessionID: sessionID, Status: model.SessionStatusCheckedOut}
		}
		return nil, Usage{}, err
	}

	l.sink.CheckOutSucceeded(ctx, model.SessionDetail{Session: *s, Reservation: *res})
	return s, u, nil
}
