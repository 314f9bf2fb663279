package occupancy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
	"github.com/iliyamo/space-occupancy-engine/internal/repository"
)

// ReservationSource reads reservation snapshots from the booking
// subsystem.  Implementations must return
// repository.ErrReservationNotFound when the identifier does not
// resolve; the engine never writes through this interface.
type ReservationSource interface {
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
}

// OpenSessionSource answers whether a reservation currently has a
// session in an open state.
type OpenSessionSource interface {
	HasOpen(ctx context.Context, reservationID uint64) (bool, error)
}

// Verification is the verifier's decision for one reservation.  When
// Valid is false the reservation does not exist.  CanCheckIn reports
// whether a check-in may proceed right now; Message carries the
// human-readable reason either way.
type Verification struct {
	Valid       bool               `json:"valid"`
	CanCheckIn  bool               `json:"can_check_in"`
	Message     string             `json:"message"`
	Reservation *model.Reservation `json:"reservation,omitempty"`
}

// Verifier produces the authoritative yes/no decision for whether a
// check-in may proceed.  Rules run in a fixed order and the first
// failing rule determines the message, so callers always see the most
// fundamental problem first.
type Verifier struct {
	reservations ReservationSource
	sessions     OpenSessionSource
	clock        Clock
}

// NewVerifier constructs a Verifier.  All dependencies must be non-nil.
func NewVerifier(reservations ReservationSource, sessions OpenSessionSource, clk Clock) *Verifier {
	if reservations == nil || sessions == nil || clk == nil {
		panic("nil dependency passed to NewVerifier")
	}
	return &Verifier{reservations: reservations, sessions: sessions, clock: clk}
}

// Verify evaluates the eligibility rules for the given reservation.
// expectedEmail and expectedEvent are optional; when supplied they
// must match the reservation's recorded values.  Rule order:
//
//  1. reservation must exist
//  2. status must be PAID
//  3. reserved date must be today
//  4. no open session may exist for the reservation
//  5. supplied identity details must match
//
// Store failures are wrapped in TransientReadError; rule failures are
// reported through the Verification value, not as errors.
func (v *Verifier) Verify(ctx context.Context, reservationID uint64, expectedEmail, expectedEvent string) (Verification, error) {
	res, err := v.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return Verification{Message: "reservation not found"}, nil
		}
		return Verification{}, &TransientReadError{Err: err}
	}

	out := Verification{Valid: true, Reservation: res}

	if res.Status != model.ReservationStatusPaid {
		out.Message = "reservation is not paid"
		return out, nil
	}

	if !sameDay(res.Date, v.clock.Now()) {
		out.Message = "reservation date mismatch"
		return out, nil
	}

	open, err := v.sessions.HasOpen(ctx, reservationID)
	if err != nil {
		return Verification{}, &TransientReadError{Err: err}
	}
	if open {
		out.Message = "already checked in"
		return out, nil
	}

	if expectedEmail != "" && !strings.EqualFold(strings.TrimSpace(expectedEmail), res.GuestEmail) {
		out.Message = "details do not match"
		return out, nil
	}
	if expectedEvent != "" && !strings.EqualFold(strings.TrimSpace(expectedEvent), res.EventName) {
		out.Message = "details do not match"
		return out, nil
	}

	out.CanCheckIn = true
	out.Message = fmt.Sprintf("reservation %d is ready for check-in", res.ID)
	return out, nil
}

// sameDay compares the UTC calendar dates of two instants.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
