package occupancy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
)

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	now := today.Add(9 * time.Hour)

	paid := model.Reservation{
		ID:         7,
		EventName:  "Spring Gala",
		GuestName:  "Dana Reyes",
		GuestEmail: "dana@example.com",
		Date:       today,
		Status:     model.ReservationStatusPaid,
	}

	makeVerifier := func(res *fakeReservations, sess *fakeSessions) *Verifier {
		return NewVerifier(res, sess, NewFixedClock(now))
	}

	t.Run("unknown reservation is invalid", func(t *testing.T) {
		v := makeVerifier(newFakeReservations(), newFakeSessions())
		out, err := v.Verify(context.Background(), 99, "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Valid || out.Message != "reservation not found" {
			t.Fatalf("unexpected verification: %+v", out)
		}
	})

	t.Run("unpaid reservation is rejected", func(t *testing.T) {
		r := paid
		r.Status = model.ReservationStatusDraft
		v := makeVerifier(newFakeReservations(r), newFakeSessions())
		out, err := v.Verify(context.Background(), r.ID, "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !out.Valid || out.CanCheckIn || out.Message != "reservation is not paid" {
			t.Fatalf("unexpected verification: %+v", out)
		}
	})

	t.Run("wrong day is rejected", func(t *testing.T) {
		r := paid
		r.Date = today.AddDate(0, 0, 1)
		v := makeVerifier(newFakeReservations(r), newFakeSessions())
		out, _ := v.Verify(context.Background(), r.ID, "", "")
		if out.CanCheckIn || out.Message != "reservation date mismatch" {
			t.Fatalf("unexpected verification: %+v", out)
		}
	})

	t.Run("open session blocks a second check-in", func(t *testing.T) {
		open := model.Session{ID: 1, ReservationID: paid.ID, Status: model.SessionStatusCheckedIn, CheckInAt: now}
		v := makeVerifier(newFakeReservations(paid), newFakeSessions(open))
		out, _ := v.Verify(context.Background(), paid.ID, "", "")
		if out.CanCheckIn || out.Message != "already checked in" {
			t.Fatalf("unexpected verification: %+v", out)
		}
	})

	t.Run("unpaid wins over wrong day", func(t *testing.T) {
		r := paid
		r.Status = model.ReservationStatusCancelled
		r.Date = today.AddDate(0, 0, -3)
		v := makeVerifier(newFakeReservations(r), newFakeSessions())
		out, _ := v.Verify(context.Background(), r.ID, "", "")
		if out.Message != "reservation is not paid" {
			t.Fatalf("expected the payment rule to fire first, got %q", out.Message)
		}
	})

	t.Run("mismatched details are rejected", func(t *testing.T) {
		v := makeVerifier(newFakeReservations(paid), newFakeSessions())
		out, _ := v.Verify(context.Background(), paid.ID, "someone@else.com", "")
		if out.CanCheckIn || out.Message != "details do not match" {
			t.Fatalf("unexpected verification: %+v", out)
		}
		out, _ = v.Verify(context.Background(), paid.ID, "", "Autumn Gala")
		if out.CanCheckIn || out.Message != "details do not match" {
			t.Fatalf("unexpected verification: %+v", out)
		}
	})

	t.Run("details compare case-insensitively", func(t *testing.T) {
		v := makeVerifier(newFakeReservations(paid), newFakeSessions())
		out, _ := v.Verify(context.Background(), paid.ID, "  DANA@Example.COM ", "spring gala")
		if !out.CanCheckIn {
			t.Fatalf("expected check-in to be allowed, got %+v", out)
		}
	})

	t.Run("eligible reservation passes with its snapshot", func(t *testing.T) {
		v := makeVerifier(newFakeReservations(paid), newFakeSessions())
		out, err := v.Verify(context.Background(), paid.ID, "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !out.Valid || !out.CanCheckIn {
			t.Fatalf("expected eligible, got %+v", out)
		}
		if out.Message != "reservation 7 is ready for check-in" {
			t.Fatalf("unexpected message %q", out.Message)
		}
		if out.Reservation == nil || out.Reservation.ID != paid.ID {
			t.Fatalf("expected reservation snapshot, got %+v", out.Reservation)
		}
	})

	t.Run("store failure surfaces as transient", func(t *testing.T) {
		res := newFakeReservations(paid)
		res.setErr(errors.New("connection refused"))
		v := makeVerifier(res, newFakeSessions())
		_, err := v.Verify(context.Background(), paid.ID, "", "")
		var transient *TransientReadError
		if !errors.As(err, &transient) {
			t.Fatalf("expected TransientReadError, got %v", err)
		}
	})
}
