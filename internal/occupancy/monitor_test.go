package occupancy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
)

func TestMonitor(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	now := today.Add(13 * time.Hour)

	// Checked in three hours ago against a two hour reservation; well
	// past grace, so every refresh sees it in overtime.
	overtimeRow := model.SessionDetail{
		Session: model.Session{ID: 1, ReservationID: 7, Status: model.SessionStatusCheckedIn, CheckInAt: now.Add(-3 * time.Hour)},
		Reservation: model.Reservation{
			ID: 7, ReservedHours: 2, SpaceHourlyRateCents: 5000, BaseCostCents: 10000,
			Date: today, Status: model.ReservationStatusPaid,
		},
	}
	onTimeRow := model.SessionDetail{
		Session: model.Session{ID: 2, ReservationID: 8, Status: model.SessionStatusCheckedIn, CheckInAt: now.Add(-time.Hour)},
		Reservation: model.Reservation{
			ID: 8, ReservedHours: 4, SpaceHourlyRateCents: 3000,
			Date: today, Status: model.ReservationStatusPaid,
		},
	}

	t.Run("overtime crossing is reported exactly once", func(t *testing.T) {
		source := &fakeActiveSource{}
		source.set([]model.SessionDetail{overtimeRow, onTimeRow}, nil)
		sink := &recordSink{}
		m := NewMonitor(source, NewFixedClock(now), sink, 5*time.Millisecond)
		m.Start(context.Background())
		defer m.Stop()

		if !waitFor(time.Second, m.Ready) {
			t.Fatalf("monitor never became ready")
		}
		// Let several refresh cycles run; the event must not repeat.
		time.Sleep(40 * time.Millisecond)
		if got := sink.overtimeCount(); got != 1 {
			t.Fatalf("expected exactly one overtime event, got %d", got)
		}

		snap := m.Snapshot()
		if len(snap) != 2 {
			t.Fatalf("expected 2 live sessions, got %d", len(snap))
		}
		for _, ls := range snap {
			if ls.Session.ID == 1 && !ls.Usage.IsOvertime {
				t.Fatalf("expected session 1 in overtime, got %+v", ls.Usage)
			}
			if ls.Session.ID == 2 && ls.Usage.IsOvertime {
				t.Fatalf("expected session 2 on time, got %+v", ls.Usage)
			}
		}
	})

	t.Run("transient failure keeps the previous view", func(t *testing.T) {
		source := &fakeActiveSource{}
		source.set([]model.SessionDetail{onTimeRow}, nil)
		m := NewMonitor(source, NewFixedClock(now), nil, 5*time.Millisecond)
		m.Start(context.Background())
		defer m.Stop()

		if !waitFor(time.Second, func() bool { return len(m.Snapshot()) == 1 }) {
			t.Fatalf("monitor never picked up the session")
		}

		source.set(nil, errors.New("connection reset"))
		time.Sleep(30 * time.Millisecond)
		if got := len(m.Snapshot()); got != 1 {
			t.Fatalf("expected the stale view to survive the failure, got %d sessions", got)
		}

		// Recovery reconciles the view on the next good cycle.
		source.set([]model.SessionDetail{}, nil)
		if !waitFor(time.Second, func() bool { return len(m.Snapshot()) == 0 }) {
			t.Fatalf("monitor never reconciled after recovery")
		}
	})

	t.Run("stop freezes the view", func(t *testing.T) {
		source := &fakeActiveSource{}
		source.set([]model.SessionDetail{onTimeRow}, nil)
		m := NewMonitor(source, NewFixedClock(now), nil, 5*time.Millisecond)
		m.Start(context.Background())

		if !waitFor(time.Second, func() bool { return len(m.Snapshot()) == 1 }) {
			t.Fatalf("monitor never picked up the session")
		}
		m.Stop()

		source.set([]model.SessionDetail{overtimeRow, onTimeRow}, nil)
		time.Sleep(30 * time.Millisecond)
		if got := len(m.Snapshot()); got != 1 {
			t.Fatalf("expected no refresh after stop, got %d sessions", got)
		}
	})

	t.Run("restart replaces the loop and the view", func(t *testing.T) {
		source := &fakeActiveSource{}
		source.set([]model.SessionDetail{onTimeRow}, nil)
		m := NewMonitor(source, NewFixedClock(now), nil, 5*time.Millisecond)
		m.Start(context.Background())
		defer m.Stop()

		if !waitFor(time.Second, func() bool { return len(m.Snapshot()) == 1 }) {
			t.Fatalf("monitor never picked up the session")
		}

		source.set([]model.SessionDetail{overtimeRow, onTimeRow}, nil)
		m.Start(context.Background())
		if !waitFor(time.Second, func() bool { return len(m.Snapshot()) == 2 }) {
			t.Fatalf("restarted monitor never refreshed")
		}
	})
}
