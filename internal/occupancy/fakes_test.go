package occupancy

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
	"github.com/iliyamo/space-occupancy-engine/internal/repository"
)

// fakeReservations is an in-memory ReservationSource and SearchSource.
type fakeReservations struct {
	mu   sync.Mutex
	byID map[uint64]model.Reservation
	err  error
}

func newFakeReservations(rows ...model.Reservation) *fakeReservations {
	f := &fakeReservations{byID: make(map[uint64]model.Reservation)}
	for _, r := range rows {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeReservations) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	out := r
	return &out, nil
}

func (f *fakeReservations) Search(_ context.Context, query string, limit int) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Reservation, 0, len(f.byID))
	for _, r := range f.byID {
		out = append(out, r)
	}
	// Deterministic order by ID; the matcher re-ranks anyway.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID < out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeSessions is an in-memory SessionStore mirroring the SQL guards:
// the insert refuses a second open session and Close applies only to
// sessions still checked in.
type fakeSessions struct {
	mu     sync.Mutex
	byID   map[uint64]model.Session
	nextID uint64
	err    error
}

func newFakeSessions(rows ...model.Session) *fakeSessions {
	f := &fakeSessions{byID: make(map[uint64]model.Session)}
	for _, s := range rows {
		f.byID[s.ID] = s
		if s.ID > f.nextID {
			f.nextID = s.ID
		}
	}
	return f
}

func (f *fakeSessions) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSessions) HasOpen(_ context.Context, reservationID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, s := range f.byID {
		if s.ReservationID == reservationID && s.Status == model.SessionStatusCheckedIn {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessions) CreateCheckedIn(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.ReservationID == s.ReservationID && existing.Status == model.SessionStatusCheckedIn {
			return repository.ErrOpenSessionExists
		}
	}
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt = s.CheckInAt
	f.byID[s.ID] = *s
	return nil
}

func (f *fakeSessions) GetByID(_ context.Context, id uint64) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	out := s
	return &out, nil
}

func (f *fakeSessions) Close(_ context.Context, s *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	existing, ok := f.byID[s.ID]
	if !ok || existing.Status != model.SessionStatusCheckedIn {
		return repository.ErrStaleState
	}
	f.byID[s.ID] = *s
	return nil
}

// fakeActiveSource feeds the monitor a settable list of open sessions.
type fakeActiveSource struct {
	mu   sync.Mutex
	rows []model.SessionDetail
	err  error
}

func (f *fakeActiveSource) set(rows []model.SessionDetail, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = rows
	f.err = err
}

func (f *fakeActiveSource) ListActive(context.Context) ([]model.SessionDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.SessionDetail, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

// recordSink captures emitted events for assertions.
type recordSink struct {
	mu        sync.Mutex
	checkIns  []model.SessionDetail
	failures  []string
	checkOuts []model.SessionDetail
	overtimes []uint64
}

func (r *recordSink) CheckInSucceeded(_ context.Context, d model.SessionDetail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkIns = append(r.checkIns, d)
}

func (r *recordSink) CheckInFailed(_ context.Context, _ uint64, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, reason)
}

func (r *recordSink) CheckOutSucceeded(_ context.Context, d model.SessionDetail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkOuts = append(r.checkOuts, d)
}

func (r *recordSink) SessionEnteredOvertime(_ context.Context, d model.SessionDetail, _ Usage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overtimes = append(r.overtimes, d.Session.ID)
}

func (r *recordSink) overtimeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.overtimes)
}

// stepClock is a Clock whose current instant the test moves by hand.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock(t time.Time) *stepClock { return &stepClock{now: t.UTC()} }

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
