package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
	"github.com/iliyamo/space-occupancy-engine/internal/occupancy"
	"github.com/iliyamo/space-occupancy-engine/internal/repository"
)

// memStore backs the occupancy engine with in-memory maps for handler
// tests; only the pieces the lifecycle touches are implemented.
type memStore struct {
	mu           sync.Mutex
	reservations map[uint64]model.Reservation
	sessions     map[uint64]model.Session
	nextID       uint64
}

func newMemStore(rows ...model.Reservation) *memStore {
	m := &memStore{
		reservations: make(map[uint64]model.Reservation),
		sessions:     make(map[uint64]model.Session),
	}
	for _, r := range rows {
		m.reservations[r.ID] = r
	}
	return m
}

func (m *memStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	out := r
	return &out, nil
}

func (m *memStore) HasOpen(_ context.Context, reservationID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.ReservationID == reservationID && s.Status == model.SessionStatusCheckedIn {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateCheckedIn(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sessions {
		if existing.ReservationID == s.ReservationID && existing.Status == model.SessionStatusCheckedIn {
			return repository.ErrOpenSessionExists
		}
	}
	m.nextID++
	s.ID = m.nextID
	m.sessions[s.ID] = *s
	return nil
}

func (m *memStore) SessionByID(_ context.Context, id uint64) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	out := s
	return &out, nil
}

func (m *memStore) Close(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.sessions[s.ID]
	if !ok || existing.Status != model.SessionStatusCheckedIn {
		return repository.ErrStaleState
	}
	m.sessions[s.ID] = *s
	return nil
}

// sessionStore adapts memStore to the lifecycle's store interface,
// working around the GetByID name collision with the reservation side.
type sessionStore struct{ *memStore }

func (s sessionStore) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	return s.SessionByID(ctx, id)
}

func newTestHandler(t *testing.T, now time.Time, rows ...model.Reservation) *LifecycleHandler {
	t.Helper()
	store := newMemStore(rows...)
	clk := occupancy.NewFixedClock(now)
	verifier := occupancy.NewVerifier(store, store, clk)
	lifecycle := occupancy.NewLifecycle(verifier, store, sessionStore{store}, clk, nil)
	return NewLifecycleHandler(verifier, lifecycle)
}

func doRequest(h echo.HandlerFunc, method, target, body, actor string, setup func(echo.Context)) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != "" {
		c.Set("user_id", actor)
	}
	if setup != nil {
		setup(c)
	}
	_ = h(c)
	return rec
}

func TestLifecycleHandler_CheckIn(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	now := today.Add(10 * time.Hour)
	paid := model.Reservation{ID: 7, Date: today, ReservedHours: 2, Status: model.ReservationStatusPaid}

	t.Run("eligible reservation opens a session", func(t *testing.T) {
		h := newTestHandler(t, now, paid)
		rec := doRequest(h.CheckIn, http.MethodPost, "/v1/check-in", `{"reservation_id":7,"notes":"on time"}`, "staff-1", nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Session model.Session `json:"session"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Session.ID == 0 || body.Session.Status != model.SessionStatusCheckedIn {
			t.Fatalf("unexpected session %+v", body.Session)
		}
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		h := newTestHandler(t, now, paid)
		rec := doRequest(h.CheckIn, http.MethodPost, "/v1/check-in", `{"reservation_id":7}`, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("unknown reservation maps to 404", func(t *testing.T) {
		h := newTestHandler(t, now, paid)
		rec := doRequest(h.CheckIn, http.MethodPost, "/v1/check-in", `{"reservation_id":99}`, "staff-1", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("ineligible reservation maps to 422 with the reason", func(t *testing.T) {
		draft := paid
		draft.ID = 8
		draft.Status = model.ReservationStatusDraft
		h := newTestHandler(t, now, draft)
		rec := doRequest(h.CheckIn, http.MethodPost, "/v1/check-in", `{"reservation_id":8}`, "staff-1", nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Reason != "reservation is not paid" {
			t.Fatalf("unexpected reason %q", body.Reason)
		}
	})
}

func TestLifecycleHandler_Verify(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	now := today.Add(10 * time.Hour)
	paid := model.Reservation{ID: 7, Date: today, GuestEmail: "dana@example.com", Status: model.ReservationStatusPaid}

	h := newTestHandler(t, now, paid)

	t.Run("eligible reservation verifies", func(t *testing.T) {
		rec := doRequest(h.Verify, http.MethodGet, "/v1/reservations/7/verify", "", "staff-1", func(c echo.Context) {
			c.SetParamNames("id")
			c.SetParamValues("7")
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var v occupancy.Verification
		if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !v.CanCheckIn {
			t.Fatalf("expected eligible, got %+v", v)
		}
	})

	t.Run("unknown reservation verifies to 404", func(t *testing.T) {
		rec := doRequest(h.Verify, http.MethodGet, "/v1/reservations/99/verify", "", "staff-1", func(c echo.Context) {
			c.SetParamNames("id")
			c.SetParamValues("99")
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
