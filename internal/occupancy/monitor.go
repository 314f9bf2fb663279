package occupancy

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
)

// ActiveSessionSource lists every session currently checked in, paired
// with its reservation snapshot.
type ActiveSessionSource interface {
	ListActive(ctx context.Context) ([]model.SessionDetail, error)
}

// LiveSession is one monitored session with its usage recomputed as of
// the latest refresh.
type LiveSession struct {
	model.SessionDetail
	Usage Usage `json:"usage"`
}

// Monitor keeps a continuously refreshed snapshot of all open sessions
// and raises an edge-triggered event when a session crosses into
// overtime: a session entering overtime on one refresh and staying
// there on the next is reported exactly once.
//
// A transient read failure keeps the previous snapshot — stale but
// present beats an empty flash — and the next successful cycle
// reconciles the view.  Start cancels any prior loop for the same
// Monitor, and a refresh that completes after Stop (or a restart) is
// discarded rather than applied.
type Monitor struct {
	source   ActiveSessionSource
	clock    Clock
	sink     EventSink
	interval time.Duration

	mu       sync.Mutex
	cancel   context.CancelFunc
	epoch    uint64
	view     []LiveSession
	overtime map[uint64]bool // session IDs flagged on the previous cycle
	ready    bool
}

// NewMonitor constructs a Monitor polling at the given interval
// (reference cadence: 5s).
func NewMonitor(source ActiveSessionSource, clk Clock, sink EventSink, interval time.Duration) *Monitor {
	if source == nil || clk == nil {
		panic("nil dependency passed to NewMonitor")
	}
	if sink == nil {
		sink = NopSink{}
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Monitor{
		source:   source,
		clock:    clk,
		sink:     sink,
		interval: interval,
		overtime: make(map[uint64]bool),
	}
}

// Start launches the polling loop.  Any previously started loop is
// cancelled first, so repeated Start calls never leak a ticker.
func (m *Monitor) Start(parent context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.epoch++
	epoch := m.epoch
	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel
	m.mu.Unlock()

	go m.loop(ctx, epoch)
}

// Stop cancels the polling loop immediately.  It does not wait for an
// in-flight refresh; one that completes afterwards is discarded.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.epoch++
}

// Ready reports whether at least one refresh cycle has completed since
// construction.
func (m *Monitor) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Snapshot returns a copy of the most recent view.
func (m *Monitor) Snapshot() []LiveSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LiveSession, len(m.view))
	copy(out, m.view)
	return out
}

func (m *Monitor) loop(ctx context.Context, epoch uint64) {
	m.refresh(ctx, epoch)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.refresh(ctx, epoch)
		}
	}
}

// refresh performs one poll cycle.  The read happens outside the
// mutex; the result is applied only if this loop is still the current
// one.
func (m *Monitor) refresh(ctx context.Context, epoch uint64) {
	rows, err := m.source.ListActive(ctx)
	if err != nil {
		// Swallowed at the monitor boundary to avoid notification
		// spam; the stale view stays in place until a cycle succeeds.
		log.Printf("monitor: refresh failed, keeping previous view: %v", err)
		return
	}

	asOf := m.clock.Now()
	view := make([]LiveSession, 0, len(rows))
	current := make(map[uint64]bool, len(rows))
	for _, d := range rows {
		u := ComputeUsage(&d.Reservation, d.Session.CheckInAt, asOf)
		view = append(view, LiveSession{SessionDetail: d, Usage: u})
		if u.IsOvertime {
			current[d.Session.ID] = true
		}
	}

	m.mu.Lock()
	if epoch != m.epoch || ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	var entered []LiveSession
	for _, ls := range view {
		if current[ls.Session.ID] && !m.overtime[ls.Session.ID] {
			entered = append(entered, ls)
		}
	}
	m.view = view
	m.overtime = current
	m.ready = true
	m.mu.Unlock()

	for _, ls := range entered {
		m.sink.SessionEnteredOvertime(ctx, ls.SessionDetail, ls.Usage)
	}
}
