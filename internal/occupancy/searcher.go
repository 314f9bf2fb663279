package occupancy

import (
	"context"
	"sync"
	"time"
)

// CandidateSearcher is the slice of Matcher the debouncer needs.
type CandidateSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// DeliverFunc receives the results for the query they were issued for.
// It is only ever invoked for the latest query; results for superseded
// queries are discarded, ordering by request issuance rather than
// response arrival.
type DeliverFunc func(query string, results []Candidate, err error)

// Searcher debounces free-text search input.  Each Query call resets
// the debounce window; once the window elapses the search runs in the
// background and the outcome is delivered only if no newer query has
// been issued in the meantime.
type Searcher struct {
	matcher CandidateSearcher
	delay   time.Duration
	limit   int
	deliver DeliverFunc

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
}

// NewSearcher constructs a Searcher with the given debounce delay
// (reference: 300ms) and per-query result limit.
func NewSearcher(matcher CandidateSearcher, delay time.Duration, limit int, deliver DeliverFunc) *Searcher {
	if matcher == nil || deliver == nil {
		panic("nil dependency passed to NewSearcher")
	}
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	if limit < 1 {
		limit = 20
	}
	return &Searcher{matcher: matcher, delay: delay, limit: limit, deliver: deliver}
}

// Query schedules a search for text, superseding any pending or
// in-flight one.
func (s *Searcher) Query(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	seq := s.seq
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(ctx, text, seq)
	})
}

// Stop cancels any pending query.  In-flight searches finish but their
// results are discarded.
func (s *Searcher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Searcher) run(ctx context.Context, text string, seq uint64) {
	// Re-check before the (possibly slow) search: a newer query may
	// have arrived while this one sat in the timer queue.
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	results, err := s.matcher.Search(ctx, text, s.limit)

	// Delivery happens under the mutex so a stale response can never
	// overtake the one for the latest query.
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return
	}
	s.deliver(text, results, err)
}
