package occupancy

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
)

// SearchSource fetches reservations whose identifier or text fields
// match a free-text query.  Implementations may over-fetch; the
// Matcher ranks and truncates the result.
type SearchSource interface {
	Search(ctx context.Context, query string, limit int) ([]model.Reservation, error)
}

// Candidate is one ranked search result, annotated with the verifier's
// decision so the common "search and check in with one click" path
// needs no second round trip.
type Candidate struct {
	Reservation         model.Reservation `json:"reservation"`
	CanCheckIn          bool              `json:"can_check_in"`
	VerificationMessage string            `json:"verification_message"`
}

// Matcher resolves a free-text query (identifier, email, event title,
// guest name) to a ranked set of candidate reservations.  It is
// read-only and has no side effects.
type Matcher struct {
	source   SearchSource
	verifier *Verifier
}

// NewMatcher constructs a Matcher over the given source and verifier.
func NewMatcher(source SearchSource, verifier *Verifier) *Matcher {
	if source == nil || verifier == nil {
		panic("nil dependency passed to NewMatcher")
	}
	return &Matcher{source: source, verifier: verifier}
}

// Rank weights, most relevant first.  A candidate contributes once
// even when it matches on several fields; the best field wins.
const (
	rankExactID = iota
	rankEmail
	rankEventName
	rankGuestName
	rankOther
)

// Search returns up to limit candidates for the query, most relevant
// first.  Queries shorter than two characters return an empty result,
// not an error.  Ties are broken by reservation date ascending
// (soonest first), then identifier ascending.
func (m *Matcher) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []Candidate{}, nil
	}
	if limit < 1 {
		limit = 20
	}

	// Over-fetch so ranking happens over the full match set even when
	// the source orders differently.
	rows, err := m.source.Search(ctx, query, limit*4)
	if err != nil {
		return nil, &TransientReadError{Err: err}
	}

	type scored struct {
		res  model.Reservation
		rank int
	}
	items := make([]scored, 0, len(rows))
	for _, r := range rows {
		items = append(items, scored{res: r, rank: rankFor(r, query)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].rank != items[j].rank {
			return items[i].rank < items[j].rank
		}
		if !items[i].res.Date.Equal(items[j].res.Date) {
			return items[i].res.Date.Before(items[j].res.Date)
		}
		return items[i].res.ID < items[j].res.ID
	})
	if len(items) > limit {
		items = items[:limit]
	}

	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		v, err := m.verifier.Verify(ctx, it.res.ID, "", "")
		if err != nil {
			return nil, err
		}
		out = append(out, Candidate{
			Reservation:         it.res,
			CanCheckIn:          v.CanCheckIn,
			VerificationMessage: v.Message,
		})
	}
	return out, nil
}

// rankFor assigns the best matching field for one reservation.
func rankFor(r model.Reservation, query string) int {
	if id, err := strconv.ParseUint(query, 10, 64); err == nil && id == r.ID {
		return rankExactID
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(r.GuestEmail), q) {
		return rankEmail
	}
	if strings.Contains(strings.ToLower(r.EventName), q) {
		return rankEventName
	}
	if strings.Contains(strings.ToLower(r.GuestName), q) {
		return rankGuestName
	}
	return rankOther
}
