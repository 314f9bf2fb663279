package occupancy

import (
	"context"
	"errors"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
	"github.com/iliyamo/space-occupancy-engine/internal/repository"
)

// HistoryPage is one page of closed sessions plus the aggregate stats
// and pagination envelope.
type HistoryPage struct {
	Sessions   []model.SessionDetail   `json:"sessions"`
	Stats      repository.HistoryStats `json:"stats"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
	Total      int64                   `json:"total"`
	TotalPages int64                   `json:"total_pages"`
}

// HistoryStore reads closed sessions.  ListClosed returns one page and
// the total match count; ClosedStats aggregates over the same filter.
type HistoryStore interface {
	ListClosed(ctx context.Context, f repository.HistoryFilter, limit, offset int) ([]model.SessionDetail, int64, error)
	ClosedStats(ctx context.Context, f repository.HistoryFilter) (repository.HistoryStats, error)
	GetDetail(ctx context.Context, sessionID uint64) (*model.SessionDetail, error)
}

// HistoryReader is the paginated, filterable read model over closed
// sessions.  Closed records are never recomputed — their stored final
// cost is authoritative.
type HistoryReader struct {
	store HistoryStore
}

// NewHistoryReader constructs a HistoryReader.
func NewHistoryReader(store HistoryStore) *HistoryReader {
	if store == nil {
		panic("nil store passed to NewHistoryReader")
	}
	return &HistoryReader{store: store}
}

// List returns the requested page with stats over the whole filtered
// set.  Page and pageSize are clamped to sane bounds.
func (h *HistoryReader) List(ctx context.Context, f repository.HistoryFilter, page, pageSize int) (HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	sessions, total, err := h.store.ListClosed(ctx, f, pageSize, (page-1)*pageSize)
	if err != nil {
		return HistoryPage{}, &TransientReadError{Err: err}
	}
	stats, err := h.store.ClosedStats(ctx, f)
	if err != nil {
		return HistoryPage{}, &TransientReadError{Err: err}
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	return HistoryPage{
		Sessions:   sessions,
		Stats:      stats,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Get returns the full persisted record for one session, including the
// actors and notes for both transitions.
func (h *HistoryReader) Get(ctx context.Context, sessionID uint64) (*model.SessionDetail, error) {
	d, err := h.store.GetDetail(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, &NotFoundError{Kind: "session", ID: sessionID}
		}
		return nil, &TransientReadError{Err: err}
	}
	return d, nil
}
