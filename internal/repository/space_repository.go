package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
)

// SpaceRepo provides read-only access to the space catalog owned by
// the space management subsystem.  The engine uses it for display and
// filtering; the hourly rate reaches billing through the reservation
// join.
type SpaceRepo struct {
	db *sql.DB
}

// NewSpaceRepo returns a new SpaceRepo bound to the given database.
func NewSpaceRepo(db *sql.DB) *SpaceRepo { return &SpaceRepo{db: db} }

const spaceColumns = `s.id, s.name, s.category, COALESCE(s.hourly_rate_cents, 0), s.is_active, s.created_at`

// GetByID returns one catalog entry, or ErrSpaceNotFound.
func (r *SpaceRepo) GetByID(ctx context.Context, id uint64) (*model.Space, error) {
	q := `SELECT ` + spaceColumns + ` FROM spaces s WHERE s.id = ?`
	var sp model.Space
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&sp.ID, &sp.Name, &sp.Category, &sp.HourlyRateCents, &sp.IsActive, &sp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}
	return &sp, nil
}

// ListActive returns the currently offered spaces ordered by name.
// The history view uses this to populate its space filter.
func (r *SpaceRepo) ListActive(ctx context.Context) ([]model.Space, error) {
	q := `SELECT ` + spaceColumns + ` FROM spaces s WHERE s.is_active = 1 ORDER BY s.name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Space
	for rows.Next() {
		var sp model.Space
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Category, &sp.HourlyRateCents, &sp.IsActive, &sp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
