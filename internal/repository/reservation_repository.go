package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
)

// ReservationRepo provides read-only access to reservations owned by
// the booking subsystem.  The hourly rate is resolved by joining the
// space catalog, so callers always receive a snapshot complete enough
// for eligibility checks and billing.  All timestamps are stored in
// UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `r.id, r.event_name, r.guest_name, r.guest_email, r.guest_phone,
       r.space_id, COALESCE(sp.name, ''), r.reserved_date,
       COALESCE(r.start_time, ''), COALESCE(r.end_time, ''), r.nights,
       r.reserved_hours, COALESCE(sp.hourly_rate_cents, 0),
       r.base_cost_cents, r.status, r.created_at`

// GetByID returns the reservation snapshot for the given identifier.
// It returns ErrReservationNotFound when no row exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + `
	      FROM reservations r
	      LEFT JOIN spaces sp ON sp.id = r.space_id
	      WHERE r.id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// Search returns reservations matching a free-text query on the
// identifier, guest email, event name or guest name.  Matching is
// case-insensitive substring except for the identifier, which must
// match exactly.  Rows come back ordered by reserved date then ID;
// relevance ranking happens in the domain layer.
func (r *ReservationRepo) Search(ctx context.Context, query string, limit int) ([]model.Reservation, error) {
	if limit < 1 {
		limit = 20
	}
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	// A non-numeric query can never match the ID predicate; 0 is not a
	// valid reservation identifier.
	id, _ := strconv.ParseUint(strings.TrimSpace(query), 10, 64)

	q := `SELECT ` + reservationColumns + `
	      FROM reservations r
	      LEFT JOIN spaces sp ON sp.id = r.space_id
	      WHERE r.id = ?
	         OR LOWER(r.guest_email) LIKE ?
	         OR LOWER(r.event_name) LIKE ?
	         OR LOWER(r.guest_name) LIKE ?
	      ORDER BY r.reserved_date ASC, r.id ASC
	      LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, id, like, like, like, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0, limit)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	if err := s.Scan(
		&res.ID, &res.EventName, &res.GuestName, &res.GuestEmail, &res.GuestPhone,
		&res.SpaceID, &res.SpaceName, &res.Date,
		&res.StartTime, &res.EndTime, &res.Nights,
		&res.ReservedHours, &res.SpaceHourlyRateCents,
		&res.BaseCostCents, &res.Status, &res.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}
