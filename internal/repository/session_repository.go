package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
)

// SessionRepo persists occupancy sessions.  The two state transitions
// are guarded inside SQL so the at-most-one-winner contract holds even
// across processes: check-in is an INSERT conditional on no open
// session existing for the reservation, and check-out is an UPDATE
// conditional on the row still being CHECKED_IN.  All timestamps are
// stored in UTC.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// HasOpen reports whether the reservation currently has a session in
// CHECKED_IN state.
func (r *SessionRepo) HasOpen(ctx context.Context, reservationID uint64) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM sessions
	             WHERE reservation_id = ? AND status = 'CHECKED_IN')`
	var open bool
	if err := r.db.QueryRowContext(ctx, q, reservationID).Scan(&open); err != nil {
		return false, err
	}
	return open, nil
}

// CreateCheckedIn inserts a new CHECKED_IN session unless the
// reservation already has an open one, in which case it returns
// ErrOpenSessionExists and inserts nothing.  On success the generated
// ID and database timestamps are populated on the provided record.
func (r *SessionRepo) CreateCheckedIn(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO sessions (reservation_id, status, check_in_at, check_in_notes, check_in_by)
	           SELECT ?, 'CHECKED_IN', ?, ?, ?
	           FROM DUAL
	           WHERE NOT EXISTS (
	             SELECT 1 FROM sessions
	             WHERE reservation_id = ? AND status = 'CHECKED_IN')`
	result, err := r.db.ExecContext(ctx, q,
		s.ReservationID, s.CheckInAt.UTC(), s.CheckInNotes, s.CheckInBy,
		s.ReservationID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOpenSessionExists
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	// Query back the full row to populate defaults set by the database.
	stored, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *stored
	return nil
}

const sessionColumns = `s.id, s.reservation_id, s.status, s.check_in_at, s.check_out_at,
       COALESCE(s.check_in_notes, ''), COALESCE(s.check_out_notes, ''),
       COALESCE(s.check_in_by, ''), COALESCE(s.check_out_by, ''),
       s.overtime_hours, s.overtime_cost_cents, s.total_cost_cents, s.created_at`

// GetByID returns one session row, or ErrSessionNotFound.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions s WHERE s.id = ?`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// Close finalizes a session.  The update applies only while the row is
// still CHECKED_IN; when another transition got there first it returns
// ErrStaleState and changes nothing, so the first writer's check-out
// time and costs are preserved.
func (r *SessionRepo) Close(ctx context.Context, s *model.Session) error {
	const q = `UPDATE sessions
	           SET status = 'CHECKED_OUT', check_out_at = ?, check_out_notes = ?,
	               check_out_by = ?, overtime_hours = ?, overtime_cost_cents = ?,
	               total_cost_cents = ?
	           WHERE id = ? AND status = 'CHECKED_IN'`
	result, err := r.db.ExecContext(ctx, q,
		s.CheckOutAt.UTC(), s.CheckOutNotes, s.CheckOutBy,
		s.OvertimeHours, s.OvertimeCostCents, s.TotalCostCents,
		s.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStaleState
	}
	return nil
}

// ListActive returns every CHECKED_IN session joined with its
// reservation snapshot, ordered by check-in time ascending so the
// longest-running occupancy comes first.
func (r *SessionRepo) ListActive(ctx context.Context) ([]model.SessionDetail, error) {
	q := `SELECT ` + sessionColumns + `, ` + reservationColumns + `
	      FROM sessions s
	      JOIN reservations r ON r.id = s.reservation_id
	      LEFT JOIN spaces sp ON sp.id = r.space_id
	      WHERE s.status = 'CHECKED_IN'
	      ORDER BY s.check_in_at ASC, s.id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SessionDetail, 0)
	for rows.Next() {
		d, err := scanSessionDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HistoryFilter narrows queries over closed sessions.  Zero values
// mean "no constraint".  DateFrom/DateTo bound the check-in timestamp.
type HistoryFilter struct {
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	SpaceID  uint64
}

// HistoryStats aggregates closed sessions matching a filter.  All
// figures are zero-safe: an empty match yields zeros, never NULL or
// NaN.
type HistoryStats struct {
	TotalSessions      int64   `json:"total_sessions"`
	TotalHours         float64 `json:"total_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	AverageHours       float64 `json:"average_hours"`
}

// historyWhere builds the shared WHERE clause for history queries.
func historyWhere(f HistoryFilter) (string, []any) {
	where := []string{"s.status <> 'CHECKED_IN'"}
	args := []any{}
	if f.Status != "" {
		where = append(where, "s.status = ?")
		args = append(args, strings.ToUpper(f.Status))
	}
	if f.DateFrom != nil {
		where = append(where, "s.check_in_at >= ?")
		args = append(args, f.DateFrom.UTC())
	}
	if f.DateTo != nil {
		where = append(where, "s.check_in_at <= ?")
		args = append(args, f.DateTo.UTC())
	}
	if f.SpaceID != 0 {
		where = append(where, "r.space_id = ?")
		args = append(args, f.SpaceID)
	}
	return strings.Join(where, " AND "), args
}

// ListClosed returns one page of closed sessions plus the total match
// count.  Ordering is newest check-out first.
func (r *SessionRepo) ListClosed(ctx context.Context, f HistoryFilter, limit, offset int) ([]model.SessionDetail, int64, error) {
	cond, args := historyWhere(f)

	countSQL := `SELECT COUNT(*)
	             FROM sessions s
	             JOIN reservations r ON r.id = s.reservation_id
	             WHERE ` + cond
	var total int64
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := `SELECT ` + sessionColumns + `, ` + reservationColumns + `
	            FROM sessions s
	            JOIN reservations r ON r.id = s.reservation_id
	            LEFT JOIN spaces sp ON sp.id = r.space_id
	            WHERE ` + cond + `
	            ORDER BY s.check_out_at DESC, s.id DESC
	            LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.SessionDetail, 0, limit)
	for rows.Next() {
		d, err := scanSessionDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ClosedStats aggregates the full filtered set, independent of
// pagination.  Actual duration is check-out minus check-in.
func (r *SessionRepo) ClosedStats(ctx context.Context, f HistoryFilter) (HistoryStats, error) {
	cond, args := historyWhere(f)
	q := `SELECT COUNT(*),
	             COALESCE(SUM(TIMESTAMPDIFF(SECOND, s.check_in_at, s.check_out_at)) / 3600.0, 0),
	             COALESCE(SUM(s.overtime_hours), 0)
	      FROM sessions s
	      JOIN reservations r ON r.id = s.reservation_id
	      WHERE ` + cond
	var stats HistoryStats
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&stats.TotalSessions, &stats.TotalHours, &stats.TotalOvertimeHours,
	); err != nil {
		return HistoryStats{}, err
	}
	if stats.TotalSessions > 0 {
		stats.AverageHours = stats.TotalHours / float64(stats.TotalSessions)
	}
	return stats, nil
}

// GetDetail returns one session joined with its reservation snapshot,
// or ErrSessionNotFound.
func (r *SessionRepo) GetDetail(ctx context.Context, sessionID uint64) (*model.SessionDetail, error) {
	q := `SELECT ` + sessionColumns + `, ` + reservationColumns + `
	      FROM sessions s
	      JOIN reservations r ON r.id = s.reservation_id
	      LEFT JOIN spaces sp ON sp.id = r.space_id
	      WHERE s.id = ?`
	d, err := scanSessionDetail(r.db.QueryRowContext(ctx, q, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return d, nil
}

func scanSession(sc rowScanner) (*model.Session, error) {
	var s model.Session
	var checkOut sql.NullTime
	if err := sc.Scan(
		&s.ID, &s.ReservationID, &s.Status, &s.CheckInAt, &checkOut,
		&s.CheckInNotes, &s.CheckOutNotes,
		&s.CheckInBy, &s.CheckOutBy,
		&s.OvertimeHours, &s.OvertimeCostCents, &s.TotalCostCents, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	if checkOut.Valid {
		t := checkOut.Time.UTC()
		s.CheckOutAt = &t
	}
	s.CheckInAt = s.CheckInAt.UTC()
	return &s, nil
}

func scanSessionDetail(sc rowScanner) (*model.SessionDetail, error) {
	var d model.SessionDetail
	var checkOut sql.NullTime
	if err := sc.Scan(
		&d.Session.ID, &d.Session.ReservationID, &d.Session.Status, &d.Session.CheckInAt, &checkOut,
		&d.Session.CheckInNotes, &d.Session.CheckOutNotes,
		&d.Session.CheckInBy, &d.Session.CheckOutBy,
		&d.Session.OvertimeHours, &d.Session.OvertimeCostCents, &d.Session.TotalCostCents, &d.Session.CreatedAt,
		&d.Reservation.ID, &d.Reservation.EventName, &d.Reservation.GuestName, &d.Reservation.GuestEmail, &d.Reservation.GuestPhone,
		&d.Reservation.SpaceID, &d.Reservation.SpaceName, &d.Reservation.Date,
		&d.Reservation.StartTime, &d.Reservation.EndTime, &d.Reservation.Nights,
		&d.Reservation.ReservedHours, &d.Reservation.SpaceHourlyRateCents,
		&d.Reservation.BaseCostCents, &d.Reservation.Status, &d.Reservation.CreatedAt,
	); err != nil {
		return nil, err
	}
	if checkOut.Valid {
		t := checkOut.Time.UTC()
		d.Session.CheckOutAt = &t
	}
	d.Session.CheckInAt = d.Session.CheckInAt.UTC()
	return &d, nil
}
