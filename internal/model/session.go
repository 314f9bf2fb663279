package model

import "time"

// Session status values.  There is no persisted PENDING state: a
// reservation without an open session row simply has no session yet.
const (
	SessionStatusCheckedIn  = "CHECKED_IN"
	SessionStatusCheckedOut = "CHECKED_OUT"
)

// Session is the occupancy record for a single reservation.  A row is
// created on check-in and closed exactly once on check-out; after that
// it is an append-only history record and none of its fields mutate.
// Final cost fields are zero while the session is open and become
// authoritative once CheckOutAt is set.
//
// Fields:
//  ID                – primary key identifier.
//  ReservationID     – owning reservation (at most one open session per
//                      reservation).
//  Status            – CHECKED_IN or CHECKED_OUT.
//  CheckInAt         – set exactly once, on check-in.
//  CheckOutAt        – set exactly once, on check-out (nullable).
//  CheckInNotes      – free-form notes recorded at check-in.
//  CheckOutNotes     – free-form notes recorded at check-out.
//  CheckInBy         – actor who performed the check-in.
//  CheckOutBy        – actor who performed the check-out.
//  OvertimeHours     – settled overtime hours (2 decimal places).
//  OvertimeCostCents – settled overtime cost.
//  TotalCostCents    – settled base cost + overtime cost.
//  CreatedAt         – creation timestamp.
type Session struct {
	ID                uint64     // sessions.id
	ReservationID     uint64     // sessions.reservation_id
	Status            string     // sessions.status
	CheckInAt         time.Time  // sessions.check_in_at
	CheckOutAt        *time.Time // sessions.check_out_at (nullable)
	CheckInNotes      string     // sessions.check_in_notes
	CheckOutNotes     string     // sessions.check_out_notes
	CheckInBy         string     // sessions.check_in_by
	CheckOutBy        string     // sessions.check_out_by (empty while open)
	OvertimeHours     float64    // sessions.overtime_hours
	OvertimeCostCents int64      // sessions.overtime_cost_cents
	TotalCostCents    int64      // sessions.total_cost_cents
	CreatedAt         time.Time  // sessions.created_at
}

// SessionDetail pairs a session with the reservation snapshot it was
// opened against.  The monitor annotates open ones with live usage
// recomputed on every refresh; for closed ones the stored final cost
// fields are authoritative and nothing is recomputed.
type SessionDetail struct {
	Session     Session
	Reservation Reservation
}
