package model

import "time"

// Reservation status values as stored by the booking subsystem.  The
// engine never writes reservations; it only reads them to decide
// whether a guest may check in.
const (
	ReservationStatusDraft     = "DRAFT"
	ReservationStatusPaid      = "PAID"
	ReservationStatusCancelled = "CANCELLED"
)

// Reservation is a read-only snapshot of a booking for a rentable
// space.  It carries everything the engine needs for eligibility
// checks and billing: the reserved window, the hourly rate of the
// space and the amount already charged at booking time.
//
// Fields:
//  ID                   – primary key identifier.
//  EventName            – title of the event the space was booked for.
//  GuestName            – name of the attendee who made the booking.
//  GuestEmail           – contact email recorded at booking time.
//  GuestPhone           – contact phone recorded at booking time.
//  SpaceID              – space being occupied.
//  SpaceName            – denormalized space name for display.
//  Date                 – reserved calendar day (UTC midnight).
//  StartTime            – reserved start as "HH:MM"; empty for open-ended
//                         categories.
//  EndTime              – reserved end as "HH:MM"; empty for open-ended
//                         categories.
//  Nights               – reserved night count for multi-day categories.
//  ReservedHours        – reserved duration in hours; 0 signals an
//                         unbounded reservation.
//  SpaceHourlyRateCents – hourly rate of the space in cents; 0 when the
//                         space has no fixed rate.
//  BaseCostCents        – amount already charged at booking time.
//  Status               – DRAFT, PAID or CANCELLED.
//  CreatedAt            – creation timestamp.
type Reservation struct {
	ID                   uint64    // reservations.id
	EventName            string    // reservations.event_name
	GuestName            string    // reservations.guest_name
	GuestEmail           string    // reservations.guest_email
	GuestPhone           string    // reservations.guest_phone
	SpaceID              uint64    // reservations.space_id
	SpaceName            string    // spaces.name (joined)
	Date                 time.Time // reservations.reserved_date
	StartTime            string    // reservations.start_time (nullable)
	EndTime              string    // reservations.end_time (nullable)
	Nights               uint32    // reservations.nights
	ReservedHours        float64   // reservations.reserved_hours
	SpaceHourlyRateCents int64     // spaces.hourly_rate_cents (joined, nullable)
	BaseCostCents        int64     // reservations.base_cost_cents
	Status               string    // reservations.status
	CreatedAt            time.Time // reservations.created_at
}
