// Package queue defines the session event payloads exchanged over the
// message broker and the background consumer that appends them to
// logs/occupancy.log.
package queue

// Event type discriminators carried in SessionEvent.Type.
const (
	EventCheckedIn       = "session.checked_in"
	EventCheckInFailed   = "session.check_in_failed"
	EventCheckedOut      = "session.checked_out"
	EventEnteredOvertime = "session.entered_overtime"
)

// SessionEventsQueue is the durable queue all session events go to.
const SessionEventsQueue = "session.events"

// SessionEvent is published on every lifecycle transition and when the
// monitor sees a session cross into overtime.  It carries enough
// denormalized reservation and space context for downstream consumers
// to log or notify without querying the primary database.  Cost fields
// are populated for check-out and overtime events only.
type SessionEvent struct {
	Type              string  `json:"type"`
	SessionID         uint64  `json:"session_id,omitempty"`
	ReservationID     uint64  `json:"reservation_id"`
	EventName         string  `json:"event_name,omitempty"`
	GuestName         string  `json:"guest_name,omitempty"`
	SpaceID           uint64  `json:"space_id,omitempty"`
	SpaceName         string  `json:"space_name,omitempty"`
	Actor             string  `json:"actor,omitempty"`
	Reason            string  `json:"reason,omitempty"`
	OvertimeHours     float64 `json:"overtime_hours,omitempty"`
	OvertimeCostCents int64   `json:"overtime_cost_cents,omitempty"`
	TotalCostCents    int64   `json:"total_cost_cents,omitempty"`
	OccurredAt        string  `json:"occurred_at"`
}
