package model

import "time"

// Space describes a rentable physical space from the space catalog.
// The engine consumes it read-only as the primary source of the
// hourly rate used for overtime billing.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name of the space.
//  Category        – category key (e.g. MEETING_ROOM, STUDIO, LODGING).
//  HourlyRateCents – hourly rate in cents; 0 when the space is billed
//                    per night or has no fixed rate.
//  IsActive        – whether the space is currently offered.
//  CreatedAt       – creation timestamp.
type Space struct {
	ID              uint64    // spaces.id
	Name            string    // spaces.name
	Category        string    // spaces.category
	HourlyRateCents int64     // spaces.hourly_rate_cents
	IsActive        bool      // spaces.is_active
	CreatedAt       time.Time // spaces.created_at
}
