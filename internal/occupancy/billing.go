package occupancy

import (
	"math"
	"time"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
)

// graceHours is the grace period subtracted from raw overtime before
// billing.  A session that finishes exactly on time, or up to ten
// minutes late, is never billed extra.  The grace period applies to
// overtime only, never to the reserved window itself.
const graceHours = 10.0 / 60.0

// Usage is the output of the occupancy clock for one session at one
// reference instant.  All durations are in hours; money is in cents.
type Usage struct {
	ElapsedHours      float64 `json:"elapsed_hours"`
	ReservedHours     float64 `json:"reserved_hours"`
	RemainingHours    float64 `json:"remaining_hours"`
	OvertimeHours     float64 `json:"overtime_hours"`
	IsOvertime        bool    `json:"is_overtime"`
	HourlyRateCents   int64   `json:"hourly_rate_cents"`
	OvertimeCostCents int64   `json:"overtime_cost_cents"`
	TotalCostCents    int64   `json:"total_cost_cents"`
}

// ComputeUsage derives elapsed, remaining and overtime figures for a
// session checked in at checkInAt, measured against the explicit asOf
// instant.  Live display passes the current time; settlement passes
// the check-out timestamp so the result is deterministic and stable
// thereafter.  The function is pure and safe for concurrent use.
//
// A reservation with ReservedHours == 0 is open-ended: the entire
// elapsed time is billable at the resolved hourly rate and there is
// nothing to count down, so RemainingHours stays 0 throughout.
func ComputeUsage(res *model.Reservation, checkInAt, asOf time.Time) Usage {
	elapsed := asOf.Sub(checkInAt).Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	reserved := res.ReservedHours

	u := Usage{
		ElapsedHours:  elapsed,
		ReservedHours: reserved,
	}

	switch {
	case reserved == 0:
		u.OvertimeHours = round2(elapsed)
	case elapsed <= reserved:
		u.RemainingHours = reserved - elapsed
	default:
		raw := elapsed - reserved
		if raw > graceHours {
			u.OvertimeHours = round2(raw - graceHours)
		}
	}
	u.IsOvertime = u.OvertimeHours > 0

	u.HourlyRateCents = ResolveHourlyRateCents(res)
	u.OvertimeCostCents = int64(math.Round(u.OvertimeHours * float64(u.HourlyRateCents)))
	u.TotalCostCents = res.BaseCostCents + u.OvertimeCostCents
	return u
}

// ResolveHourlyRateCents returns the rate used to bill overtime.  The
// space's own hourly rate wins; when the space has none, the rate is
// derived from what was charged at booking time divided by the
// reserved hours.  Reservations with neither yield 0 and accrue no
// overtime cost.
func ResolveHourlyRateCents(res *model.Reservation) int64 {
	if res.SpaceHourlyRateCents > 0 {
		return res.SpaceHourlyRateCents
	}
	if res.ReservedHours > 0 && res.BaseCostCents > 0 {
		return int64(math.Round(float64(res.BaseCostCents) / res.ReservedHours))
	}
	return 0
}

// round2 rounds to two decimal places.  Overtime hours are rounded
// before the cost multiplication to avoid drift from floating
// accumulation.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
