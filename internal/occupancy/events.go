package occupancy

import (
	"context"

	"github.com/iliyamo/space-occupancy-engine/internal/model"
)

// EventSink receives discrete lifecycle and monitor events for the
// surrounding application to render or relay.  Implementations must
// not block the caller for long; failures are theirs to log and
// swallow — a lost notification never fails a transition.
type EventSink interface {
	CheckInSucceeded(ctx context.Context, d model.SessionDetail)
	CheckInFailed(ctx context.Context, reservationID uint64, reason string)
	CheckOutSucceeded(ctx context.Context, d model.SessionDetail)
	SessionEnteredOvertime(ctx context.Context, d model.SessionDetail, u Usage)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) CheckInSucceeded(context.Context, model.SessionDetail)              {}
func (NopSink) CheckInFailed(context.Context, uint64, string)                      {}
func (NopSink) CheckOutSucceeded(context.Context, model.SessionDetail)             {}
func (NopSink) SessionEnteredOvertime(context.Context, model.SessionDetail, Usage) {}
