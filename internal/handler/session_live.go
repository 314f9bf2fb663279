package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-occupancy-engine/internal/occupancy"
)

// LiveHandler serves the live view of open sessions from the monitor's
// in-memory snapshot, so the hot path never touches the database.
// Until the monitor completes its first cycle the handler reads the
// store directly and computes usage itself with the same calculator.
type LiveHandler struct {
	Monitor *occupancy.Monitor
	Source  occupancy.ActiveSessionSource
	Clock   occupancy.Clock
}

// NewLiveHandler constructs a LiveHandler.
func NewLiveHandler(monitor *occupancy.Monitor, source occupancy.ActiveSessionSource, clk occupancy.Clock) *LiveHandler {
	if monitor == nil || source == nil || clk == nil {
		panic("nil dependency passed to NewLiveHandler")
	}
	return &LiveHandler{Monitor: monitor, Source: source, Clock: clk}
}

// Active handles GET /v1/sessions/active.
func (h *LiveHandler) Active(c echo.Context) error {
	if h.Monitor.Ready() {
		return c.JSON(http.StatusOK, echo.Map{"items": h.Monitor.Snapshot()})
	}

	rows, err := h.Source.ListActive(c.Request().Context())
	if err != nil {
		return respondEngineError(c, &occupancy.TransientReadError{Err: err})
	}
	asOf := h.Clock.Now()
	items := make([]occupancy.LiveSession, 0, len(rows))
	for _, d := range rows {
		items = append(items, occupancy.LiveSession{
			SessionDetail: d,
			Usage:         occupancy.ComputeUsage(&d.Reservation, d.Session.CheckInAt, asOf),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
