package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-occupancy-engine/internal/occupancy"
	"github.com/iliyamo/space-occupancy-engine/internal/repository"
)

// HistoryHandler exposes the closed-session read model.
type HistoryHandler struct {
	Reader *occupancy.HistoryReader
}

// NewHistoryHandler constructs a HistoryHandler.
func NewHistoryHandler(reader *occupancy.HistoryReader) *HistoryHandler {
	if reader == nil {
		panic("nil reader passed to NewHistoryHandler")
	}
	return &HistoryHandler{Reader: reader}
}

// List handles GET /v1/sessions/history with optional status,
// date_from, date_to (YYYY-MM-DD), space_id, page and page_size query
// parameters.  Stats cover the whole filtered set, not just the page.
func (h *HistoryHandler) List(c echo.Context) error {
	f := repository.HistoryFilter{
		Status: strings.TrimSpace(c.QueryParam("status")),
	}
	if v := strings.TrimSpace(c.QueryParam("date_from")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_from"})
		}
		f.DateFrom = &t
	}
	if v := strings.TrimSpace(c.QueryParam("date_to")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_to"})
		}
		// Inclusive of the whole day.
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.DateTo = &end
	}
	if v := strings.TrimSpace(c.QueryParam("space_id")); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid space_id"})
		}
		f.SpaceID = id
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	out, err := h.Reader.List(c.Request().Context(), f, page, pageSize)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/sessions/:id.  For closed sessions the stored
// final cost is returned verbatim; nothing is recomputed.
func (h *HistoryHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	d, err := h.Reader.Get(c.Request().Context(), id)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": d})
}
