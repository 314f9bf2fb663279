package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-occupancy-engine/internal/occupancy"
)

// LifecycleHandler exposes verification, check-in and check-out.  The
// lifecycle controller re-verifies eligibility at action time on its
// own; the verify endpoint exists for the preview step only.
type LifecycleHandler struct {
	Verifier  *occupancy.Verifier
	Lifecycle *occupancy.Lifecycle
}

// NewLifecycleHandler constructs a LifecycleHandler.  All dependencies
// must be non-nil.
func NewLifecycleHandler(verifier *occupancy.Verifier, lifecycle *occupancy.Lifecycle) *LifecycleHandler {
	if verifier == nil || lifecycle == nil {
		panic("nil dependency passed to NewLifecycleHandler")
	}
	return &LifecycleHandler{Verifier: verifier, Lifecycle: lifecycle}
}

// Verify handles GET /v1/reservations/:id/verify?email=&event=.  It
// returns the verifier's decision and the reservation snapshot for
// display; it never mutates state.
func (h *LifecycleHandler) Verify(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	email := strings.TrimSpace(c.QueryParam("email"))
	event := strings.TrimSpace(c.QueryParam("event"))

	v, err := h.Verifier.Verify(c.Request().Context(), id, email, event)
	if err != nil {
		return respondEngineError(c, err)
	}
	if !v.Valid {
		return c.JSON(http.StatusNotFound, v)
	}
	return c.JSON(http.StatusOK, v)
}

// CheckIn handles POST /v1/check-in.  The body carries the reservation
// identifier and optional notes; a session row is created implicitly
// on success.  Returns 201 with the opened session.
func (h *LifecycleHandler) CheckIn(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ReservationID uint64 `json:"reservation_id"`
		Notes         string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id is required"})
	}

	s, err := h.Lifecycle.CheckIn(c.Request().Context(), body.ReservationID, body.Notes, actor)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"session": s})
}

// CheckOut handles POST /v1/sessions/:id/check-out.  The session is
// settled against its check-out timestamp and closed; the response
// carries the final figures.  A second attempt gets 409.
func (h *LifecycleHandler) CheckOut(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	s, usage, err := h.Lifecycle.CheckOut(c.Request().Context(), id, body.Notes, actor)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session": s,
		"usage":   usage,
	})
}
