package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-occupancy-engine/internal/occupancy"
)

// getActor extracts the acting user's identifier from the context,
// where the JWT middleware stored the token subject.  Transitions are
// recorded against this identifier.
func getActor(c echo.Context) (string, error) {
	v := c.Get("user_id")
	if s, ok := v.(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("missing user identity in context")
}

// respondEngineError maps the engine's error taxonomy onto HTTP
// responses.  Every failed transition surfaces its reason; nothing is
// silently swallowed here.
func respondEngineError(c echo.Context, err error) error {
	var notFound *occupancy.NotFoundError
	if errors.As(err, &notFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound.Error()})
	}
	var ineligible *occupancy.IneligibleError
	if errors.As(err, &ineligible) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":  "check-in not allowed",
			"reason": ineligible.Reason,
		})
	}
	var invalid *occupancy.InvalidStateError
	if errors.As(err, &invalid) {
		return c.JSON(http.StatusConflict, echo.Map{"error": invalid.Error()})
	}
	var transient *occupancy.TransientReadError
	if errors.As(err, &transient) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporary read failure, retry shortly"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
