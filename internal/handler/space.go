package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-occupancy-engine/internal/occupancy"
	"github.com/iliyamo/space-occupancy-engine/internal/repository"
)

// SpaceHandler exposes the read-only space catalog, mainly so the
// history view can offer a space filter.
type SpaceHandler struct {
	Spaces *repository.SpaceRepo
}

// NewSpaceHandler constructs a SpaceHandler.
func NewSpaceHandler(spaces *repository.SpaceRepo) *SpaceHandler {
	if spaces == nil {
		panic("nil repo passed to NewSpaceHandler")
	}
	return &SpaceHandler{Spaces: spaces}
}

// List handles GET /v1/spaces.
func (h *SpaceHandler) List(c echo.Context) error {
	spaces, err := h.Spaces.ListActive(c.Request().Context())
	if err != nil {
		return respondEngineError(c, &occupancy.TransientReadError{Err: err})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": spaces})
}
