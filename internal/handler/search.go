package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-occupancy-engine/internal/occupancy"
)

// SearchHandler exposes the reservation matcher.  Each result carries
// the verifier's decision so the front desk can search and check in
// with one click.
type SearchHandler struct {
	Matcher      *occupancy.Matcher
	DefaultLimit int
}

// NewSearchHandler constructs a SearchHandler.  defaultLimit applies
// when the client omits the limit parameter.
func NewSearchHandler(matcher *occupancy.Matcher, defaultLimit int) *SearchHandler {
	if matcher == nil {
		panic("nil matcher passed to NewSearchHandler")
	}
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	return &SearchHandler{Matcher: matcher, DefaultLimit: defaultLimit}
}

// Search handles GET /v1/reservations/search?q=&limit=.  Queries under
// two characters yield an empty result, not an error; candidates come
// back most relevant first.
func (h *SearchHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = h.DefaultLimit
	}
	if limit > 100 {
		limit = 100
	}

	candidates, err := h.Matcher.Search(c.Request().Context(), q, limit)
	if err != nil {
		return respondEngineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"query": q,
		"items": candidates,
	})
}
