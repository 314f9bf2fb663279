package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/space-occupancy-engine/internal/config"
	"github.com/iliyamo/space-occupancy-engine/internal/handler"
	"github.com/iliyamo/space-occupancy-engine/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// EngineHandlers bundles the handlers for the occupancy endpoints so the
// registration call stays readable.
type EngineHandlers struct {
	Search    *handler.SearchHandler
	Lifecycle *handler.LifecycleHandler
	Live      *handler.LiveHandler
	History   *handler.HistoryHandler
	Spaces    *handler.SpaceHandler
}

// RegisterEngine registers the occupancy endpoints under /v1.  All routes
// require a valid JWT with the STAFF or ADMIN role; tokens are issued by
// the external auth subsystem.  The token bucket applies to the whole
// group, while the Redis response cache is attached per route to the
// read-only search and history endpoints only — live and mutating
// endpoints must never serve stale bodies.
func RegisterEngine(e *echo.Echo, h EngineHandlers, jwtSecret string, rdb *redis.Client, rl config.RateLimitConfig, cache config.CacheConfig) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STAFF", "ADMIN"),
		middleware.NewTokenBucket(rl, rdb),
	)

	cached := middleware.NewRedisCache(cache, rdb)

	// ---- Reservations ----
	g.GET("/reservations/search", h.Search.Search, cached)
	g.GET("/reservations/:id/verify", h.Lifecycle.Verify)

	// ---- Session lifecycle ----
	g.POST("/check-in", h.Lifecycle.CheckIn)
	g.POST("/sessions/:id/check-out", h.Lifecycle.CheckOut)

	// ---- Session reads ----
	g.GET("/sessions/active", h.Live.Active)
	g.GET("/sessions/history", h.History.List, cached)
	g.GET("/sessions/:id", h.History.Get)

	// ---- Space catalog ----
	g.GET("/spaces", h.Spaces.List, cached)
}
