package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-occupancy-engine/internal/config"
	"github.com/iliyamo/space-occupancy-engine/internal/database"
	"github.com/iliyamo/space-occupancy-engine/internal/handler"
	"github.com/iliyamo/space-occupancy-engine/internal/occupancy"
	"github.com/iliyamo/space-occupancy-engine/internal/queue"
	"github.com/iliyamo/space-occupancy-engine/internal/repository"
	"github.com/iliyamo/space-occupancy-engine/internal/router"
	queuepublisher "github.com/iliyamo/space-occupancy-engine/internal/service"
)

func main() {
	// Load a local .env when present; real deployments set the
	// environment directly and this is a no-op there.
	_ = godotenv.Load()

	cfg := config.Load()
	engineCfg := config.LoadEngineConfig()
	rateCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	reservations := repository.NewReservationRepo(db)
	sessions := repository.NewSessionRepo(db)
	spaces := repository.NewSpaceRepo(db)

	clk := occupancy.NewSystemClock()
	sink := queuepublisher.NewPublisher()

	verifier := occupancy.NewVerifier(reservations, sessions, clk)
	matcher := occupancy.NewMatcher(reservations, verifier)
	lifecycle := occupancy.NewLifecycle(verifier, reservations, sessions, clk, sink)
	history := occupancy.NewHistoryReader(sessions)

	monitor := occupancy.NewMonitor(sessions, clk, sink, engineCfg.MonitorInterval)
	monitor.Start(context.Background())
	defer monitor.Stop()

	// Tail the session event stream into the audit log.  The consumer
	// reconnects on its own; a persistent failure only costs the log.
	go func() {
		if err := queue.StartSessionConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterEngine(e, router.EngineHandlers{
		Search:    handler.NewSearchHandler(matcher, engineCfg.SearchMaxResults),
		Lifecycle: handler.NewLifecycleHandler(verifier, lifecycle),
		Live:      handler.NewLiveHandler(monitor, sessions, clk),
		History:   handler.NewHistoryHandler(history),
		Spaces:    handler.NewSpaceHandler(spaces),
	}, cfg.JWTSecret, rdb, rateCfg, cacheCfg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
