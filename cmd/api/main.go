package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-safety/incident-service/internal/api/http"
	"github.com/campus-safety/incident-service/internal/api/http/handlers"
	"github.com/campus-safety/incident-service/internal/auth"
	"github.com/campus-safety/incident-service/internal/config"
	"github.com/campus-safety/incident-service/internal/events"
	"github.com/campus-safety/incident-service/internal/observability"
	"github.com/campus-safety/incident-service/internal/persistence"
	"github.com/campus-safety/incident-service/internal/repository"
	"github.com/campus-safety/incident-service/internal/service"
	"github.com/campus-safety/incident-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher(func(event events.Event, err error) {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("incident_id", event.IncidentID),
			zap.Error(err))
	})
	worker.StartNotificationWorker(dispatcher, redis, cfg.Redis.Channel, logger)

	incidentService := service.NewIncidentService(service.IncidentDependencies{
		IncidentRepo: repository.NewIncidentRepository(),
		HistoryRepo:  repository.NewIncidentHistoryRepository(),
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		QueueLimit:   cfg.Incident.QueueLimit,
	})
	if cfg.Incident.SeedDemoData {
		if err := incidentService.Seed(ctx, repository.DemoIncidents()); err != nil {
			logger.Fatal("failed to seed demo incidents", zap.Error(err))
		}
		logger.Info("seeded demo incidents")
	}

	sessionService := service.NewSessionService(cfg.Auth, logger)
	authMiddleware := auth.NewAuthMiddleware(sessionService.TokenManager(), sessionService)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis),
		Session:        handlers.NewSessionHandler(sessionService),
		Incidents:      handlers.NewIncidentsHandler(incidentService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
