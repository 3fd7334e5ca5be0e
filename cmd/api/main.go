package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/laundry-service/internal/api/http"
	"github.com/spec-kit/laundry-service/internal/api/http/handlers"
	"github.com/spec-kit/laundry-service/internal/auth"
	"github.com/spec-kit/laundry-service/internal/config"
	"github.com/spec-kit/laundry-service/internal/docstore"
	"github.com/spec-kit/laundry-service/internal/events"
	"github.com/spec-kit/laundry-service/internal/observability"
	"github.com/spec-kit/laundry-service/internal/persistence"
	"github.com/spec-kit/laundry-service/internal/repository"
	"github.com/spec-kit/laundry-service/internal/service"
	"github.com/spec-kit/laundry-service/internal/stats"
	"github.com/spec-kit/laundry-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store := docstore.NewPostgresStore(pg.PoolHandle(), redis.Client, logger)
	ticketRepo := repository.NewTicketRepository(store)
	userRepo := repository.NewUserRepository(store)
	companyRepo := repository.NewCompanyRepository(store)
	operatorRepo := repository.NewOperatorRepository(store)

	authService := service.NewAuthService(*cfg, operatorRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), operatorRepo)

	dispatcher := events.NewInMemoryDispatcher()
	manager := service.NewLifecycleManager(service.LifecycleDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	unsubscribe, err := manager.Start(ctx)
	if err != nil {
		logger.Fatal("failed to start lifecycle manager", zap.Error(err))
	}
	defer unsubscribe()

	engine := stats.NewEngine(stats.LoyaltyWeights{
		Frequency: cfg.Stats.LoyaltyFrequencyWeight,
		Tickets:   cfg.Stats.LoyaltyTicketWeight,
		Cap:       cfg.Stats.LoyaltyCap,
	})
	statsCache := worker.NewStatsCache(manager, engine, redis.Client, logger, cfg.Stats.CacheTTL())
	statsCache.Start(dispatcher)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(manager),
		Personal:       handlers.NewPersonalHandler(manager, userRepo, companyRepo),
		Empresas:       handlers.NewEmpresasHandler(companyRepo),
		Stats:          handlers.NewStatsHandler(manager, engine, statsCache),
		AuthMiddleware: authMiddleware,
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
