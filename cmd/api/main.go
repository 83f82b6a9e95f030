package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/api/http"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/api/http/handlers"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/auth"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/config"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/events"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/identity"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/observability"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/persistence"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/repository"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/service"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/worker"
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

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	accountRepo := repository.NewAccountRepository(pg.PoolHandle())

	claimsCache := identity.NewRedisClaimsCache(redis.Client, cfg.Provider.ClaimsCacheTTL(), logger)
	providerClient, err := identity.NewHTTPClient(identity.Config{
		BaseURL:    cfg.Provider.BaseURL,
		ServiceKey: cfg.Provider.ServiceKey,
		Timeout:    cfg.Provider.RequestTimeout(),
	}, claimsCache, logger)
	if err != nil {
		logger.Fatal("failed to init identity provider client", zap.Error(err))
	}

	tokenManager, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLHours)
	if err != nil {
		logger.Fatal("failed to init session signing", zap.Error(err))
	}

	reconciler := service.NewReconciler(accountRepo, logger)
	saga := service.NewRegistrationSaga(providerClient, accountRepo, dispatcher, logger, cfg.Provider.RollbackTimeout())
	authService := service.NewAuthService(service.AuthDependencies{
		Provider:   providerClient,
		Reconciler: reconciler,
		Saga:       saga,
		Tokens:     tokenManager,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	alertService := service.NewAlertService(dispatcher, logger, cfg.Alert)
	worker.StartAlertWorker(alertService)

	authMiddleware := auth.NewMiddleware(tokenManager, accountRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService)
	accountsHandler := handlers.NewAccountsHandler(accountRepo)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Accounts:       accountsHandler,
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
