package main

import (
	"context"
	"log"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/utm-observer/backend/api/handler"
	"github.com/utm-observer/backend/internal/config"
	"github.com/utm-observer/backend/internal/events"
	"github.com/utm-observer/backend/internal/infrastructure/journal"
	"github.com/utm-observer/backend/internal/infrastructure/monitor"
	pgInfra "github.com/utm-observer/backend/internal/infrastructure/postgres"
	redisInfra "github.com/utm-observer/backend/internal/infrastructure/redis"
	"github.com/utm-observer/backend/internal/middleware"
	"github.com/utm-observer/backend/internal/router"
	"github.com/utm-observer/backend/internal/services"
	"github.com/utm-observer/backend/internal/services/lifecycle"
	"github.com/utm-observer/backend/pkg/httpcontext"
	"github.com/utm-observer/backend/pkg/logger"
	"github.com/utm-observer/backend/repository"
	"github.com/utm-observer/backend/repository/postgres"
	redisRepo "github.com/utm-observer/backend/repository/redis"
	mappingUC "github.com/utm-observer/backend/usecase/dronemapping"
	stripUC "github.com/utm-observer/backend/usecase/flightstrip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	// Redis is optional; without it identifier lookups go straight to storage.
	var mappingCache repository.DroneMappingCache
	var redisClient *redislib.Client
	if cfg.Redis.URL != "" {
		client, err := redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		redisClient = client
		manager.RegisterWithTimeout("redis", 2*time.Second, func(ctx context.Context) error {
			return client.Close()
		})
		mappingCache = redisRepo.NewDroneMappingCache(client, cfg.Redis.CacheTTL, zapLogger)
	}

	journalStore, err := journal.Open(cfg.Journal.Path, "event_journal")
	if err != nil {
		zapLogger.Fatal("failed to open event journal", zap.Error(err))
	}
	manager.RegisterWithTimeout("event_journal", 2*time.Second, func(ctx context.Context) error {
		return journalStore.Close()
	})

	mon := monitor.New(pool, redisClient, journalStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	pruner, err := services.NewJournalPruner(journalStore, cfg.Journal.Retention, cfg.Journal.PruneInterval, zapLogger)
	if err != nil {
		zapLogger.Fatal("journal pruner setup failed", zap.Error(err))
	}
	pruner.Start()
	manager.Register("journal_pruner", func(ctx context.Context) error {
		pruner.Stop()
		return nil
	})

	dispatcher := events.NewDispatcher(events.Config{
		Endpoint: cfg.Event.Endpoint,
		Timeout:  cfg.Event.Timeout,
		Enabled:  cfg.Event.Enabled,
	}, journalStore, zapLogger)

	stripRepo := postgres.NewFlightStripRepository(pool)
	mappingRepo := postgres.NewDroneMappingRepository(pool)

	stripUseCase := stripUC.New(stripRepo, zapLogger)
	mappingUseCase := mappingUC.New(mappingRepo, mappingCache, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		FlightStrip:  apiHandler.NewFlightStripHandler(stripUseCase, ctxAdapter, zapLogger),
		DroneMapping: apiHandler.NewDroneMappingHandler(mappingUseCase, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, journalStore, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	chain := middleware.Correlation(zapLogger)(
		middleware.EventNotifier(dispatcher, zapLogger)(r.Handler),
	)

	server := &fasthttp.Server{
		Handler:      chain,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
