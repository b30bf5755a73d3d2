package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appinv "github.com/ngocrm/backend/internal/application/inventory"
	"github.com/ngocrm/backend/internal/domain/shared"
	"github.com/ngocrm/backend/internal/infrastructure/cache"
	"github.com/ngocrm/backend/internal/infrastructure/config"
	"github.com/ngocrm/backend/internal/infrastructure/logger"
	"github.com/ngocrm/backend/internal/infrastructure/persistence"
	"github.com/ngocrm/backend/internal/infrastructure/telemetry"
	"github.com/ngocrm/backend/internal/interfaces/http/handler"
	"github.com/ngocrm/backend/internal/interfaces/http/middleware"
	"github.com/ngocrm/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting stock ledger service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.EnableDBTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application service
	inventoryService := appinv.NewInventoryService(itemRepo, categoryRepo, transactionRepo, txScope)

	// Event bus: log movement events; downstream consumers can subscribe here
	eventBus := shared.NewInProcessEventBus()
	eventBus.Subscribe(shared.EventHandlerFunc(func(ctx context.Context, event shared.DomainEvent) error {
		log.Info("Domain event",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
		)
		return nil
	}))
	inventoryService.SetEventPublisher(eventBus)

	// Idempotency store for duplicate movement detection
	if cfg.Idempotency.Enabled {
		var store shared.IdempotencyStore
		if cfg.Redis.Enabled {
			redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
				Addr:     cfg.Redis.Addr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				log.Fatal("Failed to connect to Redis", zap.Error(err))
			}
			store = redisStore
			log.Info("Redis idempotency store initialized", zap.String("addr", cfg.Redis.Addr()))
		} else {
			store = cache.NewInMemoryIdempotencyStore()
			log.Info("In-memory idempotency store initialized")
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("Error closing idempotency store", zap.Error(err))
			}
		}()
		inventoryService.SetIdempotencyStore(store, shared.IdempotencyConfig{
			Enabled: true,
			TTL:     cfg.Idempotency.TTL,
		})
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health endpoints live outside the API prefix
	handler.NewSystemHandler(db).RegisterRoutes(engine)

	// Versioned API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewInventoryHandler(inventoryService)).
		Register(handler.NewCategoryHandler(inventoryService)).
		Register(handler.NewTransactionHandler(inventoryService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
