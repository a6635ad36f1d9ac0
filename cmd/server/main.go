package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/goshopper/price-engine/config"
	_ "github.com/goshopper/price-engine/docs"
	"github.com/goshopper/price-engine/internal/basket"
	"github.com/goshopper/price-engine/internal/database"
	"github.com/goshopper/price-engine/internal/handlers"
	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/matching"
	"github.com/goshopper/price-engine/internal/middleware"
	"github.com/goshopper/price-engine/internal/search"
	"github.com/goshopper/price-engine/internal/storage"
	"github.com/goshopper/price-engine/internal/sweepers"
	"github.com/goshopper/price-engine/internal/taskqueue"
	"github.com/goshopper/price-engine/internal/telemetry"
	"github.com/goshopper/price-engine/internal/workers"
)

// @title Price Engine API
// @version 1.0
// @description Internal API for receipt price ingestion, product matching, and cross-store price comparison.
// @BasePath /internal
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting price engine")

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "",
		Endpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry init failed, continuing without it")
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	// The ledger backend is postgres when DATABASE_URL is set, otherwise
	// an in-process store. The in-memory mode exists for local runs and
	// demos; everything above the Store interface behaves the same.
	var priceStore ledger.Store
	var ingestQueue *taskqueue.TaskQueue
	if dbURL := config.GetDatabaseURL(); dbURL != "" {
		if err := database.Connect(
			ctx,
			dbURL,
			cfg.Database.MaxConnections,
			cfg.Database.MinConnections,
			cfg.Database.MaxConnLifetime,
			cfg.Database.MaxConnIdleTime,
		); err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.Close()

		pg := ledger.NewPostgresStore(database.Pool())
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to ensure schema")
		}
		priceStore = pg

		ingestQueue = taskqueue.New(database.Pool())
		if err := ingestQueue.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to ensure task queue schema")
		}
		logger.Info().Msg("Database connected")
	} else {
		priceStore = ledger.NewMemoryStore()
		logger.Warn().Msg("DATABASE_URL not set, using in-memory store")
	}

	thresholds := matching.Thresholds{
		Fuzzy:    cfg.Matching.FuzzyThreshold,
		Semantic: cfg.Matching.SemanticThreshold,
	}
	matcher := ledger.NewMatcher(priceStore, thresholds, cfg.Matching.CandidateLimit, nil)
	upserter := ledger.NewUpserter(priceStore, matcher, nil)
	searcher := search.NewSearcher(priceStore, cfg.Search.MinScore, cfg.Search.Window, nil)
	handlers.Init(priceStore, upserter, searcher)

	basketCfg := basket.DefaultConfig()
	basketCfg.Window = cfg.Search.Window
	basketCfg.MinScore = cfg.Matching.SemanticThreshold
	catalog := basket.NewCatalog(priceStore, basketCfg, nil)
	handlers.InitPlanner(basket.NewPlanner(catalog, basketCfg, nil))

	var receiptWorker *workers.Worker
	var sweeper *sweepers.TaskQueueSweeper
	if ingestQueue != nil {
		handlers.InitQueue(ingestQueue)

		receiptWorker = workers.NewReceiptWorker(ingestQueue, upserter, cfg.Queue.Workers, cfg.Queue.PollDelay)

		var archive storage.Storage
		if local, err := storage.NewLocalStorage(cfg.Queue.ArchiveDir); err != nil {
			logger.Warn().Err(err).Str("dir", cfg.Queue.ArchiveDir).Msg("Archive directory unavailable, prune tasks will delete without archiving")
		} else {
			archive = local
		}
		receiptWorker.RegisterHandler(taskqueue.TaskTypeLedgerPrune, workers.NewLedgerPruneHandler(ingestQueue, archive))
		receiptWorker.Start(ctx)

		sweeper = sweepers.NewTaskQueueSweeper(ingestQueue, logger, cfg.Queue.SweepInterval)
		go sweeper.Start(ctx)
	}

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	internal.Use(middleware.ServiceRateLimitMiddleware(
		float64(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst))
	{
		internal.GET("/health", handlers.HealthCheck)

		receipts := internal.Group("/receipts")
		{
			receipts.POST("/ingest", handlers.IngestReceipt)
			receipts.POST("/enqueue", handlers.EnqueueReceipt)
			receipts.GET("/tasks/:id", handlers.GetIngestTask)
		}

		prices := internal.Group("/prices")
		{
			prices.GET("/history", handlers.GetPriceHistory)
			prices.GET("/compare", handlers.ComparePrices)
			prices.GET("/export", handlers.ExportPrices)
		}

		products := internal.Group("/products")
		{
			products.GET("/search", handlers.SearchProducts)
		}

		baskets := internal.Group("/basket")
		{
			baskets.POST("/plan", handlers.PlanBasket)
			baskets.POST("/split", handlers.SplitBasket)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	if sweeper != nil {
		sweeper.Stop()
	}
	if receiptWorker != nil {
		receiptWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "price-engine").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
