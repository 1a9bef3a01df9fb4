package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"callguard-lab/internal/api"
	"callguard-lab/internal/api/handlers"
	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/services"
	"callguard-lab/internal/infrastructure/cache"
	"callguard-lab/internal/infrastructure/database"
	"callguard-lab/internal/infrastructure/database/repository"
	"callguard-lab/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting CallGuard Lab")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure; both stores are optional so the analysis
	// pipeline runs standalone
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize repositories
	var repos *repository.Repositories
	if db != nil {
		repos = repository.NewRepositories(db)
		if err := repos.Artifacts.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure database schema")
		}
		log.Info().Msg("repositories initialized with database")
	} else {
		log.Warn().Msg("running without database - model artifacts will not persist")
	}

	// Initialize services
	processor := services.NewLanguageProcessor(log)
	extractor := services.NewFeatureExtractor(log)
	registry := services.NewModelRegistry(log)
	classifier := services.NewClassifier(registry, log)
	scorer := services.NewRiskScorer(cfg.Scoring, log)
	trainer := services.NewModelTrainer(cfg.Training, processor, log)
	transcriber := services.NewOfflineTranscriber(log)
	detector := services.NewFraudDetector(
		processor, extractor, classifier, scorer, registry,
		transcriber, redisCache, cfg.Model.PredictionCacheTTL, log,
	)

	// Restore the latest persisted model, if any
	if repos != nil && cfg.Model.AutoRestore {
		artifact, err := repos.Artifacts.LoadLatest(ctx)
		switch {
		case err != nil:
			log.Error().Err(err).Msg("failed to restore persisted model, serving untrained")
		case artifact != nil:
			registry.Swap(artifact)
			log.Info().Str("version", artifact.Version).Msg("restored persisted model")
		default:
			log.Info().Msg("no persisted model found, serving untrained")
		}
	}

	// Initialize handlers
	deps := handlers.Dependencies{
		Detector:  detector,
		Trainer:   trainer,
		Registry:  registry,
		Extractor: extractor,
		Cache:     redisCache,
		DB:        db,
		Repos:     repos,
		Config:    cfg,
		Logger:    log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure connects to Postgres and Redis, tolerating the
// absence of either
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without persistence")
		db = nil
	}

	redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		redisCache = nil
	}

	return db, redisCache
}
