package handlers

import (
	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/services"
	"callguard-lab/internal/infrastructure/cache"
	"callguard-lab/internal/infrastructure/database"
	"callguard-lab/internal/infrastructure/database/repository"
	"callguard-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Analysis *AnalysisHandler
	Model    *ModelHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Detector  *services.FraudDetector
	Trainer   *services.ModelTrainer
	Registry  *services.ModelRegistry
	Extractor *services.FeatureExtractor
	Cache     *cache.RedisCache
	DB        *database.PostgresDB
	Repos     *repository.Repositories
	Config    *config.Config
	Logger    *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Cache, deps.DB, deps.Registry, deps.Logger),
		Analysis: NewAnalysisHandler(deps.Detector, deps.Extractor, deps.Config.Transcriber, deps.Logger),
		Model:    NewModelHandler(deps.Trainer, deps.Registry, deps.Repos, deps.Cache, deps.Config.Scoring, deps.Logger),
	}
}
