package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/models"
	"callguard-lab/internal/domain/services"
	"callguard-lab/internal/infrastructure/cache"
	"callguard-lab/internal/infrastructure/database/repository"
	"callguard-lab/pkg/logger"
)

// Cross-instance training lock. The trainer's CAS flag only guards a
// single process; the Redis lock extends the guard across replicas.
const (
	trainingLockKey = "model"
	trainingLockTTL = 10 * time.Minute
)

// ModelHandler handles model lifecycle endpoints
type ModelHandler struct {
	trainer  *services.ModelTrainer
	registry *services.ModelRegistry
	repos    *repository.Repositories
	cache    *cache.RedisCache
	scoring  config.ScoringConfig
	logger   *logger.Logger
}

// NewModelHandler creates a new model handler
func NewModelHandler(trainer *services.ModelTrainer, registry *services.ModelRegistry, repos *repository.Repositories, c *cache.RedisCache, scoring config.ScoringConfig, log *logger.Logger) *ModelHandler {
	return &ModelHandler{
		trainer:  trainer,
		registry: registry,
		repos:    repos,
		cache:    c,
		scoring:  scoring,
		logger:   log.WithComponent("model-handler"),
	}
}

// TrainRequest is the request body for model training
type TrainRequest struct {
	Examples []models.TrainingExample `json:"examples"`
}

// TrainResponse reports the outcome of a training run
type TrainResponse struct {
	Version   string                 `json:"version"`
	CreatedAt time.Time              `json:"created_at"`
	Labels    []models.Category      `json:"labels"`
	Metrics   models.TrainingMetrics `json:"metrics"`
	Persisted bool                   `json:"persisted"`
}

// Train handles POST /api/v1/model/train. Training runs on this request's
// goroutine; the swap happens only after a successful fit.
func (h *ModelHandler) Train(w http.ResponseWriter, r *http.Request) {
	var req TrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if h.cache != nil {
		acquired, err := h.cache.AcquireLock(r.Context(), trainingLockKey, trainingLockTTL)
		switch {
		case err != nil:
			h.logger.Warn().Err(err).Msg("training lock unavailable, relying on local guard")
		case !acquired:
			http.Error(w, `{"error":"training already in progress"}`, http.StatusConflict)
			return
		default:
			defer func() {
				if err := h.cache.ReleaseLock(r.Context(), trainingLockKey); err != nil {
					h.logger.Warn().Err(err).Msg("failed to release training lock")
				}
			}()
		}
	}

	artifact, err := h.trainer.Train(r.Context(), req.Examples)
	if err != nil {
		h.writeTrainError(w, err)
		return
	}

	h.registry.Swap(artifact)

	persisted := false
	if h.repos != nil {
		if err := h.repos.Artifacts.Save(r.Context(), artifact); err != nil {
			h.logger.Error().Err(err).Str("version", artifact.Version).Msg("failed to persist artifact")
		} else {
			persisted = true
		}
	}

	response := TrainResponse{
		Version:   artifact.Version,
		CreatedAt: artifact.CreatedAt,
		Labels:    artifact.Labels,
		Metrics:   artifact.Metrics,
		Persisted: persisted,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *ModelHandler) writeTrainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrTrainingInProgress):
		http.Error(w, `{"error":"training already in progress"}`, http.StatusConflict)
	case errors.Is(err, models.ErrInsufficientData):
		h.logger.Info().Err(err).Msg("training rejected")
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrInvalidInput):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
	default:
		h.logger.Error().Err(err).Msg("training failed")
		http.Error(w, `{"error":"training failed"}`, http.StatusInternalServerError)
	}
}

// ModelInfoResponse describes the active model and scoring parameters
type ModelInfoResponse struct {
	Status          string                    `json:"status"`
	Version         string                    `json:"version,omitempty"`
	CreatedAt       *time.Time                `json:"created_at,omitempty"`
	Labels          []models.Category         `json:"labels"`
	VocabularySize  int                       `json:"vocabulary_size,omitempty"`
	Metrics         *models.TrainingMetrics   `json:"metrics,omitempty"`
	ModelWeight     float64                   `json:"model_weight"`
	HeuristicWeight float64                   `json:"heuristic_weight"`
	Thresholds      config.RiskThresholds     `json:"risk_thresholds"`
	History         []repository.ArtifactInfo `json:"history,omitempty"`
}

// GetInfo handles GET /api/v1/model
func (h *ModelHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	response := ModelInfoResponse{
		Status:          "untrained",
		Labels:          models.DefaultCategories(),
		ModelWeight:     h.scoring.ModelWeight,
		HeuristicWeight: h.scoring.HeuristicWeight,
		Thresholds:      h.scoring.Thresholds,
	}

	if artifact := h.registry.Snapshot(); artifact != nil {
		response.Status = "trained"
		response.Version = artifact.Version
		response.CreatedAt = &artifact.CreatedAt
		response.Labels = artifact.Labels
		response.VocabularySize = len(artifact.Vectorizer.Vocabulary)
		metrics := artifact.Metrics
		response.Metrics = &metrics
	}

	if h.repos != nil {
		history, err := h.repos.Artifacts.History(r.Context(), 10)
		if err != nil {
			h.logger.Debug().Err(err).Msg("failed to load artifact history")
		} else {
			response.History = history
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
