package services

import (
	"sync/atomic"

	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

// ModelRegistry holds the single active model artifact. Readers take one
// snapshot per prediction; Swap is a single atomic pointer write, so a
// prediction never observes a half-replaced model and training never
// blocks reads.
type ModelRegistry struct {
	active atomic.Pointer[models.ModelArtifact]
	logger *logger.Logger
}

// NewModelRegistry creates an empty registry
func NewModelRegistry(log *logger.Logger) *ModelRegistry {
	return &ModelRegistry{
		logger: log.WithComponent("model-registry"),
	}
}

// Snapshot returns the active artifact, nil before the first swap.
// Artifacts are immutable; the pointer may be read concurrently.
func (r *ModelRegistry) Snapshot() *models.ModelArtifact {
	return r.active.Load()
}

// Version returns the active artifact version, empty when untrained
func (r *ModelRegistry) Version() string {
	if a := r.active.Load(); a != nil {
		return a.Version
	}
	return ""
}

// Swap atomically replaces the active artifact
func (r *ModelRegistry) Swap(a *models.ModelArtifact) {
	previous := r.active.Swap(a)

	event := r.logger.Info().Str("version", a.Version)
	if previous != nil {
		event = event.Str("previous_version", previous.Version)
	}
	event.
		Float64("test_accuracy", a.Metrics.TestAccuracy).
		Int("labels", len(a.Labels)).
		Msg("model artifact activated")
}

// Restore deserializes a persisted artifact and activates it. A corrupt
// payload returns ErrSerialization and leaves the current artifact live.
func (r *ModelRegistry) Restore(data []byte) error {
	artifact, err := models.DeserializeArtifact(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("artifact restore rejected, keeping current model")
		return err
	}
	r.Swap(artifact)
	return nil
}
