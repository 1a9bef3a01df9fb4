package services

import (
	"math"

	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

// Classifier produces category probability distributions for normalized
// transcripts using the registry's active model artifact.
type Classifier struct {
	registry *ModelRegistry
	logger   *logger.Logger
}

// NewClassifier creates a new Classifier
func NewClassifier(registry *ModelRegistry, log *logger.Logger) *Classifier {
	return &Classifier{
		registry: registry,
		logger:   log.WithComponent("classifier"),
	}
}

// Predict classifies a transcript against the current registry snapshot
func (c *Classifier) Predict(n models.NormalizedText) models.CategoryProbabilities {
	return c.PredictWithArtifact(c.registry.Snapshot(), n)
}

// PredictWithArtifact classifies against an explicit artifact snapshot so
// a caller can hold one snapshot across a whole prediction. A nil
// artifact yields the uniform cold-start distribution; this never errors.
func (c *Classifier) PredictWithArtifact(artifact *models.ModelArtifact, n models.NormalizedText) models.CategoryProbabilities {
	if artifact == nil {
		return uniformProbabilities()
	}

	vec := Vectorize(artifact.Vectorizer, n.Tokens)
	logits := decisionLogits(artifact.Classifier, vec)
	probs := softmax(logits)

	labels := make([]models.Category, len(artifact.Labels))
	copy(labels, artifact.Labels)

	return models.CategoryProbabilities{
		Labels: labels,
		Probs:  probs,
	}
}

// uniformProbabilities is the degraded distribution served before any
// model has been trained
func uniformProbabilities() models.CategoryProbabilities {
	labels := models.DefaultCategories()
	probs := make([]float64, len(labels))
	p := 1.0 / float64(len(labels))
	for i := range probs {
		probs[i] = p
	}
	return models.CategoryProbabilities{
		Labels:    labels,
		Probs:     probs,
		Untrained: true,
	}
}

// decisionLogits computes W·x + b per class
func decisionLogits(params models.ClassifierParams, vec []float64) []float64 {
	logits := make([]float64, len(params.Weights))
	for k, row := range params.Weights {
		var sum float64
		for j, w := range row {
			sum += w * vec[j]
		}
		logits[k] = sum + params.Bias[k]
	}
	return logits
}

// softmax converts logits to probabilities, max-shifted for stability
func softmax(logits []float64) []float64 {
	probs := make([]float64, len(logits))
	if len(logits) == 0 {
		return probs
	}

	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}

	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
