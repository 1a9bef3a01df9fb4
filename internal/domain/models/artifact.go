package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// VectorizerParams holds the fitted TF-IDF vocabulary and weights
type VectorizerParams struct {
	// Vocabulary maps a term (unigram or space-joined bigram) to its
	// index in the feature vector.
	Vocabulary map[string]int `json:"vocabulary"`
	// IDF is index-aligned with Vocabulary values.
	IDF         []float64 `json:"idf"`
	MaxFeatures int       `json:"max_features"`
	NgramMax    int       `json:"ngram_max"`
}

// ClassifierParams holds the fitted multinomial logistic regression.
// Weights is [class][feature], index-aligned with the artifact labels.
type ClassifierParams struct {
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// TrainingMetrics holds evaluation results recorded at training time
type TrainingMetrics struct {
	TrainAccuracy    float64 `json:"train_accuracy"`
	TestAccuracy     float64 `json:"test_accuracy"`
	CrossValAccuracy float64 `json:"cross_val_accuracy"`
	TrainingSize     int     `json:"training_size"`
}

// ModelArtifact is one immutable trained model. Once built it is never
// mutated; the registry swaps whole artifacts.
type ModelArtifact struct {
	Version    string           `json:"version"`
	CreatedAt  time.Time        `json:"created_at"`
	Labels     []Category       `json:"labels"`
	Vectorizer VectorizerParams `json:"vectorizer"`
	Classifier ClassifierParams `json:"classifier"`
	Metrics    TrainingMetrics  `json:"metrics"`
}

// Serialize encodes the artifact for persistence
func (a *ModelArtifact) Serialize() ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// DeserializeArtifact decodes and validates a persisted artifact.
// Any structural inconsistency maps to ErrSerialization.
func DeserializeArtifact(data []byte) (*ModelArtifact, error) {
	var a ModelArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks internal consistency of the artifact
func (a *ModelArtifact) Validate() error {
	if a.Version == "" {
		return fmt.Errorf("%w: missing version", ErrSerialization)
	}
	if len(a.Labels) < 2 {
		return fmt.Errorf("%w: artifact has %d labels", ErrSerialization, len(a.Labels))
	}
	if len(a.Classifier.Weights) != len(a.Labels) {
		return fmt.Errorf("%w: %d weight rows for %d labels", ErrSerialization, len(a.Classifier.Weights), len(a.Labels))
	}
	if len(a.Classifier.Bias) != len(a.Labels) {
		return fmt.Errorf("%w: %d bias terms for %d labels", ErrSerialization, len(a.Classifier.Bias), len(a.Labels))
	}
	if len(a.Vectorizer.Vocabulary) != len(a.Vectorizer.IDF) {
		return fmt.Errorf("%w: vocabulary size %d does not match idf size %d", ErrSerialization, len(a.Vectorizer.Vocabulary), len(a.Vectorizer.IDF))
	}
	dim := len(a.Vectorizer.IDF)
	for i, row := range a.Classifier.Weights {
		if len(row) != dim {
			return fmt.Errorf("%w: weight row %d has %d features, vectorizer has %d", ErrSerialization, i, len(row), dim)
		}
	}
	return nil
}

// HasLabel reports whether the artifact was trained with the given label
func (a *ModelArtifact) HasLabel(c Category) bool {
	for _, label := range a.Labels {
		if label == c {
			return true
		}
	}
	return false
}
