package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

func newTestClassifier() (*Classifier, *ModelRegistry) {
	registry := NewModelRegistry(logger.NewNop())
	return NewClassifier(registry, logger.NewNop()), registry
}

// handMadeArtifact builds a tiny two-class model where the token "virus"
// pushes hard toward tech_support.
func handMadeArtifact() *models.ModelArtifact {
	return &models.ModelArtifact{
		Version: "test-version",
		Labels:  []models.Category{models.CategoryTechSupport, models.CategoryLegitimate},
		Vectorizer: models.VectorizerParams{
			Vocabulary: map[string]int{"appointment": 0, "virus": 1},
			IDF:        []float64{1.0, 1.0},
			NgramMax:   2,
		},
		Classifier: models.ClassifierParams{
			Weights: [][]float64{
				{-3.0, 3.0},
				{3.0, -3.0},
			},
			Bias: []float64{0, 0},
		},
	}
}

func TestPredictUntrainedUniform(t *testing.T) {
	classifier, _ := newTestClassifier()

	probs := classifier.Predict(models.NormalizedText{Tokens: strings.Fields("any text at all")})

	require.True(t, probs.Untrained)
	require.Equal(t, models.DefaultCategories(), probs.Labels)
	for _, p := range probs.Probs {
		assert.InDelta(t, 1.0/7, p, 1e-12)
	}
}

func TestPredictProbabilitiesSumToOne(t *testing.T) {
	classifier, registry := newTestClassifier()
	registry.Swap(handMadeArtifact())

	probs := classifier.Predict(models.NormalizedText{Tokens: strings.Fields("your computer has a virus")})

	require.False(t, probs.Untrained)
	var sum float64
	for _, p := range probs.Probs {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPredictSeparatesClasses(t *testing.T) {
	classifier, registry := newTestClassifier()
	registry.Swap(handMadeArtifact())

	scam := classifier.Predict(models.NormalizedText{Tokens: strings.Fields("virus detected")})
	benign := classifier.Predict(models.NormalizedText{Tokens: strings.Fields("appointment reminder")})

	assert.Greater(t, scam.Prob(models.CategoryTechSupport), scam.Prob(models.CategoryLegitimate))
	assert.Greater(t, benign.Prob(models.CategoryLegitimate), benign.Prob(models.CategoryTechSupport))
}

func TestPredictWithArtifactUsesGivenSnapshot(t *testing.T) {
	classifier, registry := newTestClassifier()
	snapshot := handMadeArtifact()
	registry.Swap(snapshot)

	tokens := strings.Fields("virus found on your machine")
	fromRegistry := classifier.Predict(models.NormalizedText{Tokens: tokens})
	fromSnapshot := classifier.PredictWithArtifact(snapshot, models.NormalizedText{Tokens: tokens})

	assert.Equal(t, fromRegistry, fromSnapshot)
}

func TestPredictOutOfVocabulary(t *testing.T) {
	classifier, registry := newTestClassifier()
	registry.Swap(handMadeArtifact())

	// Zero vector, the bias alone decides; with zero bias it is uniform
	probs := classifier.Predict(models.NormalizedText{Tokens: strings.Fields("nothing the model knows")})
	assert.InDelta(t, 0.5, probs.Prob(models.CategoryTechSupport), 1e-9)
	assert.InDelta(t, 0.5, probs.Prob(models.CategoryLegitimate), 1e-9)
}

func TestSoftmaxStableWithLargeLogits(t *testing.T) {
	probs := softmax([]float64{1000, 999, 998})

	var sum float64
	for _, p := range probs {
		assert.False(t, p != p, "NaN probability")
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, probs[0], probs[1])
}
