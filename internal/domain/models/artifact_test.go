package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArtifact() *ModelArtifact {
	return &ModelArtifact{
		Version:   "11111111-2222-3333-4444-555555555555",
		CreatedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
		Labels:    []Category{CategoryTechSupport, CategoryLegitimate},
		Vectorizer: VectorizerParams{
			Vocabulary:  map[string]int{"virus": 0, "appointment": 1, "your computer": 2},
			IDF:         []float64{1.2, 1.5, 2.1},
			MaxFeatures: 5000,
			NgramMax:    2,
		},
		Classifier: ClassifierParams{
			Weights: [][]float64{
				{0.8, -0.3, 1.1},
				{-0.8, 0.3, -1.1},
			},
			Bias: []float64{0.1, -0.1},
		},
		Metrics: TrainingMetrics{
			TrainAccuracy:    0.95,
			TestAccuracy:     0.9,
			CrossValAccuracy: 0.88,
			TrainingSize:     20,
		},
	}
}

func TestArtifactSerializeRoundTrip(t *testing.T) {
	original := sampleArtifact()

	data, err := original.Serialize()
	require.NoError(t, err)

	restored, err := DeserializeArtifact(data)
	require.NoError(t, err)

	assert.Equal(t, original.Version, restored.Version)
	assert.True(t, original.CreatedAt.Equal(restored.CreatedAt))
	assert.Equal(t, original.Labels, restored.Labels)
	assert.Equal(t, original.Vectorizer, restored.Vectorizer)
	assert.Equal(t, original.Classifier, restored.Classifier)
	assert.Equal(t, original.Metrics, restored.Metrics)
}

func TestDeserializeArtifactCorrupt(t *testing.T) {
	_, err := DeserializeArtifact([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestDeserializeArtifactInconsistent(t *testing.T) {
	a := sampleArtifact()
	a.Classifier.Bias = []float64{0.1} // one bias for two labels
	data, err := a.Serialize()
	require.NoError(t, err)

	_, err = DeserializeArtifact(data)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestValidateWeightShape(t *testing.T) {
	a := sampleArtifact()
	a.Classifier.Weights[0] = []float64{0.8} // row shorter than vocabulary
	assert.ErrorIs(t, a.Validate(), ErrSerialization)
}

func TestValidateMissingVersion(t *testing.T) {
	a := sampleArtifact()
	a.Version = ""
	assert.ErrorIs(t, a.Validate(), ErrSerialization)
}

func TestArgMaxTieBreaksCanonical(t *testing.T) {
	p := CategoryProbabilities{
		Labels: DefaultCategories(),
		Probs:  []float64{0.2, 0.2, 0.1, 0.1, 0.1, 0.1, 0.2},
	}
	// tech_support, financial and legitimate tie; canonical order wins
	cat, prob := p.ArgMax()
	assert.Equal(t, CategoryTechSupport, cat)
	assert.InDelta(t, 0.2, prob, 1e-12)
}

func TestMaxFraudIgnoresLegitimate(t *testing.T) {
	p := CategoryProbabilities{
		Labels: []Category{CategoryPhishing, CategoryLegitimate},
		Probs:  []float64{0.3, 0.7},
	}
	assert.InDelta(t, 0.3, p.MaxFraud(), 1e-12)
}

func TestCanonicalizeLabels(t *testing.T) {
	examples := []TrainingExample{
		{Text: "a", Category: CategoryLegitimate},
		{Text: "b", Category: Category("crypto_scam")},
		{Text: "c", Category: CategoryTechSupport},
		{Text: "d", Category: Category("crypto_scam")},
	}

	labels := CanonicalizeLabels(examples)
	assert.Equal(t, []Category{CategoryTechSupport, CategoryLegitimate, Category("crypto_scam")}, labels)
}
