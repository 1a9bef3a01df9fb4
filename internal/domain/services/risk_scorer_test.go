package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

func newTestScorer() *RiskScorer {
	return NewRiskScorer(config.DefaultScoringConfig(), logger.NewNop())
}

// fraudProbs builds a two-label distribution where the fraud probability
// fully determines the risk score when the composite is zero.
func fraudProbs(p float64) models.CategoryProbabilities {
	return models.CategoryProbabilities{
		Labels: []models.Category{models.CategoryPhishing, models.CategoryLegitimate},
		Probs:  []float64{p, 1 - p},
	}
}

func TestScoreBandBoundaries(t *testing.T) {
	cases := []struct {
		fraudProb float64
		wantScore int
		wantLevel models.RiskLevel
	}{
		{0.29, 29, models.RiskVeryLow},
		{0.30, 30, models.RiskLow},
		{0.59, 59, models.RiskLow},
		{0.60, 60, models.RiskMedium},
		{0.79, 79, models.RiskMedium},
		{0.80, 80, models.RiskHigh},
		{1.00, 100, models.RiskHigh},
	}

	scorer := newTestScorer()
	for _, tc := range cases {
		t.Run(fmt.Sprintf("p=%.2f", tc.fraudProb), func(t *testing.T) {
			result := scorer.Score(models.FeatureVector{}, fraudProbs(tc.fraudProb))
			assert.Equal(t, tc.wantScore, result.RiskScore)
			assert.Equal(t, tc.wantLevel, result.RiskLevel)
		})
	}
}

func TestScoreFraudVerdict(t *testing.T) {
	scorer := newTestScorer()

	// Fraud label wins and the score clears the medium threshold
	result := scorer.Score(models.FeatureVector{}, fraudProbs(0.60))
	assert.True(t, result.IsFraud)
	assert.Equal(t, models.CategoryPhishing, result.PredictedCategory)

	// High score alone is not enough when legitimate wins the arg-max
	result = scorer.Score(models.FeatureVector{Composite: 100}, fraudProbs(0.30))
	assert.GreaterOrEqual(t, result.RiskScore, 60)
	assert.Equal(t, models.CategoryLegitimate, result.PredictedCategory)
	assert.False(t, result.IsFraud)
}

func TestScoreClampsToHundred(t *testing.T) {
	result := newTestScorer().Score(models.FeatureVector{Composite: 100}, fraudProbs(1.0))
	assert.Equal(t, 100, result.RiskScore)
	assert.Equal(t, models.RiskHigh, result.RiskLevel)
	assert.True(t, result.IsFraud)
}

func TestScoreHeuristicContribution(t *testing.T) {
	// heuristic_weight 0.35: composite 100 adds 35 points
	withHeuristic := newTestScorer().Score(models.FeatureVector{Composite: 100}, fraudProbs(0.40))
	without := newTestScorer().Score(models.FeatureVector{}, fraudProbs(0.40))

	assert.Equal(t, 40, without.RiskScore)
	assert.Equal(t, 75, withHeuristic.RiskScore)
}

func TestExplanationsNeverEmpty(t *testing.T) {
	result := newTestScorer().Score(models.FeatureVector{}, fraudProbs(0.01))
	assert.NotEmpty(t, result.Explanations)
}

func TestExplanationsUntrainedNotice(t *testing.T) {
	probs := models.CategoryProbabilities{
		Labels:    models.DefaultCategories(),
		Probs:     []float64{1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7},
		Untrained: true,
	}
	result := newTestScorer().Score(models.FeatureVector{}, probs)
	assert.Contains(t, result.Explanations, "Model not trained yet; heuristic indicators only")
}

func TestExplanationsReflectIndicators(t *testing.T) {
	fv := models.FeatureVector{
		Indicators: map[string]float64{
			IndicatorUrgency:      2,
			IndicatorTimePressure: 1,
			IndicatorPersonalInfo: 1,
			IndicatorMoney:        3,
		},
	}
	result := newTestScorer().Score(fv, fraudProbs(0.9))

	assert.Contains(t, result.Explanations, "Contains 3 urgency indicators")
	assert.Contains(t, result.Explanations, "Requests personal information")
	assert.Contains(t, result.Explanations, "Mentions money or payment 3 times")
	assert.Contains(t, result.Explanations, "High confidence prediction based on learned patterns")
}
