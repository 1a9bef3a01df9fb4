package services

import (
	"fmt"
	"math"

	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

// RiskScorer blends the classifier's fraud probability with the heuristic
// composite into a 0-100 risk score, bands it, and builds explanations.
type RiskScorer struct {
	config config.ScoringConfig
	logger *logger.Logger
}

// NewRiskScorer creates a new RiskScorer
func NewRiskScorer(cfg config.ScoringConfig, log *logger.Logger) *RiskScorer {
	return &RiskScorer{
		config: cfg,
		logger: log.WithComponent("risk-scorer"),
	}
}

// Score combines the feature vector and probability distribution into a
// prediction. The caller fills transcript and context fields afterwards.
func (s *RiskScorer) Score(fv models.FeatureVector, probs models.CategoryProbabilities) models.PredictionResult {
	predicted, confidence := probs.ArgMax()

	raw := s.config.ModelWeight*100*probs.MaxFraud() +
		s.config.HeuristicWeight*fv.Composite
	risk := int(math.Round(clamp(raw, 0, 100)))

	level := s.riskLevel(risk)
	isFraud := predicted != models.CategoryLegitimate && risk >= s.config.Thresholds.Medium

	return models.PredictionResult{
		IsFraud:           isFraud,
		RiskScore:         risk,
		RiskLevel:         level,
		PredictedCategory: predicted,
		Confidence:        confidence,
		Explanations:      s.buildExplanations(fv, probs, confidence),
	}
}

// riskLevel bands a score: [0,low) very_low, [low,medium) low,
// [medium,high) medium, [high,100] high
func (s *RiskScorer) riskLevel(risk int) models.RiskLevel {
	t := s.config.Thresholds
	switch {
	case risk >= t.High:
		return models.RiskHigh
	case risk >= t.Medium:
		return models.RiskMedium
	case risk >= t.Low:
		return models.RiskLow
	default:
		return models.RiskVeryLow
	}
}

// buildExplanations emits fired indicators in a fixed order, then the
// training-state and confidence-tier lines. Never empty.
func (s *RiskScorer) buildExplanations(fv models.FeatureVector, probs models.CategoryProbabilities, confidence float64) []string {
	var out []string

	if n := int(fv.Indicator(IndicatorUrgency) + fv.Indicator(IndicatorTimePressure)); n > 0 {
		out = append(out, fmt.Sprintf("Contains %d urgency indicators", n))
	}
	if fv.Indicator(IndicatorPersonalInfo) > 0 {
		out = append(out, "Requests personal information")
	}
	if n := int(fv.Indicator(IndicatorMoney)); n > 0 {
		out = append(out, fmt.Sprintf("Mentions money or payment %d times", n))
	}
	if fv.Indicator(IndicatorVerification) > 0 {
		out = append(out, "Asks to verify or confirm sensitive details")
	}
	if fv.Indicator(IndicatorAuthority) > 0 {
		out = append(out, "Claims to represent an authority or well-known organization")
	}
	if fv.Indicator(IndicatorEmotional) > 0 {
		out = append(out, "Uses emotional manipulation tactics")
	}
	if n := int(fv.Indicator(IndicatorSuspicious)); n > 0 {
		out = append(out, fmt.Sprintf("Contains %d known scam phrases", n))
	}
	if fv.Indicator(IndicatorCallback) > 0 || fv.Indicator(IndicatorPhoneNumbers) > 0 {
		out = append(out, "Solicits a callback")
	}

	if probs.Untrained {
		out = append(out, "Model not trained yet; heuristic indicators only")
	}

	switch {
	case confidence >= 0.8:
		out = append(out, "High confidence prediction based on learned patterns")
	case confidence >= 0.5:
		out = append(out, "Moderate confidence prediction")
	default:
		out = append(out, "Low confidence prediction - manual review recommended")
	}

	return out
}

// clamp clamps a value between min and max
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
