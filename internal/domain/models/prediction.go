package models

import "time"

// Category is a call classification label
type Category string

const (
	CategoryTechSupport  Category = "tech_support"
	CategoryFinancial    Category = "financial"
	CategoryRomance      Category = "romance"
	CategoryLotteryPrize Category = "lottery_prize"
	CategoryPhishing     Category = "phishing"
	CategoryRobocall     Category = "robocall"
	CategoryLegitimate   Category = "legitimate"
)

// DefaultCategories returns the built-in label set in canonical order.
// Canonical order breaks arg-max ties and orders labels of new artifacts.
func DefaultCategories() []Category {
	return []Category{
		CategoryTechSupport,
		CategoryFinancial,
		CategoryRomance,
		CategoryLotteryPrize,
		CategoryPhishing,
		CategoryRobocall,
		CategoryLegitimate,
	}
}

// RiskLevel is a banded view of the 0-100 risk score
type RiskLevel string

const (
	RiskVeryLow RiskLevel = "very_low"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

// FeatureVector holds the heuristic indicator counts extracted from a
// normalized transcript
type FeatureVector struct {
	Indicators   map[string]float64 `json:"indicators"`
	CategoryHits map[Category]int   `json:"category_hits"`
	// Composite is the weighted heuristic fraud score in [0, 100].
	Composite float64 `json:"composite"`
}

// Indicator returns a named indicator count, zero when absent
func (f FeatureVector) Indicator(name string) float64 {
	return f.Indicators[name]
}

// CategoryProbabilities is a probability distribution over an ordered
// label list. Labels and Probs are index-aligned.
type CategoryProbabilities struct {
	Labels []Category `json:"labels"`
	Probs  []float64  `json:"probabilities"`
	// Untrained marks the uniform cold-start distribution.
	Untrained bool `json:"untrained"`
}

// Prob returns the probability of a category, zero when not in the label set
func (p CategoryProbabilities) Prob(c Category) float64 {
	for i, label := range p.Labels {
		if label == c {
			return p.Probs[i]
		}
	}
	return 0
}

// ArgMax returns the most probable category and its probability.
// Ties keep the earliest label, so canonical order wins.
func (p CategoryProbabilities) ArgMax() (Category, float64) {
	if len(p.Labels) == 0 {
		return CategoryLegitimate, 0
	}
	best := 0
	for i := 1; i < len(p.Probs); i++ {
		if p.Probs[i] > p.Probs[best] {
			best = i
		}
	}
	return p.Labels[best], p.Probs[best]
}

// MaxFraud returns the highest probability among non-legitimate labels
func (p CategoryProbabilities) MaxFraud() float64 {
	var max float64
	for i, label := range p.Labels {
		if label != CategoryLegitimate && p.Probs[i] > max {
			max = p.Probs[i]
		}
	}
	return max
}

// PredictionResult is the full outcome of analyzing one call
type PredictionResult struct {
	IsFraud           bool      `json:"is_fraud"`
	RiskScore         int       `json:"risk_score"`
	RiskLevel         RiskLevel `json:"risk_level"`
	PredictedCategory Category  `json:"predicted_category"`
	Confidence        float64   `json:"confidence"`
	LanguageDetected  Language  `json:"language_detected"`
	Explanations      []string  `json:"explanations"`
	Transcript        string    `json:"transcript,omitempty"`
	AudioProcessed    bool      `json:"audio_processed,omitempty"`
	ModelVersion      string    `json:"model_version,omitempty"`
	AnalyzedAt        time.Time `json:"analyzed_at"`
}
