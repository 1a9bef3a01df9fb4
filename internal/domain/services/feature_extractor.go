package services

import (
	"regexp"
	"strings"

	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

// compositeHitScale converts the weighted hit sum into the 0-100
// composite. Pure per-hit scaling keeps the score monotone in hit counts.
const compositeHitScale = 4.0

// FeatureExtractor counts pattern-group hits over normalized text and
// derives the composite heuristic fraud score.
type FeatureExtractor struct {
	catalogue *PatternCatalogue
	logger    *logger.Logger
}

// NewFeatureExtractor creates an extractor backed by the default catalogue
func NewFeatureExtractor(log *logger.Logger) *FeatureExtractor {
	return &FeatureExtractor{
		catalogue: DefaultCatalogue(),
		logger:    log.WithComponent("feature-extractor"),
	}
}

// Catalogue returns the extractor's pattern catalogue
func (e *FeatureExtractor) Catalogue() *PatternCatalogue {
	return e.catalogue
}

// Extract counts indicator and category hits in the normalized transcript.
// Hit counts are order-independent and a phrase may land in several groups.
func (e *FeatureExtractor) Extract(n models.NormalizedText) models.FeatureVector {
	indicators := make(map[string]float64, len(e.catalogue.Indicators)+4)

	var weightedHits float64
	for _, group := range e.catalogue.Indicators {
		hits := countHits(group.Patterns, n.Text)
		indicators[group.Name] = float64(hits)
		weightedHits += group.Weight * float64(hits)
	}

	indicators[IndicatorPhoneNumbers] = float64(strings.Count(n.Text, TokenPhoneNumber))
	indicators[IndicatorWordCount] = float64(len(n.Tokens))
	indicators[IndicatorExclamations] = float64(strings.Count(n.Text, "!"))
	indicators[IndicatorQuestionMarks] = float64(strings.Count(n.Text, "?"))

	categoryHits := make(map[models.Category]int, len(e.catalogue.Categories))
	for _, cat := range e.catalogue.Categories {
		categoryHits[cat.Category] = countHits(cat.Patterns, n.Text)
	}

	composite := weightedHits * compositeHitScale
	if composite > 100 {
		composite = 100
	}

	return models.FeatureVector{
		Indicators:   indicators,
		CategoryHits: categoryHits,
		Composite:    composite,
	}
}

func countHits(patterns []*regexp.Regexp, text string) int {
	var hits int
	for _, p := range patterns {
		hits += len(p.FindAllStringIndex(text, -1))
	}
	return hits
}
