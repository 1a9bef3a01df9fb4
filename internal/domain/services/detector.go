package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"callguard-lab/internal/domain/models"
	"callguard-lab/internal/infrastructure/cache"
	"callguard-lab/pkg/logger"
)

// FraudDetector orchestrates the analysis pipeline: normalize, extract
// features, classify, score. One registry snapshot is taken per call so
// the classifier and the reported model version always agree, even while
// a retrain swaps the artifact mid-stream.
type FraudDetector struct {
	processor   *LanguageProcessor
	extractor   *FeatureExtractor
	classifier  *Classifier
	scorer      *RiskScorer
	registry    *ModelRegistry
	transcriber Transcriber
	cache       *cache.RedisCache
	cacheTTL    time.Duration
	logger      *logger.Logger
}

// NewFraudDetector creates a new FraudDetector. The cache is optional;
// a nil cache disables prediction caching.
func NewFraudDetector(
	processor *LanguageProcessor,
	extractor *FeatureExtractor,
	classifier *Classifier,
	scorer *RiskScorer,
	registry *ModelRegistry,
	transcriber Transcriber,
	c *cache.RedisCache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *FraudDetector {
	return &FraudDetector{
		processor:   processor,
		extractor:   extractor,
		classifier:  classifier,
		scorer:      scorer,
		registry:    registry,
		transcriber: transcriber,
		cache:       c,
		cacheTTL:    cacheTTL,
		logger:      log.WithComponent("fraud-detector"),
	}
}

// AnalyzeText runs the full pipeline over a text transcript
func (d *FraudDetector) AnalyzeText(ctx context.Context, input models.TranscriptInput) (*models.PredictionResult, error) {
	// 1. Snapshot the model once for the whole prediction
	artifact := d.registry.Snapshot()
	version := ""
	if artifact != nil {
		version = artifact.Version
	}

	// 2. Cache lookup (keyed by transcript hash and model version, so a
	// swap naturally invalidates)
	cacheKey := predictionKey(input.Text, version)
	if d.cache != nil {
		var cached models.PredictionResult
		if err := d.cache.GetCachedPrediction(ctx, cacheKey, &cached); err == nil {
			d.logger.Debug().Str("key", cacheKey).Msg("prediction cache hit")
			return &cached, nil
		}
	}

	// 3. Normalize; blank input degrades to an empty low-signal
	// transcript instead of failing the call
	normalized, err := d.processor.Normalize(input.Text)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidInput) {
			return nil, err
		}
		normalized = models.NormalizedText{Language: models.LanguageUnknown}
	}

	// 4. Heuristic features and classification from the same snapshot
	features := d.extractor.Extract(normalized)
	probs := d.classifier.PredictWithArtifact(artifact, normalized)

	// 5. Score and fill context fields
	result := d.scorer.Score(features, probs)
	result.LanguageDetected = d.resolveLanguage(normalized.Language, input.LanguageHint)
	result.Transcript = input.Text
	result.AudioProcessed = input.Source == models.SourceAudio
	result.ModelVersion = version
	result.AnalyzedAt = time.Now()

	if d.cache != nil {
		if err := d.cache.CachePrediction(ctx, cacheKey, result, d.cacheTTL); err != nil {
			d.logger.Debug().Err(err).Msg("prediction cache store failed")
		}
	}

	log := d.logger
	if version != "" {
		log = log.WithModelVersion(version)
	}
	log.Info().
		Bool("is_fraud", result.IsFraud).
		Int("risk_score", result.RiskScore).
		Str("risk_level", string(result.RiskLevel)).
		Str("category", string(result.PredictedCategory)).
		Str("language", string(result.LanguageDetected)).
		Msg("transcript analyzed")

	return &result, nil
}

// AnalyzeAudio transcribes audio and analyzes the transcript. A failed
// transcription degrades to an empty transcript rather than an error.
func (d *FraudDetector) AnalyzeAudio(ctx context.Context, audio []byte, format string, hint models.Language) (*models.PredictionResult, error) {
	transcription, err := d.transcriber.Transcribe(ctx, audio, format)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			return nil, err
		}
		d.logger.Warn().Err(err).Msg("transcription failed, analyzing empty transcript")
		transcription = models.Transcription{OK: false}
	}

	if transcription.LanguageHint != "" && hint == "" {
		hint = transcription.LanguageHint
	}

	result, err := d.AnalyzeText(ctx, models.TranscriptInput{
		Text:         transcription.Text,
		Source:       models.SourceAudio,
		LanguageHint: hint,
	})
	if err != nil {
		return nil, err
	}
	result.AudioProcessed = true
	return result, nil
}

// resolveLanguage prefers the detected language, falling back to the
// caller's hint when detection was inconclusive
func (d *FraudDetector) resolveLanguage(detected, hint models.Language) models.Language {
	if detected == models.LanguageUnknown && hint != "" && hint != models.LanguageUnknown {
		return hint
	}
	if detected == "" {
		return models.LanguageUnknown
	}
	return detected
}

// predictionKey derives the cache key for a transcript under a model version
func predictionKey(text, version string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:]) + ":" + version
}
