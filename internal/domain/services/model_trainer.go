package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"callguard-lab/internal/config"
	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

// ModelTrainer fits new model artifacts from labeled corpora. Only one
// training run may be active at a time; the guard is a CAS flag so a
// second caller fails fast instead of queueing. Training runs entirely on
// the caller's goroutine and never touches the registry.
type ModelTrainer struct {
	config    config.TrainingConfig
	processor *LanguageProcessor
	training  atomic.Bool
	logger    *logger.Logger
}

// NewModelTrainer creates a new ModelTrainer
func NewModelTrainer(cfg config.TrainingConfig, processor *LanguageProcessor, log *logger.Logger) *ModelTrainer {
	return &ModelTrainer{
		config:    cfg,
		processor: processor,
		logger:    log.WithComponent("model-trainer"),
	}
}

// InProgress reports whether a training run is currently active
func (t *ModelTrainer) InProgress() bool {
	return t.training.Load()
}

// Train validates the corpus, fits a TF-IDF + multinomial logistic
// regression model and returns a new immutable artifact. Registration is
// the caller's separate registry swap, so a failed run has no side
// effects on live predictions. The context is checked between epochs and
// folds; cancellation abandons the run.
func (t *ModelTrainer) Train(ctx context.Context, examples []models.TrainingExample) (*models.ModelArtifact, error) {
	if !t.training.CompareAndSwap(false, true) {
		return nil, models.ErrTrainingInProgress
	}
	defer t.training.Store(false)

	started := time.Now()

	labels, err := t.validate(examples)
	if err != nil {
		return nil, err
	}

	labelIndex := make(map[models.Category]int, len(labels))
	for i, c := range labels {
		labelIndex[c] = i
	}

	docs := make([][]string, len(examples))
	y := make([]int, len(examples))
	for i, ex := range examples {
		normalized, err := t.processor.Normalize(ex.Text)
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		docs[i] = normalized.Tokens
		y[i] = labelIndex[ex.Category]
	}

	// Seeded shuffle and train/test split
	rng := rand.New(rand.NewSource(t.config.Seed))
	order := rng.Perm(len(docs))
	testCount := int(float64(len(docs)) * t.config.TestSplit)
	trainIdx := order[testCount:]
	testIdx := order[:testCount]

	trainDocs := make([][]string, len(trainIdx))
	trainY := make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		trainDocs[i] = docs[idx]
		trainY[i] = y[idx]
	}

	vectorizer := FitVectorizer(trainDocs, t.config.MaxFeatures)
	trainX := vectorizeAll(vectorizer, trainDocs)

	classifier, err := fitClassifier(ctx, trainX, trainY, len(labels), t.config)
	if err != nil {
		return nil, err
	}

	trainAcc := accuracy(classifier, trainX, trainY)
	testAcc := trainAcc
	if len(testIdx) > 0 {
		testDocs := make([][]string, len(testIdx))
		testY := make([]int, len(testIdx))
		for i, idx := range testIdx {
			testDocs[i] = docs[idx]
			testY[i] = y[idx]
		}
		testAcc = accuracy(classifier, vectorizeAll(vectorizer, testDocs), testY)
	}

	cvAcc, err := t.crossValidate(ctx, docs, y, len(labels))
	if err != nil {
		return nil, err
	}

	artifact := &models.ModelArtifact{
		Version:    uuid.New().String(),
		CreatedAt:  time.Now(),
		Labels:     labels,
		Vectorizer: vectorizer,
		Classifier: classifier,
		Metrics: models.TrainingMetrics{
			TrainAccuracy:    trainAcc,
			TestAccuracy:     testAcc,
			CrossValAccuracy: cvAcc,
			TrainingSize:     len(examples),
		},
	}

	t.logger.Info().
		Str("version", artifact.Version).
		Int("examples", len(examples)).
		Int("labels", len(labels)).
		Int("vocabulary", len(vectorizer.Vocabulary)).
		Float64("train_accuracy", trainAcc).
		Float64("test_accuracy", testAcc).
		Float64("cross_val_accuracy", cvAcc).
		Dur("duration", time.Since(started)).
		Msg("training completed")

	return artifact, nil
}

// validate enforces corpus preconditions and returns the label list
func (t *ModelTrainer) validate(examples []models.TrainingExample) ([]models.Category, error) {
	if len(examples) < t.config.MinExamples {
		return nil, fmt.Errorf("%w: %d examples, need at least %d",
			models.ErrInsufficientData, len(examples), t.config.MinExamples)
	}

	for i, ex := range examples {
		if ex.Text == "" {
			return nil, fmt.Errorf("%w: example %d has empty text", models.ErrInvalidInput, i)
		}
		if ex.Category == "" {
			return nil, fmt.Errorf("%w: example %d has empty category", models.ErrInvalidInput, i)
		}
	}

	labels := models.CanonicalizeLabels(examples)
	if len(labels) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 distinct categories, got %d",
			models.ErrInsufficientData, len(labels))
	}

	hasFraud := false
	for _, c := range labels {
		if c != models.CategoryLegitimate {
			hasFraud = true
			break
		}
	}
	if !hasFraud {
		return nil, fmt.Errorf("%w: corpus has no non-legitimate category", models.ErrInsufficientData)
	}

	return labels, nil
}

// crossValidate runs seeded k-fold evaluation over the full corpus and
// returns the mean fold accuracy
func (t *ModelTrainer) crossValidate(ctx context.Context, docs [][]string, y []int, classes int) (float64, error) {
	k := t.config.CrossValFolds
	if k > len(docs) {
		k = len(docs)
	}
	if k < 2 {
		return 0, nil
	}

	rng := rand.New(rand.NewSource(t.config.Seed + 1))
	order := rng.Perm(len(docs))

	var total float64
	for fold := 0; fold < k; fold++ {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("training cancelled: %w", err)
		}

		var trainDocs, holdDocs [][]string
		var trainY, holdY []int
		for i, idx := range order {
			if i%k == fold {
				holdDocs = append(holdDocs, docs[idx])
				holdY = append(holdY, y[idx])
			} else {
				trainDocs = append(trainDocs, docs[idx])
				trainY = append(trainY, y[idx])
			}
		}

		vectorizer := FitVectorizer(trainDocs, t.config.MaxFeatures)
		classifier, err := fitClassifier(ctx, vectorizeAll(vectorizer, trainDocs), trainY, classes, t.config)
		if err != nil {
			return 0, err
		}
		total += accuracy(classifier, vectorizeAll(vectorizer, holdDocs), holdY)
	}

	return total / float64(k), nil
}

// fitClassifier trains multinomial logistic regression with full-batch
// gradient descent and L2 regularization
func fitClassifier(ctx context.Context, x [][]float64, y []int, classes int, cfg config.TrainingConfig) (models.ClassifierParams, error) {
	if len(x) == 0 {
		return models.ClassifierParams{}, fmt.Errorf("%w: empty training partition", models.ErrInsufficientData)
	}
	dim := len(x[0])

	weights := make([][]float64, classes)
	gradW := make([][]float64, classes)
	for k := range weights {
		weights[k] = make([]float64, dim)
		gradW[k] = make([]float64, dim)
	}
	bias := make([]float64, classes)
	gradB := make([]float64, classes)

	n := float64(len(x))
	params := models.ClassifierParams{Weights: weights, Bias: bias}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return models.ClassifierParams{}, fmt.Errorf("training cancelled: %w", err)
		}

		for k := range gradW {
			for j := range gradW[k] {
				gradW[k][j] = 0
			}
			gradB[k] = 0
		}

		for i, vec := range x {
			probs := softmax(decisionLogits(params, vec))
			for k := 0; k < classes; k++ {
				diff := probs[k]
				if k == y[i] {
					diff -= 1
				}
				gradB[k] += diff
				for j, v := range vec {
					if v != 0 {
						gradW[k][j] += diff * v
					}
				}
			}
		}

		for k := 0; k < classes; k++ {
			for j := 0; j < dim; j++ {
				weights[k][j] -= cfg.LearningRate * (gradW[k][j]/n + cfg.Regularization*weights[k][j])
			}
			bias[k] -= cfg.LearningRate * gradB[k] / n
		}
	}

	return params, nil
}

// vectorizeAll transforms tokenized documents with fitted parameters
func vectorizeAll(params models.VectorizerParams, docs [][]string) [][]float64 {
	x := make([][]float64, len(docs))
	for i, tokens := range docs {
		x[i] = Vectorize(params, tokens)
	}
	return x
}

// accuracy is the fraction of samples whose arg-max class matches the label
func accuracy(params models.ClassifierParams, x [][]float64, y []int) float64 {
	if len(x) == 0 {
		return 0
	}
	correct := 0
	for i, vec := range x {
		probs := softmax(decisionLogits(params, vec))
		best := 0
		for k := 1; k < len(probs); k++ {
			if probs[k] > probs[best] {
				best = k
			}
		}
		if best == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x))
}
