package models

import "errors"

// Sentinel errors for the analysis and training pipeline. Callers match
// with errors.Is; wrapped variants carry the offending detail.
var (
	// ErrInvalidInput indicates empty or malformed caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData indicates a training corpus too small or too
	// homogeneous to fit a model.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrSerialization indicates a corrupt or incompatible persisted
	// model artifact. The registry keeps its previous artifact.
	ErrSerialization = errors.New("artifact serialization failed")

	// ErrTrainingInProgress indicates a concurrent training run already
	// holds the training guard.
	ErrTrainingInProgress = errors.New("training already in progress")
)
