package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard-lab/internal/domain/models"
	"callguard-lab/pkg/logger"
)

func newTestRegistry() *ModelRegistry {
	return NewModelRegistry(logger.NewNop())
}

// registryArtifact builds a consistent artifact with the given label count
func registryArtifact(version string, labelCount int) *models.ModelArtifact {
	labels := models.DefaultCategories()[:labelCount]
	weights := make([][]float64, labelCount)
	for i := range weights {
		weights[i] = []float64{0.1, 0.2}
	}
	return &models.ModelArtifact{
		Version: version,
		Labels:  labels,
		Vectorizer: models.VectorizerParams{
			Vocabulary: map[string]int{"a": 0, "b": 1},
			IDF:        []float64{1, 1},
			NgramMax:   2,
		},
		Classifier: models.ClassifierParams{
			Weights: weights,
			Bias:    make([]float64, labelCount),
		},
	}
}

func TestRegistryEmpty(t *testing.T) {
	r := newTestRegistry()
	assert.Nil(t, r.Snapshot())
	assert.Empty(t, r.Version())
}

func TestRegistrySwap(t *testing.T) {
	r := newTestRegistry()

	r.Swap(registryArtifact("v1", 2))
	assert.Equal(t, "v1", r.Version())

	r.Swap(registryArtifact("v2", 3))
	assert.Equal(t, "v2", r.Version())
	assert.Len(t, r.Snapshot().Labels, 3)
}

func TestRegistryRestoreRejectsCorrupt(t *testing.T) {
	r := newTestRegistry()
	r.Swap(registryArtifact("v1", 2))

	err := r.Restore([]byte(`{broken`))
	require.ErrorIs(t, err, models.ErrSerialization)
	assert.Equal(t, "v1", r.Version())
}

func TestRegistryRestoreActivates(t *testing.T) {
	r := newTestRegistry()

	data, err := registryArtifact("restored", 2).Serialize()
	require.NoError(t, err)

	require.NoError(t, r.Restore(data))
	assert.Equal(t, "restored", r.Version())
}

func TestRegistrySnapshotConsistentUnderSwaps(t *testing.T) {
	r := newTestRegistry()
	r.Swap(registryArtifact("v0", 2))

	done := make(chan struct{})
	var wg sync.WaitGroup

	// Writer keeps swapping artifacts with alternating shapes
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			labelCount := 2 + i%5
			r.Swap(registryArtifact(fmt.Sprintf("v%d", i), labelCount))
		}
		close(done)
	}()

	// Readers must always observe an internally consistent artifact
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				a := r.Snapshot()
				if a == nil {
					continue
				}
				assert.Len(t, a.Classifier.Weights, len(a.Labels))
				assert.Len(t, a.Classifier.Bias, len(a.Labels))
				assert.NotEmpty(t, a.Version)
			}
		}()
	}

	wg.Wait()
}
