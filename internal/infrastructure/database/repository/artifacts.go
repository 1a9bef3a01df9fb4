package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"callguard-lab/internal/domain/models"
	"callguard-lab/internal/infrastructure/database"
)

// ArtifactRepository persists serialized model artifacts. The payload
// column carries the full artifact JSON; the remaining columns exist for
// operator queries.
type ArtifactRepository struct {
	db *database.PostgresDB
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *database.PostgresDB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

// EnsureSchema creates the artifact table when missing
func (r *ArtifactRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS model_artifacts (
			version        TEXT PRIMARY KEY,
			created_at     TIMESTAMPTZ NOT NULL,
			training_size  INT NOT NULL,
			test_accuracy  DOUBLE PRECISION NOT NULL,
			payload        JSONB NOT NULL
		)`

	if err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure artifact schema: %w", err)
	}
	return nil
}

// Save inserts a new artifact
func (r *ArtifactRepository) Save(ctx context.Context, a *models.ModelArtifact) error {
	payload, err := a.Serialize()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO model_artifacts (version, created_at, training_size, test_accuracy, payload)
		VALUES ($1, $2, $3, $4, $5)`

	if err := r.db.Exec(ctx, query,
		a.Version, a.CreatedAt, a.Metrics.TrainingSize, a.Metrics.TestAccuracy, payload,
	); err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}

	return nil
}

// LoadLatest returns the most recently created artifact, nil when none
// exist. A corrupt payload surfaces as ErrSerialization.
func (r *ArtifactRepository) LoadLatest(ctx context.Context) (*models.ModelArtifact, error) {
	query := `
		SELECT payload
		FROM model_artifacts
		ORDER BY created_at DESC
		LIMIT 1`

	var payload []byte
	err := r.db.QueryRow(ctx, query).Scan(&payload)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load latest artifact: %w", err)
	}

	return models.DeserializeArtifact(payload)
}

// ArtifactInfo is the operator-facing artifact summary
type ArtifactInfo struct {
	Version      string    `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	TrainingSize int       `json:"training_size"`
	TestAccuracy float64   `json:"test_accuracy"`
}

// History lists stored artifacts, newest first
func (r *ArtifactRepository) History(ctx context.Context, limit int) ([]ArtifactInfo, error) {
	query := `
		SELECT version, created_at, training_size, test_accuracy
		FROM model_artifacts
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var infos []ArtifactInfo
	for rows.Next() {
		var info ArtifactInfo
		if err := rows.Scan(&info.Version, &info.CreatedAt, &info.TrainingSize, &info.TestAccuracy); err != nil {
			return nil, fmt.Errorf("failed to scan artifact row: %w", err)
		}
		infos = append(infos, info)
	}

	return infos, nil
}
