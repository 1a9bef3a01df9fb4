package repository

import "callguard-lab/internal/infrastructure/database"

// Repositories bundles all database repositories
type Repositories struct {
	Artifacts *ArtifactRepository
}

// NewRepositories creates all repositories backed by the given database
func NewRepositories(db *database.PostgresDB) *Repositories {
	return &Repositories{
		Artifacts: NewArtifactRepository(db),
	}
}
