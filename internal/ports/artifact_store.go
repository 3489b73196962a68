package ports

import "github.com/ISmeneger/webform-e2e/internal/domain"

// ArtifactStore persists suite runs for later inspection.
type ArtifactStore interface {
	SaveRun(run domain.RunArtifact) (id string, err error)
	ListRuns() ([]domain.RunRef, error)
	LoadRun(id string) ([]byte, error)
}
