package ports

import "github.com/ISmeneger/webform-e2e/internal/domain"

// WorkspaceLocator finds a suite workspace root starting from an arbitrary directory.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}

// WorkspaceInitializer scaffolds webform.yaml and the environment sources.
type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
