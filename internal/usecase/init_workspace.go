package usecase

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

// Execute scaffolds a workspace at root, creating the directory if needed.
// Existing files survive unless force is set.
func (uc *InitWorkspace) Execute(root string, force bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return &domain.OpError{Op: "workspace.init", Kind: domain.KindInvalidConfig, Path: root, Err: err}
	}

	info, err := os.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return &domain.OpError{
			Op:   "workspace.init",
			Kind: domain.KindInvalidConfig,
			Path: abs,
			Err:  fmt.Errorf("not a directory: %w", domain.ErrInvalidConfig),
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return &domain.OpError{Op: "workspace.init", Kind: domain.KindExecution, Path: abs, Err: err}
		}
	case err != nil:
		return &domain.OpError{Op: "workspace.init", Kind: domain.KindExecution, Path: abs, Err: err}
	}

	return uc.initializer.Init(domain.WorkspaceSpec{Root: abs}, force)
}
