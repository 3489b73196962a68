package workspacefinder

import (
	"errors"
	"iter"
	"os"
	"path/filepath"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
)

// ConfigFileName marks a workspace root.
const ConfigFileName = "webform.yaml"

// Finder walks up from a directory until it meets webform.yaml.
type Finder struct {
	ConfigFile string
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: ConfigFileName}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

// ancestors yields dir and each parent up to the filesystem root.
func ancestors(dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for cur := filepath.Clean(dir); ; {
			if !yield(cur) {
				return
			}
			parent := filepath.Dir(cur)
			if parent == cur {
				return
			}
			cur = parent
		}
	}
}

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("empty start directory"),
		}
	}

	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{Op: "workspacefinder.findroot", Kind: domain.KindExecution, Path: startDir, Err: err}
	}
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		start = filepath.Dir(start)
	}

	name := f.ConfigFile
	if name == "" {
		name = ConfigFileName
	}
	for dir := range ancestors(start) {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return dir, nil
		}
	}

	return "", &domain.OpError{
		Op:   "workspacefinder.findroot",
		Kind: domain.KindNotFound,
		Path: start,
		Err:  domain.ErrNotFound,
	}
}
