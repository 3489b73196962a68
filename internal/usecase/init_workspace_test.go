package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

type recordingInitializer struct {
	spec  domain.WorkspaceSpec
	force bool
	calls int
}

func (r *recordingInitializer) Init(spec domain.WorkspaceSpec, force bool) error {
	r.spec, r.force = spec, force
	r.calls++
	return nil
}

func TestInitWorkspace_CreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "suite", "ws")
	rec := &recordingInitializer{}

	if err := NewInitWorkspace(rec).Execute(root, true); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Fatalf("expected root directory created, err=%v", err)
	}
	if rec.calls != 1 || rec.spec.Root != root || !rec.force {
		t.Fatalf("unexpected initializer call %+v", rec)
	}
}

func TestInitWorkspace_RejectsFileRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "webform.yaml")
	if err := os.WriteFile(file, []byte("webform: {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec := &recordingInitializer{}

	err := NewInitWorkspace(rec).Execute(file, false)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
	if rec.calls != 0 {
		t.Fatalf("initializer must not run for a file root")
	}
}
