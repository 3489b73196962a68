package fsworkspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/infra/envconfig"
	"github.com/ISmeneger/webform-e2e/internal/infra/workspacefinder"
)

func TestInitializer_Init_CreatesWorkspaceFiles(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer()
	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	assertFileExists(t, filepath.Join(tmp, "webform.yaml"))
	assertFileExists(t, filepath.Join(tmp, "config", "default.yaml"))
	assertFileExists(t, filepath.Join(tmp, "config", "dev.yaml"))
	assertFileExists(t, filepath.Join(tmp, "runs"))
	assertFileExists(t, filepath.Join(tmp, "artifacts"))

	secretPath := filepath.Join(tmp, "config", "secrets.local.yaml")
	assertFileExists(t, secretPath)
	info, err := os.Stat(secretPath)
	if err != nil {
		t.Fatalf("stat secrets file: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected secrets file mode 600, got %o", got)
	}
}

func TestInitializer_Init_ProducesLoadableWorkspace(t *testing.T) {
	tmp := t.TempDir()
	if err := NewInitializer().Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	cfg, err := workspacefinder.LoadConfig(tmp)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Defaults.Environment != "dev" {
		t.Fatalf("unexpected default env %q", cfg.Defaults.Environment)
	}

	noEnv := func(string) (string, bool) { return "", false }
	s, err := envconfig.NewLoader(tmp, envconfig.WithLookupEnv(noEnv)).LoadSettings("dev", nil)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if err := s.Require(domain.RequiredKeys...); err != nil {
		t.Fatalf("expected scaffolded settings to be complete: %v", err)
	}
	if s.Login() != "dev-user" {
		t.Fatalf("expected dev override, got %q", s.Login())
	}
}

func TestInitializer_Init_SkipsExistingFilesUnlessForce(t *testing.T) {
	tmp := t.TempDir()

	cfgPath := filepath.Join(tmp, "webform.yaml")
	if err := os.WriteFile(cfgPath, []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("write existing webform.yaml: %v", err)
	}

	i := NewInitializer()

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init (force=false) error: %v", err)
	}

	b, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read webform.yaml: %v", err)
	}
	if string(b) != "custom\n" {
		t.Fatalf("expected webform.yaml preserved, got %q", string(b))
	}

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, true); err != nil {
		t.Fatalf("Init (force=true) error: %v", err)
	}

	b, err = os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read webform.yaml after force: %v", err)
	}
	if !strings.Contains(string(b), "webform:") {
		t.Fatalf("expected webform.yaml overwritten with template, got %q", string(b))
	}
}

func TestInitializer_Init_EmptyRoot(t *testing.T) {
	err := NewInitializer().Init(domain.WorkspaceSpec{Root: "  "}, false)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s, stat err=%v", path, err)
	}
}
