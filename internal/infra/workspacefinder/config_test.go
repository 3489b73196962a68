package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

func writeConfig(t *testing.T, root, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, "webform.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "webform:\n  masking:\n    enabled: false\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Masking.Enabled {
		t.Fatalf("expected masking=false")
	}
	if cfg.Defaults.Environment != "dev" {
		t.Fatalf("expected default env=dev, got=%s", cfg.Defaults.Environment)
	}
	if cfg.Defaults.Backend != "all" {
		t.Fatalf("expected default backend=all, got=%s", cfg.Defaults.Backend)
	}
	if cfg.Paths.ConfigDir != "config" || cfg.Paths.RunsDir != "runs" || cfg.Paths.ArtifactsDir != "artifacts" {
		t.Fatalf("unexpected default paths %+v", cfg.Paths)
	}
	if !cfg.Browser.Headless || cfg.Browser.Timeout != 10*time.Second {
		t.Fatalf("unexpected default browser config %+v", cfg.Browser)
	}
}

func TestLoadConfig_OverridesEverything(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `webform:
  defaults:
    env: stage
    backend: chromedp
  browser:
    headless: false
    timeout_ms: 2500
    scenario_timeout_ms: 30000
    width: 800
    height: 600
  trace:
    enabled: false
  paths:
    config_dir: settings
    artifacts_dir: out
    runs_dir: history
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Defaults.Environment != "stage" || cfg.Defaults.Backend != "chromedp" {
		t.Fatalf("unexpected defaults %+v", cfg.Defaults)
	}
	if cfg.Browser.Headless || cfg.Browser.Timeout != 2500*time.Millisecond || cfg.Browser.ScenarioTimeout != 30*time.Second {
		t.Fatalf("unexpected browser %+v", cfg.Browser)
	}
	if cfg.Browser.Width != 800 || cfg.Browser.Height != 600 {
		t.Fatalf("unexpected viewport %+v", cfg.Browser)
	}
	if cfg.Trace.Enabled {
		t.Fatalf("expected trace disabled")
	}
	if cfg.Paths.ConfigDir != "settings" || cfg.Paths.ArtifactsDir != "out" || cfg.Paths.RunsDir != "history" {
		t.Fatalf("unexpected paths %+v", cfg.Paths)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	cases := []string{
		"webform:\n  defaults:\n    backend: selenium\n",
		"webform:\n  browser:\n    timeout_ms: 0\n",
		"webform: [nope\n",
	}
	for _, body := range cases {
		root := t.TempDir()
		writeConfig(t, root, body)
		if _, err := LoadConfig(root); !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Fatalf("expected invalid_config for %q, got %v", body, err)
		}
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if cfg.Defaults.Environment != "dev" {
		t.Fatalf("expected defaults returned alongside error")
	}
}
