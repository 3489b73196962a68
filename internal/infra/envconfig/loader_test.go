package envconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

func writeSource(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func noEnv(string) (string, bool) { return "", false }

func TestLoadSettings_EnvOverridesDefault(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "config")
	writeSource(t, dir, "default.yaml", "vars:\n  login: default-user\n  password: default-pass\n  baseUrl: https://example.com/\n")
	writeSource(t, dir, "dev.yaml", "vars:\n  login: dev-user\n")

	l := NewLoader(root, WithLookupEnv(noEnv))
	s, err := l.LoadSettings("dev", nil)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}

	if s.Env() != "dev" {
		t.Fatalf("expected env=dev, got %s", s.Env())
	}
	if s.Login() != "dev-user" {
		t.Fatalf("expected env source to win, got %q", s.Login())
	}
	if s.Password() != "default-pass" {
		t.Fatalf("expected default to fill gaps, got %q", s.Password())
	}
}

func TestLoadSettings_ProcessOverridesWin(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "config")
	writeSource(t, dir, "default.yaml", "vars:\n  login: default-user\n  password: p\n  baseUrl: https://example.com/\n")
	writeSource(t, dir, "dev.yaml", "vars:\n  login: dev-user\n")

	env := map[string]string{
		"WEBFORM_LOGIN":   "env-user",
		"WEBFORM_BASEURL": "https://env.example.com/",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	l := NewLoader(root, WithLookupEnv(lookup))
	s, err := l.LoadSettings("dev", domain.Vars{"login": "flag-user"})
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}

	if s.Login() != "flag-user" {
		t.Fatalf("expected explicit override to win, got %q", s.Login())
	}
	if s.BaseURL() != "https://env.example.com/" {
		t.Fatalf("expected process env to override files, got %q", s.BaseURL())
	}
}

func TestLoadSettings_MissingKeyIsMissingConfig(t *testing.T) {
	root := t.TempDir()
	writeSource(t, filepath.Join(root, "config"), "default.yaml", "vars:\n  login: u\n")

	l := NewLoader(root, WithLookupEnv(noEnv))
	s, err := l.LoadSettings("dev", nil)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}

	_, err = s.Get("password")
	if !domain.IsKind(err, domain.KindMissingConfig) {
		t.Fatalf("expected missing_config, got %v", err)
	}
	if err := s.Require(domain.RequiredKeys...); err == nil {
		t.Fatalf("expected Require to fail")
	}
}

func TestLoadSettings_NoSourcesAtAll(t *testing.T) {
	l := NewLoader(t.TempDir(), WithLookupEnv(noEnv))
	s, err := l.LoadSettings("qa", nil)
	if err != nil {
		t.Fatalf("expected missing files to be skipped, got %v", err)
	}
	if len(s.Keys()) != 0 {
		t.Fatalf("expected no keys, got %v", s.Keys())
	}
}

func TestLoadSettings_InvalidYAML(t *testing.T) {
	root := t.TempDir()
	writeSource(t, filepath.Join(root, "config"), "default.yaml", "vars: [unclosed\n")

	l := NewLoader(root, WithLookupEnv(noEnv))
	_, err := l.LoadSettings("dev", nil)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestLoadSettings_SupportsYMLAndReferences(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "config")
	writeSource(t, dir, "default.yaml", "vars:\n  host: https://bonigarcia.dev\n  baseUrl: \"{{host}}/selenium-webdriver-java/\"\n")
	writeSource(t, dir, "prod.yml", "vars:\n  host: https://mirror.example.com\n")

	l := NewLoader(root, WithLookupEnv(noEnv))
	s, err := l.LoadSettings("prod", nil)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if s.BaseURL() != "https://mirror.example.com/selenium-webdriver-java/" {
		t.Fatalf("expected reference rendered after merge, got %q", s.BaseURL())
	}
}

func TestListEnvironments(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "config")
	writeSource(t, dir, "default.yaml", "vars: {}\n")
	writeSource(t, dir, "stage.yaml", "vars: {}\n")
	writeSource(t, dir, "dev.yml", "vars: {}\n")
	writeSource(t, dir, "notes.txt", "ignored")

	l := NewLoader(root)
	refs, err := l.ListEnvironments()
	if err != nil {
		t.Fatalf("ListEnvironments error: %v", err)
	}
	if len(refs) != 2 || refs[0].Name != "dev" || refs[1].Name != "stage" {
		t.Fatalf("unexpected refs %+v", refs)
	}
}

func TestEnvVarName(t *testing.T) {
	if got := EnvVarName("baseUrl"); got != "WEBFORM_BASEURL" {
		t.Fatalf("unexpected env var name %q", got)
	}
}

func TestLoadSettings_SecretsOverlay(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "config")
	writeSource(t, dir, "default.yaml", "vars:\n  login: u\n  password: change-me\n  baseUrl: https://example.com/\n")
	writeSource(t, dir, "dev.yaml", "vars:\n  password: dev-pass\n")
	writeSource(t, dir, "secrets.local.yaml", "vars:\n  password: real-secret\n")

	l := NewLoader(root, WithLookupEnv(noEnv))
	s, err := l.LoadSettings("dev", nil)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if s.Password() != "real-secret" {
		t.Fatalf("expected secrets overlay to win over env file, got %q", s.Password())
	}

	s, err = l.LoadSettings("dev", domain.Vars{"password": "flag"})
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if s.Password() != "flag" {
		t.Fatalf("expected explicit override to beat secrets, got %q", s.Password())
	}

	refs, err := l.ListEnvironments()
	if err != nil {
		t.Fatalf("ListEnvironments error: %v", err)
	}
	if len(refs) != 1 || refs[0].Name != "dev" {
		t.Fatalf("secrets source must not be listed as an environment, got %+v", refs)
	}
}
