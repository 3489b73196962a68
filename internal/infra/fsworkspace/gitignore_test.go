package fsworkspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var defaultIgnored = NewInitializer().ignored()

func readGitignore(t *testing.T, dir string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	return string(b)
}

func TestEnsureGitignore_CreatesFile(t *testing.T) {
	tmp := t.TempDir()
	if err := ensureGitignore(tmp, defaultIgnored); err != nil {
		t.Fatalf("ensureGitignore error: %v", err)
	}

	want := "# webform\nruns/\nartifacts/\n.webform/\nconfig/secrets.local.yaml\n"
	if got := readGitignore(t, tmp); got != want {
		t.Fatalf("unexpected .gitignore:\n%s", got)
	}
}

func TestEnsureGitignore_AppendsOnlyMissingEntries(t *testing.T) {
	tmp := t.TempDir()
	existing := "node_modules/\n# webform\nruns/"
	if err := os.WriteFile(filepath.Join(tmp, ".gitignore"), []byte(existing), 0o644); err != nil {
		t.Fatalf("write .gitignore: %v", err)
	}

	if err := ensureGitignore(tmp, defaultIgnored); err != nil {
		t.Fatalf("ensureGitignore error: %v", err)
	}
	s := readGitignore(t, tmp)

	if !strings.HasPrefix(s, "node_modules/\n# webform\nruns/\n") {
		t.Fatalf("expected existing content preserved, got:\n%s", s)
	}
	if strings.Count(s, "# webform") != 1 || strings.Count(s, "runs/") != 1 {
		t.Fatalf("expected no duplicates, got:\n%s", s)
	}
	for _, w := range []string{"artifacts/", ".webform/", "config/secrets.local.yaml"} {
		if !strings.Contains(s, w) {
			t.Fatalf("expected .gitignore to contain %q, got:\n%s", w, s)
		}
	}
}

func TestEnsureGitignore_NoopWhenComplete(t *testing.T) {
	tmp := t.TempDir()
	if err := ensureGitignore(tmp, defaultIgnored); err != nil {
		t.Fatalf("first call: %v", err)
	}
	before := readGitignore(t, tmp)

	if err := ensureGitignore(tmp, defaultIgnored); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if after := readGitignore(t, tmp); after != before {
		t.Fatalf("expected file untouched, got:\n%s", after)
	}
}
