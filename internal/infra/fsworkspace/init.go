package fsworkspace

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
)

// SecretsFile is the git-ignored overlay for credentials inside the config dir.
const SecretsFile = "secrets.local.yaml"

const gitignoreHeader = "# webform"

// Initializer scaffolds a workspace: webform.yaml, environment sources and
// the directories runs and traces are written to.
type Initializer struct {
	paths domain.PathsConfig
	log   *slog.Logger
}

type Option func(*Initializer)

func WithLogger(l *slog.Logger) Option {
	return func(i *Initializer) { i.log = l }
}

func NewInitializer(opts ...Option) *Initializer {
	i := &Initializer{
		paths: domain.DefaultConfig().Paths,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init writes the templates under spec.Root. Existing files are kept unless force is set.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	if strings.TrimSpace(spec.Root) == "" {
		return &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindInvalidConfig, Err: errors.New("empty workspace root")}
	}
	root := filepath.Clean(spec.Root)

	for _, d := range []string{i.paths.ConfigDir, i.paths.RunsDir, i.paths.ArtifactsDir, filepath.Join(".webform", "logs")} {
		dir := filepath.Join(root, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindExecution, Path: dir, Err: err}
		}
	}

	if err := ensureGitignore(root, i.ignored()); err != nil {
		return &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: root, Err: err}
	}

	written, kept := 0, 0
	err := fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, filepath.FromSlash(rel))
		if _, statErr := os.Stat(dst); statErr == nil && !force {
			kept++
			return nil
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}

		mode := fs.FileMode(0o644)
		if path.Base(rel) == SecretsFile {
			mode = 0o600
		}
		if err := os.WriteFile(dst, b, mode); err != nil {
			return err
		}
		written++
		return nil
	})
	if err != nil {
		return &domain.OpError{Op: "fsworkspace.write", Kind: domain.KindExecution, Path: root, Err: err}
	}

	i.log.Info("workspace.initialized", "root", root, "written", written, "kept", kept, "force", force)
	return nil
}

// ignored lists the workspace paths that never belong in version control.
func (i *Initializer) ignored() []string {
	return []string{
		i.paths.RunsDir + "/",
		i.paths.ArtifactsDir + "/",
		".webform/",
		path.Join(filepath.ToSlash(i.paths.ConfigDir), SecretsFile),
	}
}

// ensureGitignore appends the entries .gitignore lacks under a single header.
func ensureGitignore(root string, entries []string) error {
	p := filepath.Join(root, ".gitignore")

	existing, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	have := map[string]bool{}
	for _, line := range strings.Split(string(existing), "\n") {
		have[strings.TrimSpace(line)] = true
	}

	var add []string
	if !have[gitignoreHeader] {
		add = append(add, gitignoreHeader)
	}
	missing := 0
	for _, e := range entries {
		if !have[e] {
			add = append(add, e)
			missing++
		}
	}
	if missing == 0 {
		return nil
	}

	var b strings.Builder
	b.Write(existing)
	if len(existing) > 0 {
		if existing[len(existing)-1] != '\n' {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Join(add, "\n"))
	b.WriteByte('\n')

	return os.WriteFile(p, []byte(b.String()), 0o644)
}
