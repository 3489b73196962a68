package envconfig

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/app/template"
	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
	"gopkg.in/yaml.v3"
)

const (
	defaultSource = "default"
	secretsSource = "secrets.local"
	envPrefix     = "WEBFORM_"
)

type Loader struct {
	rootDir   string
	configDir string
	lookupEnv func(string) (string, bool)
	log       *slog.Logger
}

type Option func(*Loader)

func WithConfigDir(dir string) Option {
	return func(l *Loader) { l.configDir = dir }
}

// WithLookupEnv overrides process environment lookup (useful for tests).
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(l *Loader) { l.lookupEnv = fn }
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		rootDir:   root,
		configDir: "config",
		lookupEnv: os.LookupEnv,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	_ ports.SettingsLoader     = (*Loader)(nil)
	_ ports.EnvironmentCatalog = (*Loader)(nil)
)

// LoadSettings resolves settings with precedence:
// overrides > WEBFORM_<KEY> process env > secrets.local.yaml > <env>.yaml > default.yaml.
// Missing files are skipped; missing keys surface later through Settings.Get.
func (l *Loader) LoadSettings(env string, overrides domain.Vars) (domain.Settings, error) {
	env = strings.TrimSpace(env)
	if env == "" {
		env = defaultSource
	}

	dir := filepath.Join(l.rootDir, l.configDir)

	base, _, err := readVarsOptional(sourcePath(dir, defaultSource))
	if err != nil {
		return domain.Settings{}, err
	}

	merged := base
	if env != defaultSource {
		envVars, found, err := readVarsOptional(sourcePath(dir, env))
		if err != nil {
			return domain.Settings{}, err
		}
		if !found {
			l.log.Warn("envconfig.env_source_missing", "env", env, "dir", dir)
		}
		merged = domain.Merge(merged, envVars)
	}

	secrets, found, err := readVarsOptional(sourcePath(dir, secretsSource))
	if err != nil {
		return domain.Settings{}, err
	}
	if found {
		l.log.Debug("envconfig.secrets_overlay", "keys", len(secrets))
		merged = domain.Merge(merged, secrets)
	}

	merged = domain.Merge(merged, l.processOverrides(merged))
	merged = domain.Merge(merged, overrides)

	rendered, err := template.RenderVars(merged)
	if err != nil {
		return domain.Settings{}, &domain.OpError{
			Op:   "envconfig.render",
			Kind: domain.KindInvalidConfig,
			Path: dir,
			Err:  err,
		}
	}

	l.log.Debug("envconfig.loaded", "env", env, "keys", len(rendered))
	return domain.NewSettings(env, rendered), nil
}

// processOverrides picks WEBFORM_<UPPER(key)> for every key a file source defines,
// plus the well-known keys even when no file defines them.
func (l *Loader) processOverrides(known domain.Vars) domain.Vars {
	keys := map[string]struct{}{}
	for k := range known {
		keys[k] = struct{}{}
	}
	for _, k := range domain.RequiredKeys {
		keys[k] = struct{}{}
	}
	keys[domain.KeyUploadFile] = struct{}{}

	out := domain.Vars{}
	for k := range keys {
		if v, ok := l.lookupEnv(EnvVarName(k)); ok {
			out[k] = v
		}
	}
	return out
}

// EnvVarName is the process environment variable that overrides key.
func EnvVarName(key string) string {
	return envPrefix + strings.ToUpper(key)
}

// ListEnvironments returns the environment sources in the config dir
// (the default and secrets sources excluded).
func (l *Loader) ListEnvironments() ([]domain.EnvironmentRef, error) {
	dir := filepath.Join(l.rootDir, l.configDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "envconfig.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.EnvironmentRef
	for _, e := range entries {
		if e.IsDir() || !hasYAMLExt(e.Name()) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if name == defaultSource || name == secretsSource {
			continue
		}
		refs = append(refs, domain.EnvironmentRef{Name: name, Path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// sourcePath prefers <name>.yaml and falls back to <name>.yml.
func sourcePath(dir, name string) string {
	p := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	alt := filepath.Join(dir, name+".yml")
	if _, err := os.Stat(alt); err == nil {
		return alt
	}
	return p
}

func hasYAMLExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

type yamlSource struct {
	Vars map[string]string `yaml:"vars"`
}

func readVars(path string) (domain.Vars, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "envconfig.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlSource
	if err := yaml.Unmarshal(b, &y); err != nil {
		return nil, &domain.OpError{
			Op:   "envconfig.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	if y.Vars == nil {
		y.Vars = map[string]string{}
	}

	return domain.Vars(y.Vars), nil
}

func readVarsOptional(path string) (domain.Vars, bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Vars{}, false, nil
		}
		return nil, false, &domain.OpError{
			Op:   "envconfig.stat",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	v, err := readVars(path)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
