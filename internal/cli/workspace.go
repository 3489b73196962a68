package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/infra/envconfig"
	"github.com/ISmeneger/webform-e2e/internal/infra/launcher"
	"github.com/ISmeneger/webform-e2e/internal/infra/logger"
	"github.com/ISmeneger/webform-e2e/internal/infra/runstore"
	"github.com/ISmeneger/webform-e2e/internal/infra/workspacefinder"
)

// envVar selects the environment when --env is not given.
const envVar = "WEBFORM_ENV"

type workspaceCtx struct {
	root string
	cfg  domain.Config

	settings *envconfig.Loader
	store    *runstore.JSONStore
}

// loadWorkspace resolves the root and its webform.yaml. A workspace without
// webform.yaml still works with the default configuration.
func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		logger.L().Warn("workspace.config_missing", "root", root)
	}

	return &workspaceCtx{
		root: root,
		cfg:  cfg,
		settings: envconfig.NewLoader(
			root,
			envconfig.WithConfigDir(cfg.Paths.ConfigDir),
			envconfig.WithLogger(logger.For("envconfig")),
		),
		store: runstore.NewJSONStore(root, cfg, runstore.WithIndex(true)),
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	root, err := workspacefinder.NewFinder().FindRoot(wd)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			// No webform.yaml anywhere up the tree: the working directory is the workspace.
			return wd, nil
		}
		return "", err
	}
	return root, nil
}

// resolveEnv applies --env > WEBFORM_ENV > webform.yaml default.
func resolveEnv(ws *workspaceCtx, flag string, lookup func(string) (string, bool)) string {
	if e := strings.TrimSpace(flag); e != "" {
		return e
	}
	if lookup != nil {
		if e, ok := lookup(envVar); ok && strings.TrimSpace(e) != "" {
			return strings.TrimSpace(e)
		}
	}
	return ws.cfg.Defaults.Environment
}

// resolveBackends applies --backend > webform.yaml default.
func resolveBackends(ws *workspaceCtx, flag string) ([]domain.Backend, error) {
	v := strings.TrimSpace(flag)
	if v == "" {
		v = ws.cfg.Defaults.Backend
	}
	return domain.ParseBackends(v)
}

// parseOverrides turns repeated --set key=value flags into settings overrides.
func parseOverrides(sets []string) (domain.Vars, error) {
	out := domain.Vars{}
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, &domain.OpError{
				Op:   "cli.set",
				Kind: domain.KindInvalidConfig,
				Err:  fmt.Errorf("expected key=value, got %q", s),
			}
		}
		out[k] = v
	}
	return out, nil
}

// browserConfig is the workspace browser config with command-line overrides applied.
func (ws *workspaceCtx) browserConfig(headed bool) domain.BrowserConfig {
	bc := ws.cfg.Browser
	if headed {
		bc.Headless = false
	}
	return bc
}

func (ws *workspaceCtx) launcher(headed bool) *launcher.Launcher {
	opts := []launcher.Option{launcher.WithLogger(logger.For("backend"))}
	if p := os.Getenv("WEBFORM_CHROME"); p != "" {
		opts = append(opts, launcher.WithChromePath(p))
	}
	return launcher.New(ws.browserConfig(headed), opts...)
}

// traceDir is where per-scenario archives go, or "" when tracing is off.
func (ws *workspaceCtx) traceDir(noTrace bool) string {
	if noTrace || !ws.cfg.Trace.Enabled {
		return ""
	}
	return filepath.Join(ws.root, ws.cfg.Paths.ArtifactsDir, "traces")
}
