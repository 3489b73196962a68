package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads webform.yaml from the workspace root and applies defaults.
// A missing file yields the defaults with a not_found error so callers can decide.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	w := y.Webform

	// Apply parsed values on top of defaults.
	if w.Masking.Enabled != nil {
		cfg.Masking.Enabled = *w.Masking.Enabled
	}
	if w.Defaults.Env != "" {
		cfg.Defaults.Environment = w.Defaults.Env
	}
	if w.Defaults.Backend != "" {
		if _, err := domain.ParseBackends(w.Defaults.Backend); err != nil {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.loadconfig",
				Kind: domain.KindInvalidConfig,
				Path: path,
				Err:  err,
			}
		}
		cfg.Defaults.Backend = w.Defaults.Backend
	}
	if w.Browser.Headless != nil {
		cfg.Browser.Headless = *w.Browser.Headless
	}
	if w.Browser.TimeoutMS != nil {
		if *w.Browser.TimeoutMS <= 0 {
			return cfg, invalidField(path, "browser.timeout_ms", "must be positive")
		}
		cfg.Browser.Timeout = time.Duration(*w.Browser.TimeoutMS) * time.Millisecond
	}
	if w.Browser.ScenarioTimeoutMS != nil {
		if *w.Browser.ScenarioTimeoutMS <= 0 {
			return cfg, invalidField(path, "browser.scenario_timeout_ms", "must be positive")
		}
		cfg.Browser.ScenarioTimeout = time.Duration(*w.Browser.ScenarioTimeoutMS) * time.Millisecond
	}
	if w.Browser.Width > 0 {
		cfg.Browser.Width = w.Browser.Width
	}
	if w.Browser.Height > 0 {
		cfg.Browser.Height = w.Browser.Height
	}
	if w.Trace.Enabled != nil {
		cfg.Trace.Enabled = *w.Trace.Enabled
	}
	if w.Paths.ConfigDir != "" {
		cfg.Paths.ConfigDir = w.Paths.ConfigDir
	}
	if w.Paths.ArtifactsDir != "" {
		cfg.Paths.ArtifactsDir = w.Paths.ArtifactsDir
	}
	if w.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = w.Paths.RunsDir
	}

	return cfg, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "workspacefinder.loadconfig",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  errors.Join(errors.New("field "+field+": "+msg), domain.ErrInvalidConfig),
	}
}

type yamlConfig struct {
	Webform struct {
		Masking struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"masking"`

		Defaults struct {
			Env     string `yaml:"env"`
			Backend string `yaml:"backend"`
		} `yaml:"defaults"`

		Browser struct {
			Headless          *bool `yaml:"headless"`
			TimeoutMS         *int  `yaml:"timeout_ms"`
			ScenarioTimeoutMS *int  `yaml:"scenario_timeout_ms"`
			Width             int   `yaml:"width"`
			Height            int   `yaml:"height"`
		} `yaml:"browser"`

		Trace struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"trace"`

		Paths struct {
			ConfigDir    string `yaml:"config_dir"`
			ArtifactsDir string `yaml:"artifacts_dir"`
			RunsDir      string `yaml:"runs_dir"`
		} `yaml:"paths"`
	} `yaml:"webform"`
}
