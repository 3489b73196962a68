package domain

import "time"

// Config represents the workspace configuration loaded from webform.yaml.
type Config struct {
	Masking  MaskingConfig
	Defaults DefaultsConfig
	Browser  BrowserConfig
	Trace    TraceConfig
	Paths    PathsConfig
}

type MaskingConfig struct {
	Enabled bool
}

type DefaultsConfig struct {
	Environment string
	Backend     string
}

type BrowserConfig struct {
	Headless        bool
	Timeout         time.Duration // per user action
	ScenarioTimeout time.Duration // whole Init..Teardown
	Width           int
	Height          int
}

type TraceConfig struct {
	Enabled bool
}

type PathsConfig struct {
	ConfigDir    string
	ArtifactsDir string
	RunsDir      string
}

// DefaultConfig provides sane defaults if webform.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Masking: MaskingConfig{Enabled: true},
		Defaults: DefaultsConfig{
			Environment: "dev",
			Backend:     "all",
		},
		Browser: BrowserConfig{
			Headless:        true,
			Timeout:         10 * time.Second,
			ScenarioTimeout: 60 * time.Second,
			Width:           1366,
			Height:          900,
		},
		Trace: TraceConfig{Enabled: true},
		Paths: PathsConfig{
			ConfigDir:    "config",
			ArtifactsDir: "artifacts",
			RunsDir:      "runs",
		},
	}
}

// SessionOptions configures one isolated browser session.
type SessionOptions struct {
	// Name identifies the owning scenario in logs and trace files.
	Name string

	// BaseURL is where HomePage.Open navigates.
	BaseURL string

	// TracePath is where the diagnostic archive is flushed on Close.
	// Empty disables tracing.
	TracePath string
}

// WorkspaceSpec describes a workspace to scaffold.
type WorkspaceSpec struct {
	Root string
}
