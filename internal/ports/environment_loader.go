package ports

import "github.com/ISmeneger/webform-e2e/internal/domain"

// SettingsLoader resolves the layered environment configuration.
// overrides are process-supplied values and win over every file source.
type SettingsLoader interface {
	LoadSettings(env string, overrides domain.Vars) (domain.Settings, error)
}
