package usecase

import (
	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/ports"
)

const maskValue = "********"

// ConfigView is the resolved environment as shown to users.
type ConfigView struct {
	Env     string
	Vars    domain.Vars
	Missing []string
}

type ResolveConfig struct {
	settings ports.SettingsLoader
}

func NewResolveConfig(sl ports.SettingsLoader) *ResolveConfig {
	return &ResolveConfig{settings: sl}
}

// Execute loads settings and reports which required keys are absent.
// Sensitive values are masked unless reveal is set.
func (uc *ResolveConfig) Execute(env string, overrides domain.Vars, reveal bool) (ConfigView, error) {
	s, err := uc.settings.LoadSettings(env, overrides)
	if err != nil {
		return ConfigView{}, err
	}

	view := ConfigView{Env: s.Env(), Vars: s.Masked(maskValue)}
	if reveal {
		view.Vars = s.Vars()
	}
	for _, k := range domain.RequiredKeys {
		if _, ok := s.Lookup(k); !ok {
			view.Missing = append(view.Missing, k)
		}
	}
	return view, nil
}
