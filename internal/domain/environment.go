package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Setting keys the suite relies on.
const (
	KeyLogin      = "login"
	KeyPassword   = "password"
	KeyBaseURL    = "baseUrl"
	KeyUploadFile = "uploadFile"
)

// RequiredKeys must resolve before any scenario runs.
var RequiredKeys = []string{KeyLogin, KeyPassword, KeyBaseURL}

// Vars is a flat key/value mapping of setting names to string values.
type Vars map[string]string

// EnvironmentRef is a lightweight reference to an environment source on disk.
type EnvironmentRef struct {
	Name string
	Path string
}

// Get returns a value for the given key and a boolean indicating if it exists.
func Get(vars Vars, key string) (string, bool) {
	if vars == nil {
		return "", false
	}
	val, ok := vars[key]
	return val, ok
}

// Set sets a key/value in the map, initializing it if needed.
func Set(vars Vars, key, value string) Vars {
	if vars == nil {
		vars = Vars{}
	}
	vars[key] = value
	return vars
}

// Merge merges base and override vars (override wins) and returns a new map.
func Merge(base Vars, override Vars) Vars {
	out := Vars{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Settings is the resolved environment configuration for one run.
// It is a value type and never mutated after construction.
type Settings struct {
	env  string
	vars Vars
}

// NewSettings copies vars so later changes to the input do not leak in.
func NewSettings(env string, vars Vars) Settings {
	return Settings{env: env, vars: Merge(nil, vars)}
}

// Env is the environment name the settings were resolved for.
func (s Settings) Env() string { return s.env }

// Get returns the value for key or a missing_config error.
func (s Settings) Get(key string) (string, error) {
	v, ok := Get(s.vars, key)
	if !ok {
		return "", &OpError{
			Op:   "settings.get",
			Kind: KindMissingConfig,
			Err:  fmt.Errorf("key %q (env=%s): %w", key, s.env, ErrMissingConfig),
		}
	}
	return v, nil
}

// Lookup is Get without the error.
func (s Settings) Lookup(key string) (string, bool) {
	return Get(s.vars, key)
}

// Require reports every missing key at once.
func (s Settings) Require(keys ...string) error {
	var errs []error
	for _, k := range keys {
		if _, err := s.Get(k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Keys returns the defined keys in sorted order.
func (s Settings) Keys() []string {
	out := make([]string, 0, len(s.vars))
	for k := range s.vars {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Vars returns a copy of the underlying values.
func (s Settings) Vars() Vars { return Merge(nil, s.vars) }

func (s Settings) Login() string    { return s.vars[KeyLogin] }
func (s Settings) Password() string { return s.vars[KeyPassword] }

// BaseURL always ends with a slash so page paths can be appended.
func (s Settings) BaseURL() string {
	u := strings.TrimSpace(s.vars[KeyBaseURL])
	if u != "" && !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// Masked returns a copy where sensitive values are replaced.
func (s Settings) Masked(mask string) Vars {
	out := Vars{}
	for k, v := range s.vars {
		if IsSensitiveKey(k) {
			out[k] = mask
			continue
		}
		out[k] = v
	}
	return out
}

// IsSensitiveKey reports keys whose values must never be printed or persisted.
func IsSensitiveKey(k string) bool {
	kk := strings.ToLower(k)
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password")
}
