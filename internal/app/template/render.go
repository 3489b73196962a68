package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

// RenderString replaces {{key}} placeholders with vars values.
// It returns an error if a key is missing or a placeholder is malformed.
func RenderString(input string, vars map[string]string) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", invalid(errors.New("unclosed template expression"))
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", invalid(errors.New("empty template expression"))
		}

		value, ok := vars[key]
		if !ok {
			return "", invalid(fmt.Errorf("unresolved reference %q", key))
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}

// RenderVars resolves references between settings, e.g. uploadFile: "{{home}}/banner.jpg".
// Values may reference keys that themselves contain references; cycles are rejected.
func RenderVars(vars domain.Vars) (domain.Vars, error) {
	out := domain.Merge(nil, vars)

	keys := make([]string, 0, len(out))
	for k := range out {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Each pass resolves at least one level of nesting; more passes than keys means a cycle.
	for pass := 0; pass <= len(keys); pass++ {
		changed := false
		for _, k := range keys {
			v := out[k]
			if !strings.Contains(v, "{{") {
				continue
			}
			rv, err := RenderString(v, out)
			if err != nil {
				return nil, fmt.Errorf("setting %q: %w", k, err)
			}
			if rv != v {
				out[k] = rv
				changed = true
			}
		}
		if !changed {
			for _, k := range keys {
				if strings.Contains(out[k], "{{") {
					return nil, invalid(fmt.Errorf("setting %q: self-referencing value", k))
				}
			}
			return out, nil
		}
	}

	return nil, invalid(errors.New("cyclic settings references"))
}

func invalid(err error) error {
	return &domain.OpError{
		Op:   "template.render",
		Kind: domain.KindInvalidConfig,
		Err:  err,
	}
}
