package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backend names an automation engine. Scenarios are tagged and filtered by it.
type Backend string

const (
	BackendPlaywright Backend = "playwright"
	BackendChromedp   Backend = "chromedp"
)

// AllBackends lists the supported backends in their canonical order.
var AllBackends = []Backend{BackendPlaywright, BackendChromedp}

// ParseBackends accepts "playwright", "chromedp", "all" or a comma separated list.
func ParseBackends(s string) ([]Backend, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		return append([]Backend(nil), AllBackends...), nil
	}

	var out []Backend
	seen := map[Backend]bool{}
	for _, part := range strings.Split(s, ",") {
		b := Backend(strings.TrimSpace(part))
		switch b {
		case BackendPlaywright, BackendChromedp:
		default:
			return nil, &OpError{
				Op:   "backend.parse",
				Kind: KindInvalidConfig,
				Err:  fmt.Errorf("unknown backend %q (expected playwright|chromedp|all): %w", part, ErrInvalidConfig),
			}
		}
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out, nil
}

// RunError represents a structured error attached to one scenario.
type RunError struct {
	Kind    ErrorKind
	Message string
}

// NewRunError classifies err. Context deadlines are reported as action timeouts.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}
	kind := KindOf(err)
	if kind == KindExecution && errors.Is(err, context.DeadlineExceeded) {
		kind = KindActionTimeout
	}
	return &RunError{Kind: kind, Message: err.Error()}
}

// AssertionResult is the output of a single assertion.
type AssertionResult struct {
	Name    string
	Passed  bool
	Message string
}

// ScenarioResult represents the outcome of one scenario on one backend.
type ScenarioResult struct {
	Backend Backend
	Name    string
	Order   int
	Param   string

	StartedAt time.Time
	EndedAt   time.Time

	Assertions []AssertionResult
	Error      *RunError

	// TracePath is set when a diagnostic archive was written.
	TracePath string

	// TeardownCount is 1 for every scenario that acquired a session.
	TeardownCount int

	Skipped bool
}

// DisplayName is the name plus the parameter, if any.
func (r ScenarioResult) DisplayName() string {
	if r.Param == "" {
		return r.Name
	}
	return fmt.Sprintf("%s [%s]", r.Name, r.Param)
}

// Failed reports whether the scenario errored or had a failing assertion.
func (r ScenarioResult) Failed() bool {
	if r.Skipped {
		return false
	}
	if r.Error != nil {
		return true
	}
	for _, a := range r.Assertions {
		if !a.Passed {
			return true
		}
	}
	return false
}

// BackendResult is the ordered list of results for one backend.
type BackendResult struct {
	Backend   Backend
	Scenarios []ScenarioResult
	// Error is set when the backend itself could not start.
	Error *RunError
}

// RunArtifact represents a persisted suite run.
type RunArtifact struct {
	ID string

	EnvironmentName string
	Settings        Vars

	StartedAt time.Time
	EndedAt   time.Time

	Backends []BackendResult
}

// Failures counts failing scenarios across backends, including backends that could not start.
func (a RunArtifact) Failures() int {
	n := 0
	for _, b := range a.Backends {
		if b.Error != nil {
			n++
		}
		for _, s := range b.Scenarios {
			if s.Failed() {
				n++
			}
		}
	}
	return n
}

// RunRef is a lightweight reference to a persisted run.
type RunRef struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Env       string    `json:"env"`
	StartedAt time.Time `json:"started_at"`
	Failures  int       `json:"failures"`
}
