package scenario

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/stretchr/testify/assert"
)

// Checker records named assertions. It evaluates them with testify and
// keeps going after a mismatch so every check of a scenario is reported.
type Checker struct {
	mu      sync.Mutex
	results []domain.AssertionResult
}

func NewChecker() *Checker { return &Checker{} }

// recorder satisfies assert.TestingT for a single named check.
type recorder struct {
	msgs []string
}

func (r *recorder) Errorf(format string, args ...any) {
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}

var _ assert.TestingT = (*recorder)(nil)

// That evaluates fn against a fresh recorder and stores the outcome under name.
func (c *Checker) That(name string, fn func(t assert.TestingT) bool) bool {
	r := &recorder{}
	ok := fn(r)

	res := domain.AssertionResult{Name: name, Passed: ok}
	if !ok {
		res.Message = condense(strings.Join(r.msgs, "\n"))
	}

	c.mu.Lock()
	c.results = append(c.results, res)
	c.mu.Unlock()
	return ok
}

func (c *Checker) Equal(name string, expected, actual any) bool {
	return c.That(name, func(t assert.TestingT) bool { return assert.Equal(t, expected, actual) })
}

func (c *Checker) NotEqual(name string, unexpected, actual any) bool {
	return c.That(name, func(t assert.TestingT) bool { return assert.NotEqual(t, unexpected, actual) })
}

func (c *Checker) True(name string, v bool) bool {
	return c.That(name, func(t assert.TestingT) bool { return assert.True(t, v) })
}

func (c *Checker) False(name string, v bool) bool {
	return c.That(name, func(t assert.TestingT) bool { return assert.False(t, v) })
}

func (c *Checker) Empty(name string, v any) bool {
	return c.That(name, func(t assert.TestingT) bool { return assert.Empty(t, v) })
}

func (c *Checker) NotEmpty(name string, v any) bool {
	return c.That(name, func(t assert.TestingT) bool { return assert.NotEmpty(t, v) })
}

func (c *Checker) Contains(name string, s, sub any) bool {
	return c.That(name, func(t assert.TestingT) bool { return assert.Contains(t, s, sub) })
}

func (c *Checker) Regexp(name string, rx any, s string) bool {
	return c.That(name, func(t assert.TestingT) bool { return assert.Regexp(t, rx, s) })
}

// Results returns the recorded assertions in evaluation order.
func (c *Checker) Results() []domain.AssertionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.AssertionResult(nil), c.results...)
}

// Err returns an assertion_mismatch error for the first failed check, or nil.
func (c *Checker) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.results {
		if !r.Passed {
			return &domain.OpError{
				Op:   "scenario.assert",
				Kind: domain.KindAssertionMismatch,
				Path: r.Name,
				Err:  fmt.Errorf("%s: %w", r.Message, domain.ErrAssertionMismatch),
			}
		}
	}
	return nil
}

// condense keeps the "Error:" block of a testify failure and drops the
// caller trace, which points into this package rather than at the page.
func condense(msg string) string {
	lines := strings.Split(msg, "\n")
	var out []string
	inErr := false
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		switch {
		case strings.HasPrefix(trimmed, "Error:"):
			inErr = true
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "Error:"))
		case strings.HasPrefix(trimmed, "Error Trace:"), strings.HasPrefix(trimmed, "Test:"), strings.HasPrefix(trimmed, "Messages:"):
			inErr = false
			continue
		}
		if inErr && trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return strings.TrimSpace(msg)
	}
	return strings.Join(out, " ")
}
