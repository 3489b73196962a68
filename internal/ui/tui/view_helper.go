package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
)

// clampString cuts s to maxLen runes, marking the cut with an ellipsis.
func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "…"
}

func statusLabel(r domain.ScenarioResult, t Theme) string {
	switch {
	case r.Skipped:
		return t.Skip.Render("SKIP")
	case r.Failed():
		return t.Fail.Render("FAIL")
	default:
		return t.Pass.Render("PASS")
	}
}

func elapsed(r domain.ScenarioResult) time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt).Round(time.Millisecond)
}

func renderResultLine(r domain.ScenarioResult, t Theme, width int) string {
	name := fmt.Sprintf("[%s] %02d %s", r.Backend, r.Order, r.DisplayName())
	if width > 20 {
		name = clampString(name, width-20)
	}
	return fmt.Sprintf("%s %s %s", statusLabel(r, t), name, t.Help.Render(elapsed(r).String()))
}

// renderResultDetails lists what went wrong in one scenario and where its trace is.
func renderResultDetails(r domain.ScenarioResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s on %s\n", r.DisplayName(), r.Backend)
	if r.Error != nil {
		fmt.Fprintf(&b, "\n%s: %s\n", r.Error.Kind, r.Error.Message)
	}

	if len(r.Assertions) > 0 {
		b.WriteString("\n")
		for _, a := range r.Assertions {
			mark := "✗"
			if a.Passed {
				mark = "✓"
			}
			fmt.Fprintf(&b, "%s %s", mark, a.Name)
			if a.Message != "" {
				fmt.Fprintf(&b, ": %s", a.Message)
			}
			b.WriteString("\n")
		}
	}

	if r.TracePath != "" {
		fmt.Fprintf(&b, "\ntrace %s\n", r.TracePath)
	}
	return b.String()
}
