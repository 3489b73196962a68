package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type reportStyles struct {
	title lipgloss.Style
	pass  lipgloss.Style
	fail  lipgloss.Style
	skip  lipgloss.Style
	faint lipgloss.Style
}

func defaultStyles() reportStyles {
	return reportStyles{
		title: lipgloss.NewStyle().Bold(true),
		pass:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		skip:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		faint: lipgloss.NewStyle().Faint(true),
	}
}

func printRun(w io.Writer, run domain.RunArtifact, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		out := run
		out.Settings = domain.NewSettings(run.EnvironmentName, run.Settings).Masked("********")
		return enc.Encode(out)
	case "pretty", "":
		printPrettyRun(w, run, defaultStyles())
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

// resultLine renders one scenario result on a single line.
func resultLine(r domain.ScenarioResult, st reportStyles) string {
	mark := st.pass.Render("PASS")
	switch {
	case r.Skipped:
		mark = st.skip.Render("SKIP")
	case r.Failed():
		mark = st.fail.Render("FAIL")
	}
	d := r.EndedAt.Sub(r.StartedAt)
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		d = 0
	}
	return fmt.Sprintf("%s %02d %s %s", mark, r.Order, r.DisplayName(), st.faint.Render(d.Round(time.Millisecond).String()))
}

func printPrettyRun(w io.Writer, run domain.RunArtifact, st reportStyles) {
	total := run.EndedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Env:        %s\n", run.EnvironmentName)
	fmt.Fprintf(w, "Started:    %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration:   %s\n", total.Round(time.Millisecond))
	if run.ID != "" {
		fmt.Fprintf(w, "Run ID:     %s\n", run.ID)
	}
	fmt.Fprintln(w)

	for _, b := range run.Backends {
		fmt.Fprintln(w, st.title.Render(string(b.Backend)))
		if b.Error != nil {
			fmt.Fprintf(w, "  %s backend did not start: %s (%s)\n", st.fail.Render("FAIL"), b.Error.Message, b.Error.Kind)
			fmt.Fprintln(w)
			continue
		}

		pass, fail, skip := 0, 0, 0
		for _, r := range b.Scenarios {
			switch {
			case r.Skipped:
				skip++
			case r.Failed():
				fail++
			default:
				pass++
			}

			fmt.Fprintf(w, "  %s\n", resultLine(r, st))
			if !r.Failed() {
				continue
			}
			if r.Error != nil {
				fmt.Fprintf(w, "      error: %s (%s)\n", r.Error.Message, r.Error.Kind)
			}
			for _, a := range r.Assertions {
				if !a.Passed {
					fmt.Fprintf(w, "      %s %s: %s\n", st.fail.Render("x"), a.Name, a.Message)
				}
			}
			if r.TracePath != "" {
				fmt.Fprintf(w, "      trace: %s\n", st.faint.Render(r.TracePath))
			}
		}
		fmt.Fprintf(w, "  %d passed, %d failed, %d skipped\n\n", pass, fail, skip)
	}
}
