package tui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/scenario"
)

// listenRunner delivers the next message from the running suite.
func listenRunner(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return runnerDoneMsg{err: errors.New("runner channel closed")}
		}
		return msg
	}
}

// startRunAsync runs picked in the background. Results stream through the
// returned channel as scenarioDoneMsg and end with one runnerDoneMsg.
func startRunAsync(ctx context.Context, deps Deps, picked []scenario.Scenario) (chan tea.Msg, tea.Cmd) {
	ch := make(chan tea.Msg, len(picked)*max(len(deps.Backends), 1)+1)

	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	go func() {
		defer close(ch)

		if deps.Run == nil {
			ch <- runnerDoneMsg{err: errors.New("no runner configured")}
			return
		}

		log.Info("tui.run.start", "env", deps.Env, "scenarios", len(picked))
		run, err := deps.Run(ctx, picked, func(r domain.ScenarioResult) {
			ch <- scenarioDoneMsg{res: r}
		})
		if err != nil {
			log.Error("tui.run.failed", "err", err)
		} else {
			log.Info("tui.run.ok", "id", run.ID, "failures", run.Failures())
		}
		ch <- runnerDoneMsg{run: run, err: err}
	}()

	return ch, listenRunner(ch)
}
