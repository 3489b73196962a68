package tui

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicNotice = "Unexpected error (see logs)"

// guarded keeps the program alive when the model panics: the panic is logged,
// any suite in flight is cancelled and the picker comes back.
type guarded struct {
	inner model
	log   *slog.Logger
}

func guard(m model, log *slog.Logger) guarded {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return guarded{inner: m, log: log}
}

func (g guarded) logPanic(where string, r any) {
	g.log.Error("tui.panic", "where", where, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
}

func (g guarded) Init() tea.Cmd { return g.inner.Init() }

func (g guarded) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		g.logPanic("update", r)
		if g.inner.running && g.inner.cancel != nil {
			g.inner.cancel()
		}
		g.inner.running = false
		g.inner.scr = screenPick
		g.inner.toast = panicNotice
		next, cmd = g, nil
	}()

	updated, c := g.inner.Update(msg)
	switch v := updated.(type) {
	case model:
		g.inner = v
	case guarded:
		g = v
	}
	return g, c
}

func (g guarded) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			g.logPanic("view", r)
			out = panicNotice
		}
	}()
	return g.inner.View()
}

var _ tea.Model = guarded{}
