package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/ISmeneger/webform-e2e/internal/scenario"
)

type screen int

const (
	screenPick screen = iota
	screenRunning
	screenResults
)

type scenarioItem struct {
	s      scenario.Scenario
	picked bool
}

func (i scenarioItem) Title() string {
	box := "[ ]"
	if i.picked {
		box = "[x]"
	}
	return fmt.Sprintf("%s %02d %s", box, i.s.Order, i.s.Key())
}

func (i scenarioItem) Description() string {
	if i.s.Brittle {
		return "asserts on external content"
	}
	return ""
}

func (i scenarioItem) FilterValue() string { return i.s.Key() }

type model struct {
	theme Theme
	deps  Deps

	scr    screen
	menu   list.Model
	picked map[string]bool

	running bool
	runCh   chan tea.Msg
	cancel  context.CancelFunc
	results []domain.ScenarioResult
	run     domain.RunArtifact
	cursor  int

	toast         string
	width, height int
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(guard(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Scenarios"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := model{
		theme:  DefaultTheme(),
		deps:   deps,
		scr:    screenPick,
		menu:   l,
		picked: map[string]bool{},
	}
	m.menu.SetItems(m.items())
	return m
}

func (m model) items() []list.Item {
	out := make([]list.Item, 0, len(m.deps.Scenarios))
	for _, s := range m.deps.Scenarios {
		out = append(out, scenarioItem{s: s, picked: m.picked[s.Key()]})
	}
	return out
}

// selection is the picked scenarios in catalog order, or the whole catalog when none are picked.
func (m model) selection() []scenario.Scenario {
	var out []scenario.Scenario
	for _, s := range m.deps.Scenarios {
		if m.picked[s.Key()] {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return append([]scenario.Scenario(nil), m.deps.Scenarios...)
	}
	return out
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case scenarioDoneMsg:
		m.results = append(m.results, msg.res)
		return m, listenRunner(m.runCh)

	case runnerDoneMsg:
		m.running = false
		m.run = msg.run
		m.scr = screenResults
		m.cursor = 0
		switch {
		case msg.err != nil:
			m.toast = userMessage(msg.err)
		case msg.run.Failures() > 0:
			m.toast = fmt.Sprintf("%d failing scenario(s)", msg.run.Failures())
		default:
			m.toast = fmt.Sprintf("All %d scenario run(s) passed", len(m.results))
		}
		if len(m.results) == 0 {
			m.results = flatten(msg.run)
		}
		return m, nil

	case tea.KeyMsg:
		if m.scr == screenPick && m.menu.FilterState() == list.Filtering {
			break
		}
		return m.handleKey(msg)
	}

	if m.scr == screenPick {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	switch m.scr {
	case screenPick:
		switch key {
		case "q":
			return m, tea.Quit
		case " ":
			it, ok := m.menu.SelectedItem().(scenarioItem)
			if !ok {
				return m, nil
			}
			k := it.s.Key()
			m.picked[k] = !m.picked[k]
			return m, m.menu.SetItems(m.items())
		case "a":
			all := !m.allPicked()
			m.picked = map[string]bool{}
			if all {
				for _, s := range m.deps.Scenarios {
					m.picked[s.Key()] = true
				}
			}
			return m, m.menu.SetItems(m.items())
		case "enter":
			return m.startRun()
		}

	case screenRunning:
		if key == "esc" && m.cancel != nil {
			m.cancel()
			m.toast = "Cancelling…"
		}
		return m, nil

	case screenResults:
		switch key {
		case "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
		case "esc", "b":
			m.scr = screenPick
			m.toast = ""
		case "r":
			return m.startRun()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m model) allPicked() bool {
	for _, s := range m.deps.Scenarios {
		if !m.picked[s.Key()] {
			return false
		}
	}
	return len(m.deps.Scenarios) > 0
}

func (m model) startRun() (tea.Model, tea.Cmd) {
	picked := m.selection()
	if len(picked) == 0 {
		m.toast = "No scenarios to run"
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, cmd := startRunAsync(ctx, m.deps, picked)

	m.cancel = cancel
	m.runCh = ch
	m.running = true
	m.results = nil
	m.run = domain.RunArtifact{}
	m.scr = screenRunning
	m.toast = fmt.Sprintf("Running %d scenario(s) on %d backend(s)…", len(picked), max(len(m.deps.Backends), 1))
	return m, cmd
}

func flatten(run domain.RunArtifact) []domain.ScenarioResult {
	var out []domain.ScenarioResult
	for _, b := range run.Backends {
		out = append(out, b.Scenarios...)
	}
	return out
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)

	backends := make([]string, 0, len(m.deps.Backends))
	for _, b := range m.deps.Backends {
		backends = append(backends, string(b))
	}
	header := m.theme.Title.Render("webform") + "\n" +
		m.theme.Subtitle.Render(fmt.Sprintf("env=%s  backends=%s  workspace=%s",
			m.deps.Env, strings.Join(backends, ","), m.deps.Root)) + "\n"

	footer := ""
	if m.toast != "" {
		footer = "\n" + m.theme.Subtitle.Render(m.toast)
	}

	switch m.scr {
	case screenPick:
		help := m.theme.Help.Render("↑/↓ navigate • space pick • a pick all/none • enter run • / search • q quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(m.menu.View()) + "\n" + help + footer)

	case screenRunning:
		var b strings.Builder
		for _, r := range m.results {
			b.WriteString(renderResultLine(r, m.theme, m.width))
			b.WriteString("\n")
		}
		if len(m.results) == 0 {
			b.WriteString(m.theme.Help.Render("starting browsers…"))
		}
		help := m.theme.Help.Render("esc cancel • ctrl+c quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(strings.TrimRight(b.String(), "\n")) + "\n" + help + footer)

	case screenResults:
		var b strings.Builder
		for i, r := range m.results {
			prefix := "  "
			if i == m.cursor {
				prefix = "> "
			}
			b.WriteString(prefix)
			b.WriteString(renderResultLine(r, m.theme, m.width))
			b.WriteString("\n")
		}
		for _, br := range m.run.Backends {
			if br.Error != nil {
				b.WriteString(m.theme.Fail.Render(fmt.Sprintf("%s did not start: %s", br.Backend, br.Error.Message)))
				b.WriteString("\n")
			}
		}
		details := ""
		if m.cursor < len(m.results) {
			details = "\n" + m.theme.Card.Render(strings.TrimRight(renderResultDetails(m.results[m.cursor]), "\n"))
		}
		help := m.theme.Help.Render("↑/↓ select • r run again • esc/b back • q quit")
		return wrap.Render(header + "\n" + m.theme.Card.Render(strings.TrimRight(b.String(), "\n")) + details + "\n" + help + footer)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
