// Package watch is the live dashboard behind `tw status --watch`.
//
// It polls the recorded guard events and re-renders; there is no push
// channel because recording processes are short-lived hook children.
package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xcawolfe-amzn/tripwire/internal/metrics"
	"github.com/xcawolfe-amzn/tripwire/internal/style"
)

const (
	pollInterval = 2 * time.Second
	maxEvents    = 200
)

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Quit}}
}

// Model is the bubbletea model for the guard-event dashboard.
type Model struct {
	recorder *metrics.Recorder
	events   []metrics.Event
	loadErr  error

	viewport viewport.Model
	keys     KeyMap
	help     help.Model
	width    int
	height   int
	ready    bool
}

// NewModel creates a dashboard reading from the given recorder.
func NewModel(recorder *metrics.Recorder) *Model {
	return &Model{
		recorder: recorder,
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
}

// tickMsg triggers the next poll.
type tickMsg time.Time

// eventsMsg carries a freshly loaded event list.
type eventsMsg struct {
	events []metrics.Event
	err    error
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) loadEvents() tea.Cmd {
	recorder := m.recorder
	return func() tea.Msg {
		events, err := recorder.Recent(maxEvents)
		return eventsMsg{events: events, err: err}
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadEvents(),
		tick(),
		tea.SetWindowTitle("tw watch"),
	)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 2
		footerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.viewport.SetContent(m.renderEvents())

	case tickMsg:
		return m, tea.Batch(m.loadEvents(), tick())

	case eventsMsg:
		m.events = msg.events
		m.loadErr = msg.err
		atBottom := m.viewport.AtBottom()
		m.viewport.SetContent(m.renderEvents())
		if atBottom {
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := style.Bold.Render("Guard events") +
		style.Dim.Render(fmt.Sprintf("  %s", m.recorder.Path()))

	return header + "\n\n" + m.viewport.View() + "\n" + m.help.View(m.keys)
}

func (m *Model) renderEvents() string {
	if m.loadErr != nil {
		return style.Error.Render(fmt.Sprintf("reading events: %v", m.loadErr))
	}
	if len(m.events) == 0 {
		return style.Dim.Render("(no guard events recorded)")
	}

	var sb strings.Builder
	for _, ev := range m.events {
		outcome := style.Warning.Render(ev.Outcome)
		if ev.Outcome == "blocked" {
			outcome = style.Error.Render(ev.Outcome)
		}
		sb.WriteString(fmt.Sprintf("%s  %s  %-16s %-16s %s\n",
			style.Dim.Render(ev.Time.Local().Format("15:04:05")),
			outcome,
			ev.HookType,
			style.Dim.Render(ev.Rule),
			truncate(ev.Command, m.width-50)))
	}
	return sb.String()
}

func truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// Run starts the dashboard and blocks until the user quits.
func Run(recorder *metrics.Recorder) error {
	p := tea.NewProgram(NewModel(recorder), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
