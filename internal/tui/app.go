// Package tui provides a terminal user interface for the hbnb shell
package tui

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/n1rna/hbnb-cli/internal/console"
	"github.com/n1rna/hbnb-cli/internal/models"
)

// Rows taken by everything except the transcript.
const chromeHeight = 5

// Model represents the TUI application state
type Model struct {
	shell *console.Shell

	input      textinput.Model
	transcript viewport.Model
	lines      []string

	// history holds submitted lines, oldest first. historyPos indexes the
	// entry being recalled and equals len(history) when editing a new line.
	history    []string
	historyPos int

	width  int
	height int
	ready  bool
}

// NewModel creates a new TUI model around a shell on store
func NewModel(store console.Store) Model {
	input := textinput.New()
	input.Prompt = console.Prompt
	input.PromptStyle = promptStyle
	input.Placeholder = "help"
	input.Focus()

	return Model{
		shell: console.NewShell(store, &bytes.Buffer{}),
		input: input,
	}
}

// Init returns the initial command
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		height := max(msg.Height-chromeHeight, 1)
		if !m.ready {
			m.transcript = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.transcript.Width = msg.Width
			m.transcript.Height = height
		}
		m.input.Width = max(msg.Width-len(console.Prompt)-1, 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit

		case "enter":
			line := m.input.Value()
			m.input.Reset()
			if quit := m.execute(line); quit {
				return m, tea.Quit
			}
			return m, nil

		case "up":
			m.recall(-1)
			return m, nil

		case "down":
			m.recall(1)
			return m, nil

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// execute runs line through the shell and appends the exchange to the
// transcript. It reports whether the shell asked to stop.
func (m *Model) execute(line string) bool {
	var out bytes.Buffer
	m.shell.SetOutput(&out)
	quit := m.shell.Execute(line)

	m.lines = append(m.lines, promptStyle.Render(console.Prompt)+line)
	if text := strings.TrimRight(out.String(), "\n"); text != "" {
		for _, l := range strings.Split(text, "\n") {
			if strings.HasPrefix(l, "**") {
				l = errorStyle.Render(l)
			}
			m.lines = append(m.lines, l)
		}
	}

	if strings.TrimSpace(line) != "" {
		m.history = append(m.history, line)
	}
	m.historyPos = len(m.history)
	m.refresh()
	return quit
}

// recall moves through history by delta, restoring an empty line past the end
func (m *Model) recall(delta int) {
	if len(m.history) == 0 {
		return
	}
	pos := m.historyPos + delta
	if pos < 0 || pos > len(m.history) {
		return
	}
	m.historyPos = pos
	if pos == len(m.history) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[pos])
	m.input.CursorEnd()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.transcript.SetContent(strings.Join(m.lines, "\n"))
	m.transcript.GotoBottom()
}

// View renders the transcript, the input line and the footer
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.transcript.View(),
		m.input.View(),
		m.footerView(),
	)
}

// headerView renders the application header
func (m Model) headerView() string {
	title := titleStyle.Render("hbnb console")
	kinds := subtitleStyle.Render(strings.Join(models.Kinds(), " · "))
	return lipgloss.JoinVertical(lipgloss.Left, title, kinds)
}

// footerView renders the application footer with help
func (m Model) footerView() string {
	return helpStyle.Render("enter: run • ↑/↓: history • pgup/pgdown: scroll • ctrl+d: quit")
}

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
