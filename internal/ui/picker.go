package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mholliday/wrench/internal/errors"
)

// ServerInfo describes a configured server for display in the picker.
type ServerInfo struct {
	Name    string // Server name from config (e.g., "web")
	Target  string // user@host:port
	Default bool   // True if this is the configured default
}

// serverItem implements list.Item for the Bubbles list component.
type serverItem struct {
	server ServerInfo
}

func (i serverItem) Title() string {
	if i.server.Default {
		return i.server.Name + " (default)"
	}
	return i.server.Name
}

func (i serverItem) Description() string {
	return i.server.Target
}

func (i serverItem) FilterValue() string {
	return strings.Join([]string{i.server.Name, i.server.Target}, " ")
}

// ServerPickerModel is a Bubble Tea model for selecting a server.
type ServerPickerModel struct {
	list     list.Model
	servers  []ServerInfo
	selected *ServerInfo
	quitting bool
}

type serverPickerKeyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

var serverPickerKeys = serverPickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewServerPickerModel creates a new server picker model.
func NewServerPickerModel(servers []ServerInfo) ServerPickerModel {
	items := make([]list.Item, len(servers))
	for i, s := range servers {
		items[i] = serverItem{server: s}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color(string(ColorPrimary))).
		BorderForeground(lipgloss.Color(string(ColorSecondary)))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color(string(ColorMuted)))

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select a server"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color(string(ColorPrimary))).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorMuted)))

	return ServerPickerModel{
		list:    l,
		servers: servers,
	}
}

// Init implements tea.Model.
func (m ServerPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ServerPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, serverPickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(serverItem); ok {
				m.selected = &item.server
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, serverPickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ServerPickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the selected server, or nil if cancelled.
func (m ServerPickerModel) Selected() *ServerInfo {
	return m.selected
}

// PickServer displays an interactive server picker and returns the
// selection. Returns nil if the user cancels (ESC/q/Ctrl+C).
func PickServer(servers []ServerInfo) (*ServerInfo, error) {
	return PickServerWithOutput(servers, os.Stdout, os.Stdin)
}

// PickServerWithOutput displays the server picker using custom I/O.
func PickServerWithOutput(servers []ServerInfo, output io.Writer, input io.Reader) (*ServerInfo, error) {
	if len(servers) == 0 {
		return nil, errors.New(errors.ErrConfig, "No servers to pick from", "Run 'wrench init' to set one up.")
	}

	if len(servers) == 1 {
		return &servers[0], nil
	}

	model := NewServerPickerModel(servers)

	p := tea.NewProgram(
		model,
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Server picker failed", "Use --host to specify the server directly.")
	}

	if m, ok := finalModel.(ServerPickerModel); ok {
		return m.Selected(), nil
	}

	return nil, nil
}

// IsTerminal returns true if the file is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
