package notifpanel

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/keys"
	"github.com/astrafab/prodtrack/internal/notify"
	"github.com/astrafab/prodtrack/internal/theme"
)

// CloseMsg is dispatched when the panel is dismissed.
type CloseMsg struct{}

// Model is the notification log panel.
type Model struct {
	log    *notify.Log
	keys   *keys.KeyMap
	theme  theme.Theme
	cursor int
	width  int
	height int
}

// New creates the notification panel.
func New(log *notify.Log, k *keys.KeyMap, th theme.Theme, width, height int) Model {
	return Model{
		log:    log,
		keys:   k,
		theme:  th,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetTheme swaps the active color theme.
func (m *Model) SetTheme(th theme.Theme) {
	m.theme = th
}

// Update handles messages for the notification panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	entries := m.log.All()
	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(entries)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Select):
		if m.cursor < len(entries) {
			m.log.MarkRead(context.Background(), entries[m.cursor].ID)
		}

	case keyMsg.String() == "a":
		m.log.MarkAllRead(context.Background())

	case keyMsg.String() == "C":
		m.log.Clear(context.Background())
		m.cursor = 0

	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }
	}
	return m, nil
}

// View renders the notification panel.
func (m Model) View() string {
	entries := m.log.All()

	title := "Notifications"
	if unread := m.log.UnreadCount(); unread > 0 {
		title = fmt.Sprintf("Notifications (%d unread)", unread)
	}
	lines := []string{m.theme.Accent.Render(title), ""}

	if len(entries) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("No notifications."))
	}

	timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	for i, n := range entries {
		marker := "●"
		if n.Read {
			marker = " "
		}
		line := fmt.Sprintf("%s %s %s  %s",
			m.theme.Accent.Render(marker),
			theme.SeverityStyle(n.Severity).Render(strings.ToUpper(string(n.Severity))),
			n.Title,
			timeStyle.Render(n.Timestamp.Format("Jan 02 15:04")),
		)
		if n.Message != "" && n.Message != n.Title {
			line += "\n" + lipgloss.NewStyle().
				PaddingLeft(4).
				Foreground(theme.ColorGray).
				Render(n.Message)
		}
		if i == m.cursor {
			line = m.theme.SelectedItem.Render(line)
		} else {
			line = m.theme.ListItem.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", m.theme.Help.Render("enter mark read | a mark all | C clear | esc close"))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
