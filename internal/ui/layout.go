package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/theme"
)

// Layout manages the terminal layout dimensions. Styles come from the
// active theme, which the user can change at runtime.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with a title on the left and
// session info (user, role, connection state) on the right.
func (l Layout) RenderHeader(th theme.Theme, title string, session string) string {
	titleRendered := th.Header.Render(title)

	sessionRendered := th.Header.
		Align(lipgloss.Right).
		Render(session)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(sessionRendered)
	if gap < 0 {
		gap = 0
	}

	filler := th.Header.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(th.Header.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		sessionRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(th theme.Theme, hints string) string {
	rendered := th.StatusBar.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := th.StatusBar.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(th.StatusBar.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
