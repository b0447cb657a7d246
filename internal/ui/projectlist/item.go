package projectlist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/theme"
)

// projectItem wraps a model.Project so it can be used in a bubbles/list.
type projectItem struct {
	Project model.Project
}

// FilterValue returns the string used for fuzzy filtering.
func (i projectItem) FilterValue() string { return i.Project.Name }

// delegate renders project rows with a deadline badge.
type delegate struct {
	theme theme.Theme
}

func newDelegate(th theme.Theme) delegate {
	return delegate{theme: th}
}

// Height returns the number of lines each item takes.
func (d delegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d delegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single project line.
func (d delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(projectItem)
	if !ok {
		return
	}
	project := pi.Project

	product := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(project.Product.Name)

	deadline := project.Deadline.Format("Jan 02")
	badge := deadlineBadge(project)

	itemCount := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("%d items", len(project.Items)))

	line := fmt.Sprintf("%s  %s  %s %s  %s", project.Name, product, deadline, badge, itemCount)

	if index == m.Index() {
		line = d.theme.SelectedItem.Render(line)
	} else {
		line = d.theme.ListItem.Render(line)
	}

	fmt.Fprint(w, line)
}

// deadlineBadge renders the overdue / due-soon indicator for a project.
func deadlineBadge(project model.Project) string {
	state := project.DeadlineStateAt(time.Now())
	style := theme.DeadlineStyle(state)

	switch state {
	case model.DeadlineOverdue:
		return style.Render("OVERDUE")
	case model.DeadlineDueSoon:
		return style.Render("DUE SOON")
	default:
		return style.Render("on track")
	}
}
