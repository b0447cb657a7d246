package productlist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/theme"
)

// productItem wraps a model.Product so it can be used in a bubbles/list.
type productItem struct {
	Product model.Product
}

// FilterValue returns the string used for fuzzy filtering.
func (i productItem) FilterValue() string { return i.Product.Name }

// delegate renders product rows.
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

// Render draws a single product line.
func (d delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(productItem)
	if !ok {
		return
	}
	product := pi.Product

	versionBadge := d.theme.Accent.Render("v" + product.Version)
	price := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("$%.2f", product.Price))

	projectCount := ""
	if n := len(product.Projects); n > 0 {
		projectCount = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(fmt.Sprintf("  %d projects", n))
	}

	line := fmt.Sprintf("%s %s  %s%s", product.Name, versionBadge, price, projectCount)

	if index == m.Index() {
		line = d.theme.SelectedItem.Render(line)
	} else {
		line = d.theme.ListItem.Render(line)
	}

	fmt.Fprint(w, line)
}
