package itemlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/api"
	"github.com/astrafab/prodtrack/internal/cache"
	"github.com/astrafab/prodtrack/internal/keys"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/theme"
)

// ItemsLoadedMsg is sent when the item list has been fetched.
type ItemsLoadedMsg struct {
	Items []model.Item
	Err   error
}

// DetailLoadedMsg is sent when a single item's expanded record arrives.
type DetailLoadedMsg struct {
	Detail   *model.ItemDetail
	NotFound bool
	Err      error
}

// Model is the item list view with status filtering, client-side
// pagination, and a detail pane.
type Model struct {
	client *api.Client
	cache  *cache.Cache
	keys   *keys.KeyMap
	theme  theme.Theme

	items       []model.Item
	statusIndex int // 0 = all, 1..len(Statuses) = filter
	projectID   string
	projectName string

	page     int
	pageSize int
	cursor   int

	detail         *model.ItemDetail
	detailNotFound bool
	showDetail     bool

	loadErr error
	width   int
	height  int
}

// New creates the item list view. pageSize comes from the display
// configuration.
func New(client *api.Client, c *cache.Cache, k *keys.KeyMap, th theme.Theme, pageSize, width, height int) Model {
	return Model{
		client:   client,
		cache:    c,
		keys:     k,
		theme:    th,
		pageSize: pageSize,
		width:    width,
		height:   height,
	}
}

// Init loads the item list.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// SetProjectFilter narrows the list to one project's items. An empty id
// clears the filter.
func (m *Model) SetProjectFilter(projectID, projectName string) {
	m.projectID = projectID
	m.projectName = projectName
	m.page = 0
	m.cursor = 0
}

// Load returns a command that fetches items through the query cache.
// The status filter applies on receipt so the cached list stays shared.
func (m Model) Load() tea.Cmd {
	client, qc := m.client, m.cache
	projectID := m.projectID
	return func() tea.Msg {
		var (
			items []model.Item
			err   error
		)
		if projectID != "" {
			items, err = cache.Fetch(context.Background(), qc, cache.ProjectItemsKey(projectID), func(ctx context.Context) ([]model.Item, error) {
				return client.ListProjectItems(ctx, projectID)
			})
		} else {
			items, err = cache.Fetch(context.Background(), qc, cache.KeyItems, func(ctx context.Context) ([]model.Item, error) {
				return client.ListItems(ctx, api.ItemFilter{})
			})
		}
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

// SetTheme swaps the active color theme.
func (m *Model) SetTheme(th theme.Theme) {
	m.theme = th
}

// SelectedItem returns the currently highlighted item.
func (m Model) SelectedItem() (model.Item, bool) {
	page := m.visiblePage()
	if m.cursor < 0 || m.cursor >= len(page) {
		return model.Item{}, false
	}
	return page[m.cursor], true
}

// FilterProjectID returns the active project filter, empty for "all".
func (m Model) FilterProjectID() string {
	return m.projectID
}

// InDetail reports whether the detail pane is open.
func (m Model) InDetail() bool {
	return m.showDetail
}

// CloseDetail returns to the list.
func (m *Model) CloseDetail() {
	m.showDetail = false
	m.detail = nil
	m.detailNotFound = false
}

// Update handles messages for the item list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ItemsLoadedMsg:
		if msg.Err != nil {
			m.loadErr = msg.Err
			return m, nil
		}
		m.loadErr = nil
		m.items = sortItems(msg.Items)
		m.clampCursor()
		return m, nil

	case DetailLoadedMsg:
		m.detail = msg.Detail
		m.detailNotFound = msg.NotFound
		if msg.Err != nil && !msg.NotFound {
			m.loadErr = msg.Err
			m.showDetail = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.showDetail {
			if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Select) {
				m.CloseDetail()
			}
			return m, nil
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visiblePage())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.page < pageCount(len(m.filtered()), m.pageSize)-1 {
			m.page++
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.page > 0 {
			m.page--
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.CycleFilter):
		m.statusIndex = (m.statusIndex + 1) % (len(model.Statuses) + 1)
		m.page = 0
		m.cursor = 0

	case key.Matches(msg, m.keys.Select):
		item, ok := m.SelectedItem()
		if !ok {
			return m, nil
		}
		m.showDetail = true
		m.detail = nil
		m.detailNotFound = false
		return m, m.loadDetail(item.ID)
	}
	return m, nil
}

// loadDetail fetches the expanded item record. A 404 means the item was
// deleted elsewhere; the pane shows a not-found state instead of an
// error.
func (m Model) loadDetail(itemID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		detail, err := client.GetItem(context.Background(), itemID)
		if err != nil {
			return DetailLoadedMsg{NotFound: api.IsNotFound(err), Err: err}
		}
		return DetailLoadedMsg{Detail: detail}
	}
}

// statusFilter returns the active status filter, nil for "all".
func (m Model) statusFilter() *model.Status {
	if m.statusIndex == 0 {
		return nil
	}
	status := model.Statuses[m.statusIndex-1]
	return &status
}

func (m Model) filtered() []model.Item {
	return filterByStatus(m.items, m.statusFilter())
}

func (m Model) visiblePage() []model.Item {
	return paginate(m.filtered(), m.page, m.pageSize)
}

func (m *Model) clampCursor() {
	page := m.visiblePage()
	if m.cursor >= len(page) {
		m.cursor = len(page) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// FilterSummary describes the active filters for the status bar.
func (m Model) FilterSummary() string {
	var parts []string
	if m.projectID != "" {
		parts = append(parts, "project: "+m.projectName)
	}
	if f := m.statusFilter(); f != nil {
		parts = append(parts, "status: "+f.Label())
	}
	return strings.Join(parts, " | ")
}

// View renders the item list or the detail pane.
func (m Model) View() string {
	if m.showDetail {
		return m.renderDetail()
	}

	if m.loadErr != nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(m.theme.Error.Render("Could not load items: " + m.loadErr.Error()))
	}

	filtered := m.filtered()
	if len(filtered) == 0 {
		text := "No items yet."
		if m.statusFilter() != nil || m.projectID != "" {
			text = "No matching items.\nPress f to change the status filter."
		}
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(text)
	}

	title := "Items"
	if m.projectID != "" {
		title = "Items — " + m.projectName
	}
	lines := []string{m.theme.Header.Render(title), ""}

	for i, item := range m.visiblePage() {
		badge := theme.StatusStyle(item.Status).Render(item.Status.Label())
		projectName := item.ProjectName
		if projectName == "" {
			projectName = item.Project.Name
		}
		line := fmt.Sprintf("%s  %s  %s", item.SerialNumber, badge,
			lipgloss.NewStyle().Foreground(theme.ColorGray).Render(projectName))
		if i == m.cursor {
			line = m.theme.SelectedItem.Render(line)
		} else {
			line = m.theme.ListItem.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", m.theme.Help.Render(fmt.Sprintf(
		"page %d/%d — %d items", m.page+1, pageCount(len(filtered), m.pageSize), len(filtered))))

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// renderDetail draws the expanded single-item pane.
func (m Model) renderDetail() string {
	if m.detailNotFound {
		return m.theme.Panel.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.theme.Error.Render("Item not found"),
			"",
			"It may have been deleted by another user.",
			m.theme.Help.Render("esc back to list"),
		))
	}
	if m.detail == nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Foreground(theme.ColorGray).
			Render("Loading item...")
	}

	d := m.detail
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(14)
	row := func(label, value string) string {
		return labelStyle.Render(label) + value
	}

	return m.theme.Panel.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Accent.Render(d.SerialNumber),
		"",
		row("Status", theme.StatusStyle(d.Status).Render(d.Status.Label())),
		row("Project", d.Project.Name),
		row("Product", fmt.Sprintf("%s v%s", d.Project.Product.Name, d.Project.Product.Version)),
		row("Created by", d.CreatedBy.Name),
		row("Created", d.CreatedAt.Format("Jan 02 2006 15:04")),
		row("Updated", d.UpdatedAt.Format("Jan 02 2006 15:04")),
		"",
		m.theme.Help.Render("esc back to list"),
	))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
