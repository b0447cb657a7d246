package projectlist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/api"
	"github.com/astrafab/prodtrack/internal/cache"
	"github.com/astrafab/prodtrack/internal/keys"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/theme"
)

// ProjectsLoadedMsg is sent when the project list has been fetched.
type ProjectsLoadedMsg struct {
	Projects []model.Project
	Err      error
}

// SelectedProjectMsg is sent when the user opens a project, navigating
// to its item list.
type SelectedProjectMsg struct {
	ProjectID   string
	ProjectName string
}

// Model is the project list view. An optional product filter narrows it
// to one product's projects when navigated from the product list.
type Model struct {
	list        list.Model
	client      *api.Client
	cache       *cache.Cache
	keys        *keys.KeyMap
	theme       theme.Theme
	productID   string
	productName string
	loadErr     error
	width       int
	height      int
}

// New creates the project list view.
func New(client *api.Client, c *cache.Cache, k *keys.KeyMap, th theme.Theme, width, height int) Model {
	l := list.New([]list.Item{}, newDelegate(th), width, height-2)
	l.Title = "Projects"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = th.Header

	return Model{
		list:   l,
		client: client,
		cache:  c,
		keys:   k,
		theme:  th,
		width:  width,
		height: height,
	}
}

// Init loads the project list.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// SetProductFilter narrows the list to one product's projects. An empty
// id clears the filter.
func (m *Model) SetProductFilter(productID, productName string) {
	m.productID = productID
	m.productName = productName
	if productID == "" {
		m.list.Title = "Projects"
	} else {
		m.list.Title = "Projects — " + productName
	}
}

// Load returns a command that fetches projects through the query cache.
// The full list is always fetched; the product filter is applied on
// receipt so the cached value stays shared across views.
func (m Model) Load() tea.Cmd {
	client, qc := m.client, m.cache
	productID := m.productID
	return func() tea.Msg {
		projects, err := cache.Fetch(context.Background(), qc, cache.KeyProjects, client.ListProjects)
		if err != nil {
			return ProjectsLoadedMsg{Err: err}
		}
		if productID != "" {
			filtered := make([]model.Project, 0, len(projects))
			for _, p := range projects {
				if p.Product.ID == productID {
					filtered = append(filtered, p)
				}
			}
			projects = filtered
		}
		return ProjectsLoadedMsg{Projects: projects}
	}
}

// SetTheme swaps the active color theme.
func (m *Model) SetTheme(th theme.Theme) {
	m.theme = th
	m.list.SetDelegate(newDelegate(th))
	m.list.Styles.Title = th.Header
}

// SelectedProject returns the currently highlighted project.
func (m Model) SelectedProject() (model.Project, bool) {
	item, ok := m.list.SelectedItem().(projectItem)
	if !ok {
		return model.Project{}, false
	}
	return item.Project, true
}

// Update handles messages for the project list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProjectsLoadedMsg:
		if msg.Err != nil {
			m.loadErr = msg.Err
			return m, nil
		}
		m.loadErr = nil
		items := make([]list.Item, len(msg.Projects))
		for i, project := range msg.Projects {
			items[i] = projectItem{Project: project}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Select) {
			item, ok := m.list.SelectedItem().(projectItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedProjectMsg{
					ProjectID:   item.Project.ID,
					ProjectName: item.Project.Name,
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the project list view.
func (m Model) View() string {
	if m.loadErr != nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(m.theme.Error.Render("Could not load projects: " + m.loadErr.Error()))
	}

	if len(m.list.Items()) == 0 {
		text := "No projects yet."
		if m.productID != "" {
			text = "No projects for this product yet."
		}
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(text)
	}

	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
