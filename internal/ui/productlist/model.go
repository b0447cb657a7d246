package productlist

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

// ProductsLoadedMsg is sent when the product list has been fetched.
type ProductsLoadedMsg struct {
	Products []model.Product
	Err      error
}

// SelectedProductMsg is sent when the user opens a product.
type SelectedProductMsg struct {
	ProductID string
}

// Model is the product list view.
type Model struct {
	list    list.Model
	client  *api.Client
	cache   *cache.Cache
	keys    *keys.KeyMap
	theme   theme.Theme
	loadErr error
	width   int
	height  int
}

// New creates the product list view.
func New(client *api.Client, c *cache.Cache, k *keys.KeyMap, th theme.Theme, width, height int) Model {
	l := list.New([]list.Item{}, newDelegate(th), width, height-2)
	l.Title = "Products"
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

// Init loads the product list.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load returns a command that fetches products through the query cache.
func (m Model) Load() tea.Cmd {
	client, qc := m.client, m.cache
	return func() tea.Msg {
		products, err := cache.Fetch(context.Background(), qc, cache.KeyProducts, client.ListProducts)
		return ProductsLoadedMsg{Products: products, Err: err}
	}
}

// SetTheme swaps the active color theme.
func (m *Model) SetTheme(th theme.Theme) {
	m.theme = th
	m.list.SetDelegate(newDelegate(th))
	m.list.Styles.Title = th.Header
}

// SelectedProduct returns the currently highlighted product.
func (m Model) SelectedProduct() (model.Product, bool) {
	item, ok := m.list.SelectedItem().(productItem)
	if !ok {
		return model.Product{}, false
	}
	return item.Product, true
}

// Update handles messages for the product list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProductsLoadedMsg:
		if msg.Err != nil {
			m.loadErr = msg.Err
			return m, nil
		}
		m.loadErr = nil
		items := make([]list.Item, len(msg.Products))
		for i, product := range msg.Products {
			items[i] = productItem{Product: product}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Select) {
			item, ok := m.list.SelectedItem().(productItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedProductMsg{ProductID: item.Product.ID}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the product list view.
func (m Model) View() string {
	if m.loadErr != nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(m.theme.Error.Render("Could not load products: " + m.loadErr.Error()))
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No products yet.")
	}

	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
