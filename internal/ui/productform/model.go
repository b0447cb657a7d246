package productform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/api"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/theme"
)

// ProductCreatedMsg is dispatched when a new product is submitted.
type ProductCreatedMsg struct {
	Request api.ProductRequest
}

// ProductUpdatedMsg is dispatched when an edited product is submitted.
type ProductUpdatedMsg struct {
	ProductID string
	Request   api.ProductRequest
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name        string
	version     string
	description string
	price       string
}

// Model is the product create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	theme    theme.Theme
	width    int
	height   int
}

// New creates the product form model.
func New(th theme.Theme, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		theme:  th,
		width:  width,
		height: height,
	}
}

// SetTheme swaps the active color theme.
func (m *Model) SetTheme(th theme.Theme) {
	m.theme = th
}

// StartCreate initializes the form for a new product.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.fb.name = ""
	m.fb.version = "1.0.0"
	m.fb.description = ""
	m.fb.price = "0"
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing product's fields.
func (m *Model) StartEdit(product model.Product) tea.Cmd {
	m.editMode = true
	m.editID = product.ID
	m.fb.name = product.Name
	m.fb.version = product.Version
	m.fb.description = product.Description
	m.fb.price = strconv.FormatFloat(product.Price, 'f', -1, 64)
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the product form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the product form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Product"
	if m.editMode {
		titleText = "Edit Product"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Avionics Control Unit").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Version").
				Placeholder("1.0.0").
				Value(&m.fb.version).
				Validate(validateRequired("Version")),
			huh.NewText().
				Title("Description").
				Value(&m.fb.description).
				Validate(validateRequired("Description")),
			huh.NewInput().
				Title("Unit Price").
				Placeholder("12500.00").
				Value(&m.fb.price).
				Validate(validatePrice),
		),
	).WithWidth(m.formWidth())
}

func (m Model) handleSubmit() tea.Cmd {
	price, _ := strconv.ParseFloat(strings.TrimSpace(m.fb.price), 64)
	req := api.ProductRequest{
		Name:        strings.TrimSpace(m.fb.name),
		Version:     strings.TrimSpace(m.fb.version),
		Description: strings.TrimSpace(m.fb.description),
		Price:       price,
	}

	if m.editMode {
		id := m.editID
		return func() tea.Msg { return ProductUpdatedMsg{ProductID: id, Request: req} }
	}
	return func() tea.Msg { return ProductCreatedMsg{Request: req} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validatePrice(s string) error {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("price must be a number")
	}
	if price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}
