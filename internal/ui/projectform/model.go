package projectform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/api"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/theme"
)

// ProjectCreatedMsg is dispatched when a new project is submitted.
type ProjectCreatedMsg struct {
	Request api.ProjectRequest
}

// ProjectUpdatedMsg is dispatched when an edited project is submitted.
type ProjectUpdatedMsg struct {
	ProjectID string
	Request   api.ProjectRequest
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

const dateLayout = "2006-01-02"

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name        string
	description string
	startDate   string
	deadline    string
	productID   string
}

// Model is the project create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	products []model.Product
	theme    theme.Theme
	width    int
	height   int
}

// New creates the project form model.
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

// SetProducts sets the available products for the product selector.
func (m *Model) SetProducts(products []model.Product) {
	m.products = products
}

// StartCreate initializes the form for a new project. The start date
// defaults to today.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.fb.name = ""
	m.fb.description = ""
	m.fb.startDate = time.Now().Format(dateLayout)
	m.fb.deadline = ""
	m.fb.productID = ""
	if len(m.products) > 0 {
		m.fb.productID = m.products[0].ID
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing project's fields.
func (m *Model) StartEdit(project model.Project) tea.Cmd {
	m.editMode = true
	m.editID = project.ID
	m.fb.name = project.Name
	m.fb.description = project.Description
	m.fb.startDate = project.StartDate.Format(dateLayout)
	m.fb.deadline = project.Deadline.Format(dateLayout)
	m.fb.productID = project.Product.ID
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the project form.
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

// View renders the project form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Project"
	if m.editMode {
		titleText = "Edit Project"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()
	if m.deadlineBeforeStart() {
		// Non-blocking: the server accepts it, so submission proceeds.
		content += "\n" + m.theme.Error.Render("⚠ deadline is before the start date")
	}

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
	opts := make([]huh.Option[string], len(m.products))
	for i, p := range m.products {
		opts[i] = huh.NewOption(fmt.Sprintf("%s v%s", p.Name, p.Version), p.ID)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Batch 2026-Q3").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewText().
				Title("Description").
				Value(&m.fb.description).
				Validate(validateRequired("Description")),
			huh.NewSelect[string]().
				Title("Product").
				Options(opts...).
				Value(&m.fb.productID),
			huh.NewInput().
				Title("Start Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.startDate).
				Validate(validateDate),
			huh.NewInput().
				Title("Deadline").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.deadline).
				Validate(validateDate),
		),
	).WithWidth(m.formWidth())
}

// deadlineBeforeStart reports whether both dates parse and the deadline
// falls before the start date.
func (m Model) deadlineBeforeStart() bool {
	start, err := time.Parse(dateLayout, strings.TrimSpace(m.fb.startDate))
	if err != nil {
		return false
	}
	deadline, err := time.Parse(dateLayout, strings.TrimSpace(m.fb.deadline))
	if err != nil {
		return false
	}
	return deadline.Before(start)
}

func (m Model) handleSubmit() tea.Cmd {
	req := api.ProjectRequest{
		Name:        strings.TrimSpace(m.fb.name),
		Description: strings.TrimSpace(m.fb.description),
		StartDate:   strings.TrimSpace(m.fb.startDate),
		Deadline:    strings.TrimSpace(m.fb.deadline),
		ProductID:   m.fb.productID,
	}

	if m.editMode {
		id := m.editID
		return func() tea.Msg { return ProjectUpdatedMsg{ProjectID: id, Request: req} }
	}
	return func() tea.Msg { return ProjectCreatedMsg{Request: req} }
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

func validateDate(s string) error {
	if _, err := time.Parse(dateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
