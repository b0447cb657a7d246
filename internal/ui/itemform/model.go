package itemform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/api"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/theme"
)

// ItemCreatedMsg is dispatched when a new item is submitted.
type ItemCreatedMsg struct {
	Request api.ItemRequest
}

// StatusChangedMsg is dispatched when a new status is picked for an
// existing item.
type StatusChangedMsg struct {
	ItemID string
	Status model.Status
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formMode selects between the create form and the status picker.
type formMode int

const (
	modeCreate formMode = iota
	modeStatus
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	serialNumber string
	status       string
	projectID    string
}

// Model is the item create form and the quick status picker.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	mode     formMode
	itemID   string
	serial   string
	projects []model.Project
	theme    theme.Theme
	width    int
	height   int
}

// New creates the item form model.
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

// SetProjects sets the available projects for the project selector.
func (m *Model) SetProjects(projects []model.Project) {
	m.projects = projects
}

// StartCreate initializes the form for a new item. defaultProjectID
// preselects the project when the form is opened from a project's item
// list.
func (m *Model) StartCreate(defaultProjectID string) tea.Cmd {
	m.mode = modeCreate
	m.itemID = ""
	m.fb.serialNumber = ""
	m.fb.status = string(model.StatusPending)
	m.fb.projectID = defaultProjectID
	if m.fb.projectID == "" && len(m.projects) > 0 {
		m.fb.projectID = m.projects[0].ID
	}
	m.form = m.buildCreateForm()
	return m.form.Init()
}

// StartStatus initializes the quick status picker for an existing item.
func (m *Model) StartStatus(item model.Item) tea.Cmd {
	m.mode = modeStatus
	m.itemID = item.ID
	m.serial = item.SerialNumber
	m.fb.status = string(item.Status)
	m.form = m.buildStatusForm()
	return m.form.Init()
}

// Update handles messages for the item form.
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

// View renders the item form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Item"
	if m.mode == modeStatus {
		titleText = "Change Status — " + m.serial
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

func (m *Model) buildCreateForm() *huh.Form {
	projectOpts := make([]huh.Option[string], len(m.projects))
	for i, p := range m.projects {
		projectOpts[i] = huh.NewOption(p.Name, p.ID)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Serial Number").
				Placeholder("ACU-2026-0001").
				Value(&m.fb.serialNumber).
				Validate(validateRequired("Serial number")),
			huh.NewSelect[string]().
				Title("Project").
				Options(projectOpts...).
				Value(&m.fb.projectID),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions()...).
				Value(&m.fb.status),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildStatusForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions()...).
				Value(&m.fb.status),
		),
	).WithWidth(m.formWidth())
}

func statusOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(model.Statuses))
	for i, status := range model.Statuses {
		opts[i] = huh.NewOption(status.Label(), string(status))
	}
	return opts
}

func (m Model) handleSubmit() tea.Cmd {
	if m.mode == modeStatus {
		itemID := m.itemID
		status := model.Status(m.fb.status)
		return func() tea.Msg {
			return StatusChangedMsg{ItemID: itemID, Status: status}
		}
	}

	req := api.ItemRequest{
		SerialNumber: strings.TrimSpace(m.fb.serialNumber),
		Status:       m.fb.status,
		ProjectID:    m.fb.projectID,
	}
	return func() tea.Msg { return ItemCreatedMsg{Request: req} }
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
