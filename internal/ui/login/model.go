package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/permission"
	"github.com/astrafab/prodtrack/internal/theme"
)

// LoginSubmitMsg is dispatched when the sign-in form is submitted.
type LoginSubmitMsg struct {
	Email    string
	Password string
}

// RegisterSubmitMsg is dispatched when the registration form is submitted.
type RegisterSubmitMsg struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// mode selects which of the two forms is active.
type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name     string
	email    string
	password string
	role     string
}

// Model is the authentication view shown before a session exists.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	mode    mode
	errText string
	busy    bool
	theme   theme.Theme
	width   int
	height  int
}

// New creates the login view in sign-in mode.
func New(th theme.Theme, width, height int) Model {
	m := Model{
		fb:     &formBindings{role: string(model.RoleEngineer)},
		theme:  th,
		width:  width,
		height: height,
	}
	m.form = m.buildLoginForm()
	return m
}

// Init starts the active form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetTheme swaps the active color theme.
func (m *Model) SetTheme(th theme.Theme) {
	m.theme = th
}

// SetError shows a failure message and reopens the form with the
// previously entered email so the user can retry.
func (m *Model) SetError(text string) tea.Cmd {
	m.errText = text
	m.busy = false
	m.fb.password = ""
	if m.mode == modeLogin {
		m.form = m.buildLoginForm()
	} else {
		m.form = m.buildRegisterForm()
	}
	return m.form.Init()
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+n" {
		// Toggle between sign-in and registration.
		m.errText = ""
		if m.mode == modeLogin {
			m.mode = modeRegister
			m.form = m.buildRegisterForm()
		} else {
			m.mode = modeLogin
			m.form = m.buildLoginForm()
		}
		return m, m.form.Init()
	}

	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the active form with a title and a mode-toggle hint.
func (m Model) View() string {
	titleText := "Sign In"
	hint := "ctrl+n create an account | esc quit"
	if m.mode == modeRegister {
		titleText = "Create Account"
		hint = "ctrl+n back to sign in | esc quit"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections := []string{titleStyle.Render(titleText)}
	if m.errText != "" {
		sections = append(sections, m.theme.Error.Render(m.errText))
	}
	if m.busy {
		sections = append(sections, m.theme.Help.Render("Signing in..."))
	} else {
		sections = append(sections, m.form.View())
	}
	sections = append(sections, m.theme.Help.Render(hint))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@company.com").
				Value(&m.fb.email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildRegisterForm() *huh.Form {
	roleOpts := make([]huh.Option[string], len(model.Roles))
	for i, r := range model.Roles {
		roleOpts[i] = huh.NewOption(permission.RoleDisplayName(r), string(r))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full Name").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Email").
				Placeholder("you@company.com").
				Value(&m.fb.email).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
			huh.NewSelect[string]().
				Title("Role").
				Options(roleOpts...).
				Value(&m.fb.role),
		),
	).WithWidth(m.formWidth())
}

func (m Model) handleSubmit() tea.Cmd {
	fb := *m.fb
	if m.mode == modeRegister {
		return func() tea.Msg {
			return RegisterSubmitMsg{
				Name:     strings.TrimSpace(fb.name),
				Email:    strings.TrimSpace(fb.email),
				Password: fb.password,
				Role:     model.Role(fb.role),
			}
		}
	}
	return func() tea.Msg {
		return LoginSubmitMsg{
			Email:    strings.TrimSpace(fb.email),
			Password: fb.password,
		}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
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

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
