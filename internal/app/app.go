package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/astrafab/prodtrack/internal/api"
	"github.com/astrafab/prodtrack/internal/cache"
	"github.com/astrafab/prodtrack/internal/keys"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/notify"
	"github.com/astrafab/prodtrack/internal/permission"
	"github.com/astrafab/prodtrack/internal/push"
	"github.com/astrafab/prodtrack/internal/session"
	"github.com/astrafab/prodtrack/internal/store"
	"github.com/astrafab/prodtrack/internal/theme"
	"github.com/astrafab/prodtrack/internal/ui"
	"github.com/astrafab/prodtrack/internal/ui/dashboard"
	"github.com/astrafab/prodtrack/internal/ui/helpview"
	"github.com/astrafab/prodtrack/internal/ui/itemform"
	"github.com/astrafab/prodtrack/internal/ui/itemlist"
	"github.com/astrafab/prodtrack/internal/ui/login"
	"github.com/astrafab/prodtrack/internal/ui/notifpanel"
	"github.com/astrafab/prodtrack/internal/ui/productform"
	"github.com/astrafab/prodtrack/internal/ui/productlist"
	"github.com/astrafab/prodtrack/internal/ui/projectform"
	"github.com/astrafab/prodtrack/internal/ui/projectlist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewProducts
	ViewProjects
	ViewItems
	ViewProductForm
	ViewProjectForm
	ViewItemForm
	ViewNotifications
	ViewHelp
)

// Deps bundles the long-lived components the root model wires together.
type Deps struct {
	Config     *model.AppConfig
	ConfigPath string
	Client     *api.Client
	Cache      *cache.Cache
	Session    *session.Session
	Store      *store.SQLiteStore
	Log        zerolog.Logger
}

// Model is the root Bubble Tea model that manages view routing, layout,
// the session, the query cache, and the push channel.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	cfg       *model.AppConfig
	cfgPath   string
	client    *api.Client
	cache     *cache.Cache
	session   *session.Session
	store     *store.SQLiteStore
	notifLog  *notify.Log
	channel   *push.Channel
	keys      *keys.KeyMap
	theme     theme.Theme
	schemeIdx int
	log       zerolog.Logger

	loginView       login.Model
	dashboardView   dashboard.Model
	productListView productlist.Model
	productFormView productform.Model
	projectListView projectlist.Model
	projectFormView projectform.Model
	itemListView    itemlist.Model
	itemFormView    itemform.Model
	notifPanelView  notifpanel.Model
	helpView        helpview.Model

	ready bool
	toast string
}

// New creates the root application model.
func New(deps Deps) Model {
	k := keys.DefaultKeyMap()

	schemeIdx := 0
	for i, s := range theme.Schemes {
		if s.Name == deps.Config.Display.ColorScheme {
			schemeIdx = i
			break
		}
	}
	th := theme.New(theme.Schemes[schemeIdx])

	m := Model{
		cfg:       deps.Config,
		cfgPath:   deps.ConfigPath,
		client:    deps.Client,
		cache:     deps.Cache,
		session:   deps.Session,
		store:     deps.Store,
		notifLog:  notify.NewLog(deps.Store, deps.Log),
		keys:      k,
		theme:     th,
		schemeIdx: schemeIdx,
		log:       deps.Log,

		loginView:       login.New(th, 80, 24),
		dashboardView:   dashboard.New(deps.Client, deps.Cache, th, 80, 24),
		productListView: productlist.New(deps.Client, deps.Cache, k, th, 80, 24),
		productFormView: productform.New(th, 80, 24),
		projectListView: projectlist.New(deps.Client, deps.Cache, k, th, 80, 24),
		projectFormView: projectform.New(th, 80, 24),
		itemListView:    itemlist.New(deps.Client, deps.Cache, k, th, deps.Config.Display.PageSize, 80, 24),
		itemFormView:    itemform.New(th, 80, 24),
		helpView:        helpview.New(k, th, 80, 24),
	}
	m.notifPanelView = notifpanel.New(m.notifLog, k, th, 80, 24)

	if deps.Session.Authenticated() {
		m.currentView = ViewDashboard
		m.channel = m.newChannel()
	} else {
		m.currentView = ViewLogin
	}
	return m
}

// Init starts the session when one was restored, or shows the login
// form.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}
	return m.startSession()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// A load that failed with 401 means the stored token is dead;
	// drop the session and return to login.
	if err := loadError(msg); err != nil && api.IsAuthError(err) {
		return m.expireSession()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.setSizes()
		return m.updateActiveView(msg)

	case login.LoginSubmitMsg:
		return m, m.doLogin(msg.Email, msg.Password)

	case login.RegisterSubmitMsg:
		return m, m.doRegister(msg)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case registerResultMsg:
		if msg.err != nil {
			return m, m.loginView.SetError(errorText(msg.err))
		}
		return m, m.loginView.SetError("Account created. Sign in to continue.")

	case sessionStartedMsg:
		return m, tea.Batch(
			m.dashboardView.Load(),
			m.waitForNotification(),
		)

	case notificationMsg:
		return m.handleNotification(msg)

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case productlist.SelectedProductMsg:
		m.previousView = m.currentView
		m.currentView = ViewProjects
		product, _ := m.productListView.SelectedProduct()
		m.projectListView.SetProductFilter(msg.ProductID, product.Name)
		return m, m.projectListView.Load()

	case projectlist.SelectedProjectMsg:
		m.previousView = m.currentView
		m.currentView = ViewItems
		m.itemListView.SetProjectFilter(msg.ProjectID, msg.ProjectName)
		return m, m.itemListView.Load()

	case productform.ProductCreatedMsg:
		m.currentView = ViewProducts
		return m, m.createProduct(msg.Request)

	case productform.ProductUpdatedMsg:
		m.currentView = ViewProducts
		return m, m.updateProduct(msg.ProductID, msg.Request)

	case productform.CancelMsg:
		m.currentView = ViewProducts
		return m, nil

	case projectform.ProjectCreatedMsg:
		m.currentView = ViewProjects
		return m, m.createProject(msg.Request)

	case projectform.ProjectUpdatedMsg:
		m.currentView = ViewProjects
		return m, m.updateProject(msg.ProjectID, msg.Request)

	case projectform.CancelMsg:
		m.currentView = ViewProjects
		return m, nil

	case itemform.ItemCreatedMsg:
		m.currentView = ViewItems
		return m, m.createItem(msg.Request)

	case itemform.StatusChangedMsg:
		m.currentView = ViewItems
		return m, m.changeItemStatus(msg.ItemID, msg.Status)

	case itemform.CancelMsg:
		m.currentView = ViewItems
		return m, nil

	case formOptionsMsg:
		return m.handleFormOptions(msg)

	case notifpanel.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

// handleKey processes global keys, then delegates to the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.toast = ""

	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// Forms and the login view own the keyboard while active.
	switch m.currentView {
	case ViewLogin, ViewProductForm, ViewProjectForm, ViewItemForm:
		return m.updateActiveView(msg)
	}

	switch msg.String() {
	case "q":
		// In the item detail pane q falls through to the view.
		if m.currentView != ViewItems || !m.itemListView.InDetail() {
			return m.quit()
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case "1":
		m.currentView = ViewDashboard
		return m, m.dashboardView.Load()

	case "2":
		m.currentView = ViewProducts
		return m, m.productListView.Load()

	case "3":
		m.currentView = ViewProjects
		m.projectListView.SetProductFilter("", "")
		return m, m.projectListView.Load()

	case "4":
		m.currentView = ViewItems
		m.itemListView.SetProjectFilter("", "")
		return m, m.itemListView.Load()

	case "N":
		if m.currentView != ViewNotifications {
			m.previousView = m.currentView
			m.currentView = ViewNotifications
		}
		return m, nil

	case "r":
		return m.refreshCurrentView()

	case "t":
		return m.cycleScheme()

	case "L":
		return m.logout()

	case "n":
		return m.startCreate()

	case "e":
		return m.startEdit()

	case "x":
		return m.deleteSelected()

	case "s":
		return m.startStatusChange()

	case "esc":
		return m.handleBack(msg)
	}

	return m.updateActiveView(msg)
}

// handleBack pops one navigation level.
func (m Model) handleBack(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewHelp, ViewNotifications:
		m.currentView = m.previousView
		return m, nil
	case ViewItems:
		if m.itemListView.InDetail() {
			return m.updateActiveView(msg)
		}
		m.itemListView.SetProjectFilter("", "")
		m.currentView = ViewProjects
		return m, m.projectListView.Load()
	case ViewProjects:
		m.projectListView.SetProductFilter("", "")
		m.currentView = ViewProducts
		return m, nil
	case ViewProducts:
		m.currentView = ViewDashboard
		return m, nil
	}
	return m.updateActiveView(msg)
}

// refreshCurrentView forces a refetch of the active view's queries.
func (m Model) refreshCurrentView() (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewDashboard:
		m.cache.Invalidate(cache.KeyStats, cache.KeyCharts, cache.KeyRecentActivity)
		return m, m.dashboardView.Load()
	case ViewProducts:
		m.cache.Invalidate(cache.KeyProducts)
		return m, m.productListView.Load()
	case ViewProjects:
		m.cache.Invalidate(cache.KeyProjects)
		return m, m.projectListView.Load()
	case ViewItems:
		m.cache.InvalidateAll()
		return m, m.itemListView.Load()
	}
	return m, nil
}

// cycleScheme advances to the next color scheme and persists the
// choice.
func (m Model) cycleScheme() (tea.Model, tea.Cmd) {
	m.schemeIdx = (m.schemeIdx + 1) % len(theme.Schemes)
	scheme := theme.Schemes[m.schemeIdx]
	m.theme = theme.New(scheme)

	m.loginView.SetTheme(m.theme)
	m.dashboardView.SetTheme(m.theme)
	m.productListView.SetTheme(m.theme)
	m.productFormView.SetTheme(m.theme)
	m.projectListView.SetTheme(m.theme)
	m.projectFormView.SetTheme(m.theme)
	m.itemListView.SetTheme(m.theme)
	m.itemFormView.SetTheme(m.theme)
	m.notifPanelView.SetTheme(m.theme)
	m.helpView.SetTheme(m.theme)

	m.cfg.Display.ColorScheme = scheme.Name
	if err := model.SaveConfig(m.cfgPath, m.cfg); err != nil {
		m.log.Warn().Err(err).Msg("could not persist color scheme")
	}
	m.toast = "Color scheme: " + scheme.Label
	return m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ViewProducts:
		m.productListView, cmd = m.productListView.Update(msg)
	case ViewProjects:
		m.projectListView, cmd = m.projectListView.Update(msg)
	case ViewItems:
		m.itemListView, cmd = m.itemListView.Update(msg)
	case ViewProductForm:
		m.productFormView, cmd = m.productFormView.Update(msg)
	case ViewProjectForm:
		m.projectFormView, cmd = m.projectFormView.Update(msg)
	case ViewItemForm:
		m.itemFormView, cmd = m.itemFormView.Update(msg)
	case ViewNotifications:
		m.notifPanelView, cmd = m.notifPanelView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.loginView.View()
	}

	header := m.layout.RenderHeader(m.theme, m.headerTitle(), m.sessionStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.theme, m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) headerTitle() string {
	title := "ProdTrack"
	if unread := m.notifLog.UnreadCount(); unread > 0 {
		title = fmt.Sprintf("ProdTrack [%d new]", unread)
	}
	return title
}

// sessionStatus describes the user and the push-channel state for the
// header's right side.
func (m Model) sessionStatus() string {
	user := m.session.User()
	if user == nil {
		return ""
	}

	conn := "offline"
	if m.channel != nil && m.channel.Connected() {
		conn = "live"
	}
	return fmt.Sprintf("%s · %s · %s", user.Name, permission.RoleDisplayName(user.Role), conn)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewProducts:
		return m.productListView.View()
	case ViewProjects:
		return m.projectListView.View()
	case ViewItems:
		return m.itemListView.View()
	case ViewProductForm:
		return m.productFormView.View()
	case ViewProjectForm:
		return m.projectFormView.View()
	case ViewItemForm:
		return m.itemFormView.View()
	case ViewNotifications:
		return m.notifPanelView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.toast != "" {
		return m.toast
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewNotifications:
		return "enter mark read | a mark all | C clear | esc back"
	case ViewProductForm, ViewProjectForm, ViewItemForm:
		return "enter submit | esc cancel"
	case ViewDashboard:
		return "1-4 views | N notifications | r refresh | t theme | ? help | q quit"
	case ViewItems:
		hints := "f filter | h/l page | s status | n new | x delete | esc back"
		if summary := m.itemListView.FilterSummary(); summary != "" {
			return summary + " | " + hints
		}
		return hints
	default:
		return "enter open | n new | e edit | x delete | r refresh | ? help | q quit"
	}
}

func (m *Model) setSizes() {
	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()
	m.loginView.SetSize(w, h)
	m.dashboardView.SetSize(w, h)
	m.productListView.SetSize(w, h)
	m.productFormView.SetSize(w, h)
	m.projectListView.SetSize(w, h)
	m.projectFormView.SetSize(w, h)
	m.itemListView.SetSize(w, h)
	m.itemFormView.SetSize(w, h)
	m.notifPanelView.SetSize(w, h)
	m.helpView.SetSize(w, h)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.channel != nil {
		m.channel.Close()
	}
	return m, tea.Quit
}

// errorText turns an API error into a short status-line message.
func errorText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
