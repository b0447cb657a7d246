package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/astrafab/prodtrack/internal/api"
	"github.com/astrafab/prodtrack/internal/cache"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/permission"
	"github.com/astrafab/prodtrack/internal/ui/dashboard"
	"github.com/astrafab/prodtrack/internal/ui/itemlist"
	"github.com/astrafab/prodtrack/internal/ui/login"
	"github.com/astrafab/prodtrack/internal/ui/productlist"
	"github.com/astrafab/prodtrack/internal/ui/projectlist"
)

// loginResultMsg carries the outcome of a login attempt.
type loginResultMsg struct {
	resp *api.LoginResponse
	err  error
}

// registerResultMsg carries the outcome of a registration attempt.
type registerResultMsg struct {
	resp *api.RegisterResponse
	err  error
}

// mutationDoneMsg reports a completed write operation. On success the
// mutation's invalidation set is applied and the current view reloads.
type mutationDoneMsg struct {
	mutation cache.Mutation
	target   cache.Target
	toast    string
	notFound bool
	err      error
}

// formOptionsMsg delivers the selector data a form needs before it can
// open.
type formOptionsMsg struct {
	forView  ViewState
	products []model.Product
	projects []model.Project
	edit     bool
	err      error
}

const permissionDeniedToast = "Your role does not permit this action."

// doLogin exchanges credentials for a token.
func (m Model) doLogin(email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		resp, err := client.Login(context.Background(), api.LoginRequest{
			Email:    email,
			Password: password,
		})
		return loginResultMsg{resp: resp, err: err}
	}
}

// doRegister creates an account. The user still signs in afterwards.
func (m Model) doRegister(msg login.RegisterSubmitMsg) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		resp, err := client.Register(context.Background(), api.RegisterRequest{
			Name:     msg.Name,
			Email:    msg.Email,
			Password: msg.Password,
			Role:     string(msg.Role),
		})
		return registerResultMsg{resp: resp, err: err}
	}
}

// handleLoginResult establishes the session and enters the dashboard.
func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.loginView.SetError(errorText(msg.err))
	}

	if err := m.session.Establish(context.Background(), msg.resp.Token, msg.resp.User); err != nil {
		m.log.Error().Err(err).Msg("could not persist session")
		return m, m.loginView.SetError("Could not store credentials: " + err.Error())
	}

	m.cache.InvalidateAll()
	m.currentView = ViewDashboard
	m.channel = m.newChannel()
	return m, m.startSession()
}

// expireSession drops the dead token and returns to the login view.
func (m Model) expireSession() (tea.Model, tea.Cmd) {
	m.log.Info().Msg("session expired, returning to login")
	if err := m.session.Clear(context.Background()); err != nil {
		m.log.Warn().Err(err).Msg("could not clear session")
	}
	return m.toLogin("Your session has expired. Sign in again.")
}

// logout clears the session on user request.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if err := m.session.Clear(context.Background()); err != nil {
		m.log.Warn().Err(err).Msg("could not clear session")
	}
	return m.toLogin("")
}

func (m Model) toLogin(notice string) (tea.Model, tea.Cmd) {
	if m.channel != nil {
		m.channel.Close()
		m.channel = nil
	}
	m.cache.InvalidateAll()
	m.currentView = ViewLogin

	cmd := m.loginView.Init()
	if notice != "" {
		cmd = m.loginView.SetError(notice)
	}
	return m, cmd
}

// startCreate opens the create form for the current view, gated by the
// role's permissions.
func (m Model) startCreate() (tea.Model, tea.Cmd) {
	role := m.session.Role()

	switch m.currentView {
	case ViewProducts:
		if !permission.CanCreateProducts(role) {
			m.toast = permissionDeniedToast
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewProductForm
		return m, m.productFormView.StartCreate()

	case ViewProjects:
		if !permission.CanCreateProjects(role) {
			m.toast = permissionDeniedToast
			return m, nil
		}
		return m, m.loadFormOptions(ViewProjectForm, false)

	case ViewItems:
		if !permission.CanCreateItems(role) {
			m.toast = permissionDeniedToast
			return m, nil
		}
		return m, m.loadFormOptions(ViewItemForm, false)
	}
	return m, nil
}

// startEdit opens the edit form for the selected entity.
func (m Model) startEdit() (tea.Model, tea.Cmd) {
	role := m.session.Role()

	switch m.currentView {
	case ViewProducts:
		if !permission.CanEditProducts(role) {
			m.toast = permissionDeniedToast
			return m, nil
		}
		product, ok := m.productListView.SelectedProduct()
		if !ok {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewProductForm
		return m, m.productFormView.StartEdit(product)

	case ViewProjects:
		if !permission.CanEditProjects(role) {
			m.toast = permissionDeniedToast
			return m, nil
		}
		if _, ok := m.projectListView.SelectedProject(); !ok {
			return m, nil
		}
		return m, m.loadFormOptions(ViewProjectForm, true)
	}
	return m, nil
}

// deleteSelected deletes the selected entity after a permission check.
func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	role := m.session.Role()

	switch m.currentView {
	case ViewProducts:
		if !permission.CanDeleteProducts(role) {
			m.toast = permissionDeniedToast
			return m, nil
		}
		product, ok := m.productListView.SelectedProduct()
		if !ok {
			return m, nil
		}
		return m, m.deleteProduct(product)

	case ViewProjects:
		if !permission.CanDeleteProjects(role) {
			m.toast = permissionDeniedToast
			return m, nil
		}
		project, ok := m.projectListView.SelectedProject()
		if !ok {
			return m, nil
		}
		return m, m.deleteProject(project)

	case ViewItems:
		if !permission.CanDeleteItems(role) {
			m.toast = permissionDeniedToast
			return m, nil
		}
		item, ok := m.itemListView.SelectedItem()
		if !ok {
			return m, nil
		}
		return m, m.deleteItem(item)
	}
	return m, nil
}

// startStatusChange opens the status picker for the selected item.
func (m Model) startStatusChange() (tea.Model, tea.Cmd) {
	if m.currentView != ViewItems {
		return m, nil
	}
	if !permission.CanEditItems(m.session.Role()) {
		m.toast = permissionDeniedToast
		return m, nil
	}
	item, ok := m.itemListView.SelectedItem()
	if !ok {
		return m, nil
	}
	m.previousView = m.currentView
	m.currentView = ViewItemForm
	return m, m.itemFormView.StartStatus(item)
}

// loadFormOptions fetches the selector data for the project and item
// forms before opening them.
func (m Model) loadFormOptions(forView ViewState, edit bool) tea.Cmd {
	client, qc := m.client, m.cache
	return func() tea.Msg {
		msg := formOptionsMsg{forView: forView, edit: edit}
		if forView == ViewProjectForm {
			msg.products, msg.err = cache.Fetch(context.Background(), qc, cache.KeyProducts, client.ListProducts)
		} else {
			msg.projects, msg.err = cache.Fetch(context.Background(), qc, cache.KeyProjects, client.ListProjects)
		}
		return msg
	}
}

// handleFormOptions opens the form once its selector data is in.
func (m Model) handleFormOptions(msg formOptionsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.toast = "Could not load form data: " + errorText(msg.err)
		return m, nil
	}

	m.previousView = m.currentView

	if msg.forView == ViewProjectForm {
		m.projectFormView.SetProducts(msg.products)
		m.currentView = ViewProjectForm
		if msg.edit {
			project, ok := m.projectListView.SelectedProject()
			if !ok {
				m.currentView = m.previousView
				return m, nil
			}
			return m, m.projectFormView.StartEdit(project)
		}
		if len(msg.products) == 0 {
			m.currentView = m.previousView
			m.toast = "Create a product before adding projects."
			return m, nil
		}
		return m, m.projectFormView.StartCreate()
	}

	m.itemFormView.SetProjects(msg.projects)
	m.currentView = ViewItemForm
	if len(msg.projects) == 0 {
		m.currentView = m.previousView
		m.toast = "Create a project before adding items."
		return m, nil
	}
	return m, m.itemFormView.StartCreate(m.itemListView.FilterProjectID())
}

func (m Model) createProduct(req api.ProductRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		product, err := client.CreateProduct(context.Background(), req)
		msg := mutationDoneMsg{mutation: cache.MutationProductCreate, toast: "Product created.", err: err}
		if product != nil {
			msg.target.ProductID = product.ID
		}
		return msg
	}
}

func (m Model) updateProduct(id string, req api.ProductRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.UpdateProduct(context.Background(), id, req)
		return mutationDoneMsg{
			mutation: cache.MutationProductUpdate,
			target:   cache.Target{ProductID: id},
			toast:    "Product updated.",
			notFound: api.IsNotFound(err),
			err:      err,
		}
	}
}

func (m Model) deleteProduct(product model.Product) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteProduct(context.Background(), product.ID)
		return mutationDoneMsg{
			mutation: cache.MutationProductDelete,
			target:   cache.Target{ProductID: product.ID},
			toast:    "Deleted product " + product.Name + ".",
			notFound: api.IsNotFound(err),
			err:      err,
		}
	}
}

func (m Model) createProject(req api.ProjectRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		project, err := client.CreateProject(context.Background(), req)
		msg := mutationDoneMsg{mutation: cache.MutationProjectCreate, toast: "Project created.", err: err}
		if project != nil {
			msg.target.ProjectID = project.ID
			msg.target.ProductID = req.ProductID
		}
		return msg
	}
}

func (m Model) updateProject(id string, req api.ProjectRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.UpdateProject(context.Background(), id, req)
		return mutationDoneMsg{
			mutation: cache.MutationProjectUpdate,
			target:   cache.Target{ProjectID: id, ProductID: req.ProductID},
			toast:    "Project updated.",
			notFound: api.IsNotFound(err),
			err:      err,
		}
	}
}

func (m Model) deleteProject(project model.Project) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteProject(context.Background(), project.ID)
		return mutationDoneMsg{
			mutation: cache.MutationProjectDelete,
			target:   cache.Target{ProjectID: project.ID, ProductID: project.Product.ID},
			toast:    "Deleted project " + project.Name + ".",
			notFound: api.IsNotFound(err),
			err:      err,
		}
	}
}

func (m Model) createItem(req api.ItemRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		item, err := client.CreateItem(context.Background(), req)
		msg := mutationDoneMsg{
			mutation: cache.MutationItemCreate,
			target:   cache.Target{ProjectID: req.ProjectID},
			toast:    "Item registered.",
			err:      err,
		}
		if item != nil {
			msg.target.ItemID = item.ID
		}
		return msg
	}
}

func (m Model) changeItemStatus(itemID string, status model.Status) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.UpdateItemStatus(context.Background(), itemID, status)
		return mutationDoneMsg{
			mutation: cache.MutationItemStatusChange,
			target:   cache.Target{ItemID: itemID},
			toast:    "Status changed to " + status.Label() + ".",
			notFound: api.IsNotFound(err),
			err:      err,
		}
	}
}

func (m Model) deleteItem(item model.Item) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteItem(context.Background(), item.ID)
		return mutationDoneMsg{
			mutation: cache.MutationItemDelete,
			target:   cache.Target{ItemID: item.ID, ProjectID: item.ProjectID},
			toast:    "Deleted item " + item.SerialNumber + ".",
			notFound: api.IsNotFound(err),
			err:      err,
		}
	}
}

// handleMutationDone applies cache invalidation and reloads the active
// view after a write completes.
func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m.expireSession()
		}
		if msg.notFound {
			// The entity vanished under us; refetch so the lists agree
			// with the server again.
			m.cache.ApplyMutation(msg.mutation, msg.target)
			m.toast = "Not found — it may have been deleted by another user."
			return m, m.reloadListViews()
		}
		m.log.Warn().Err(msg.err).Str("mutation", string(msg.mutation)).Msg("mutation failed")
		m.toast = errorText(msg.err)
		return m, nil
	}

	m.cache.ApplyMutation(msg.mutation, msg.target)
	m.toast = msg.toast
	return m, m.reloadListViews()
}

// reloadListViews refetches the queries the visible view depends on.
func (m Model) reloadListViews() tea.Cmd {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.Load()
	case ViewProducts:
		return m.productListView.Load()
	case ViewProjects:
		return m.projectListView.Load()
	case ViewItems:
		return m.itemListView.Load()
	}
	return nil
}

// loadError extracts the fetch error, if any, from a view's loaded
// message.
func loadError(msg tea.Msg) error {
	switch msg := msg.(type) {
	case productlist.ProductsLoadedMsg:
		return msg.Err
	case projectlist.ProjectsLoadedMsg:
		return msg.Err
	case itemlist.ItemsLoadedMsg:
		return msg.Err
	case dashboard.StatsLoadedMsg:
		return msg.Err
	}
	return nil
}
