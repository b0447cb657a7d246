package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/api"
	"github.com/astrafab/prodtrack/internal/cache"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/theme"
)

// StatsLoadedMsg carries the dashboard headline numbers.
type StatsLoadedMsg struct {
	Stats *api.Stats
	Err   error
}

// ChartsLoadedMsg carries the chart series.
type ChartsLoadedMsg struct {
	Charts *api.ChartData
	Err    error
}

// ActivityLoadedMsg carries the recent-activity feed.
type ActivityLoadedMsg struct {
	Activity []api.Activity
	Err      error
}

// maxBarWidth bounds the rendered chart bars.
const maxBarWidth = 30

// Model is the dashboard view: stat cards, status and per-project
// charts, and the recent-activity feed.
type Model struct {
	client   *api.Client
	cache    *cache.Cache
	theme    theme.Theme
	stats    *api.Stats
	charts   *api.ChartData
	activity []api.Activity
	loadErr  error
	loading  bool
	width    int
	height   int
}

// New creates the dashboard view.
func New(client *api.Client, c *cache.Cache, th theme.Theme, width, height int) Model {
	return Model{
		client: client,
		cache:  c,
		theme:  th,
		width:  width,
		height: height,
	}
}

// Init loads all dashboard data.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load returns commands that fetch stats, charts, and activity through
// the query cache. Each fetch reuses a fresh cached value when one
// exists.
func (m Model) Load() tea.Cmd {
	client, qc := m.client, m.cache
	return tea.Batch(
		func() tea.Msg {
			stats, err := cache.Fetch(context.Background(), qc, cache.KeyStats, client.GetStats)
			return StatsLoadedMsg{Stats: stats, Err: err}
		},
		func() tea.Msg {
			charts, err := cache.Fetch(context.Background(), qc, cache.KeyCharts, client.GetChartData)
			return ChartsLoadedMsg{Charts: charts, Err: err}
		},
		func() tea.Msg {
			activity, err := cache.Fetch(context.Background(), qc, cache.KeyRecentActivity, client.GetRecentActivity)
			return ActivityLoadedMsg{Activity: activity, Err: err}
		},
	)
}

// SetTheme swaps the active color theme.
func (m *Model) SetTheme(th theme.Theme) {
	m.theme = th
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.loadErr = msg.Err
			return m, nil
		}
		m.loadErr = nil
		m.stats = msg.Stats

	case ChartsLoadedMsg:
		if msg.Err == nil {
			m.charts = msg.Charts
		}

	case ActivityLoadedMsg:
		if msg.Err == nil {
			m.activity = msg.Activity
		}
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.loadErr != nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(m.theme.Error.Render("Could not load dashboard: " + m.loadErr.Error()))
	}
	if m.stats == nil {
		return lipgloss.NewStyle().
			Padding(1, 2).
			Foreground(theme.ColorGray).
			Render("Loading dashboard...")
	}

	sections := []string{
		m.renderStatCards(),
		m.renderStatusChart(),
		m.renderProjectChart(),
		m.renderActivity(),
	}
	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// renderStatCards draws the four headline cards in a row.
func (m Model) renderStatCards() string {
	cards := []struct {
		label string
		value string
	}{
		{"Total Projects", fmt.Sprintf("%d", m.stats.TotalProjects)},
		{"Active Items", fmt.Sprintf("%d", m.stats.ActiveItems)},
		{"Completed Items", fmt.Sprintf("%d", m.stats.CompletedItems)},
		{"Production Rate", fmt.Sprintf("%d%%", m.stats.ProductionRate)},
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	rendered := make([]string, len(cards))
	for i, card := range cards {
		rendered[i] = m.theme.Panel.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.theme.Accent.Render(card.value),
			labelStyle.Render(card.label),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderStatusChart draws the status-distribution bar chart.
func (m Model) renderStatusChart() string {
	if m.charts == nil {
		return ""
	}

	lines := []string{m.theme.Accent.Render("Items by Status")}
	max := maxValue(m.charts.StatusDistribution)
	for _, point := range m.charts.StatusDistribution {
		status := model.Status(point.Name)
		bar := renderBar(point.Value, max, theme.StatusStyle(status))
		lines = append(lines, fmt.Sprintf("%-12s %s %d", status.Label(), bar, point.Value))
	}
	return "\n" + strings.Join(lines, "\n")
}

// renderProjectChart draws the items-per-project bar chart.
func (m Model) renderProjectChart() string {
	if m.charts == nil || len(m.charts.ItemsPerProject) == 0 {
		return ""
	}

	lines := []string{m.theme.Accent.Render("Items per Project")}
	max := maxValue(m.charts.ItemsPerProject)
	for _, point := range m.charts.ItemsPerProject {
		bar := renderBar(point.Value, max, m.theme.Accent)
		lines = append(lines, fmt.Sprintf("%-20s %s %d", truncate(point.Name, 20), bar, point.Value))
	}
	return "\n" + strings.Join(lines, "\n")
}

// renderActivity draws the recent-activity feed.
func (m Model) renderActivity() string {
	lines := []string{m.theme.Accent.Render("Recent Activity")}
	if len(m.activity) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorGray).Render("No recent activity."))
	}
	timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	for _, a := range m.activity {
		lines = append(lines, fmt.Sprintf(
			"%s  %s",
			timeStyle.Render(a.Timestamp.Format("Jan 02 15:04")),
			a.Description,
		))
	}
	return "\n" + strings.Join(lines, "\n")
}

// renderBar draws a proportional bar scaled against the series maximum.
func renderBar(value, max int, style lipgloss.Style) string {
	if max <= 0 {
		return ""
	}
	width := value * maxBarWidth / max
	if value > 0 && width == 0 {
		width = 1
	}
	return style.Render(strings.Repeat("█", width))
}

func maxValue(points []api.ChartPoint) int {
	max := 0
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
