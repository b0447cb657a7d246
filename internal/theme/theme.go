package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/astrafab/prodtrack/internal/model"
)

// Shared neutral colors (dark terminal value, light terminal value).
var (
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}

	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
)

// Scheme is a named color scheme selectable at runtime. The selection
// persists across sessions via the config file.
type Scheme struct {
	Name        string
	Label       string
	Primary     lipgloss.Color
	Secondary   lipgloss.Color
	Accent      lipgloss.Color
	Destructive lipgloss.Color
}

// Schemes lists the available color schemes.
var Schemes = []Scheme{
	{Name: "blue", Label: "Ocean Blue", Primary: "#3b82f6", Secondary: "#64748b", Accent: "#0ea5e9", Destructive: "#ef4444"},
	{Name: "emerald", Label: "Emerald Green", Primary: "#10b981", Secondary: "#6b7280", Accent: "#059669", Destructive: "#f59e0b"},
	{Name: "purple", Label: "Royal Purple", Primary: "#8b5cf6", Secondary: "#64748b", Accent: "#a855f7", Destructive: "#ef4444"},
	{Name: "orange", Label: "Sunset Orange", Primary: "#f97316", Secondary: "#6b7280", Accent: "#ea580c", Destructive: "#dc2626"},
	{Name: "rose", Label: "Rose Pink", Primary: "#f43f5e", Secondary: "#64748b", Accent: "#e11d48", Destructive: "#dc2626"},
	{Name: "slate", Label: "Slate Gray", Primary: "#64748b", Secondary: "#475569", Accent: "#334155", Destructive: "#ef4444"},
}

// SchemeByName returns the named scheme, falling back to the first one
// for unrecognized names.
func SchemeByName(name string) Scheme {
	for _, s := range Schemes {
		if s.Name == name {
			return s
		}
	}
	return Schemes[0]
}

// Theme bundles the styles derived from the active color scheme.
type Theme struct {
	Scheme Scheme

	// Header is used for top-level section headers and the title bar.
	Header lipgloss.Style

	// StatusBar is used for the bottom status bar.
	StatusBar lipgloss.Style

	// Panel wraps detail and form content areas.
	Panel lipgloss.Style

	// ListItem is the base style for items in a list.
	ListItem lipgloss.Style

	// SelectedItem highlights the currently focused list item.
	SelectedItem lipgloss.Style

	// Help is used for keyboard hints.
	Help lipgloss.Style

	// Error is used for failure notices.
	Error lipgloss.Style

	// Accent highlights counts and badges.
	Accent lipgloss.Style
}

// New builds a Theme for the given scheme.
func New(scheme Scheme) Theme {
	return Theme{
		Scheme: scheme,
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(scheme.Primary).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorSubtle).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder),
		ListItem: lipgloss.NewStyle().
			PaddingLeft(2),
		SelectedItem: lipgloss.NewStyle().
			PaddingLeft(1).
			Bold(true).
			Foreground(scheme.Primary).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(scheme.Primary),
		Help: lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(scheme.Destructive),
		Accent: lipgloss.NewStyle().
			Bold(true).
			Foreground(scheme.Accent),
	}
}

// StatusStyle returns a color-coded style for an item status.
func StatusStyle(status model.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.StatusPending:
		return base.Foreground(ColorGray)
	case model.StatusInProgress:
		return base.Foreground(colorYellow)
	case model.StatusCompleted:
		return base.Foreground(colorGreen)
	case model.StatusBlocked:
		return base.Foreground(colorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// SeverityStyle returns a color-coded style for a notification severity.
func SeverityStyle(severity model.Severity) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch severity {
	case model.SeveritySuccess:
		return base.Foreground(colorGreen)
	case model.SeverityWarning:
		return base.Foreground(colorYellow)
	case model.SeverityError:
		return base.Foreground(colorRed)
	default:
		return base.Foreground(colorBlue)
	}
}

// DeadlineStyle returns a color-coded style for a project deadline state.
func DeadlineStyle(state model.DeadlineState) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch state {
	case model.DeadlineOverdue:
		return base.Foreground(colorRed)
	case model.DeadlineDueSoon:
		return base.Foreground(colorYellow)
	default:
		return base.Foreground(colorGreen)
	}
}
