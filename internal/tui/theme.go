package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

type ThemeName string

const (
	ThemePorcelain ThemeName = "porcelain"
	ThemeMidnight  ThemeName = "midnight"
)

type Theme struct {
	Name ThemeName

	// Colors
	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor
	TextFaint   lipgloss.AdaptiveColor

	Accent   lipgloss.AdaptiveColor
	Accent2  lipgloss.AdaptiveColor
	Success  lipgloss.AdaptiveColor
	Warn     lipgloss.AdaptiveColor
	Error    lipgloss.AdaptiveColor
	Border   lipgloss.AdaptiveColor
	BorderHi lipgloss.AdaptiveColor

	// Chrome
	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarBadge lipgloss.Style
	TopBarMeta  lipgloss.Style
	Footer      lipgloss.Style
	Spinner     lipgloss.Style
	ErrorBanner lipgloss.Style

	// Cards
	Card          lipgloss.Style
	CardTitle     lipgloss.Style
	CardKindBadge lipgloss.Style
	CardCategory  lipgloss.Style
	CardKeyPoint  lipgloss.Style
	CardQuestion  lipgloss.Style
	CardSource    lipgloss.Style
	Progress      lipgloss.Style
	ProgressDone  lipgloss.Style

	// Lists (home, feeds, stats)
	ListItem    lipgloss.Style
	ListItemSel lipgloss.Style
	ListMeta    lipgloss.Style
	Pane        lipgloss.Style
	PaneTitle   lipgloss.Style
	InputBox    lipgloss.Style
}

func NewTheme(configured string) Theme {
	name := ThemeName(os.Getenv("NUGGET_THEME"))
	if name == "" {
		name = ThemeName(configured)
	}
	if name == "" {
		name = ThemePorcelain
	}
	switch name {
	case ThemeMidnight:
		return newMidnightTheme()
	default:
		return newPorcelainTheme()
	}
}

func newPorcelainTheme() Theme {
	t := Theme{
		Name:        ThemePorcelain,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#f2f2f2"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#4a5568", Dark: "#c7c7c7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#718096", Dark: "#9aa0a6"},

		Accent:   lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
		Accent2:  lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"},
		Success:  lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#46d1b7"},
		Warn:     lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"},
		Error:    lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#ff7a7a"},
		Border:   lipgloss.AdaptiveColor{Light: "#cbd5e0", Dark: "#3a3a3a"},
		BorderHi: lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
	}
	return applyStyles(t)
}

func newMidnightTheme() Theme {
	t := Theme{
		Name:        ThemeMidnight,
		TextPrimary: lipgloss.AdaptiveColor{Light: "#111827", Dark: "#eaeaea"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#374151", Dark: "#b7b7b7"},
		TextFaint:   lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#8d8d8d"},

		Accent:   lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#7aa2ff"},
		Accent2:  lipgloss.AdaptiveColor{Light: "#0ea5e9", Dark: "#5cc8ff"},
		Success:  lipgloss.AdaptiveColor{Light: "#059669", Dark: "#46d1b7"},
		Warn:     lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#f4b27d"},
		Error:    lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#ff7a7a"},
		Border:   lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#2a2a2a"},
		BorderHi: lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#7aa2ff"},
	}
	return applyStyles(t)
}

func applyStyles(t Theme) Theme {
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.TopBarMeta = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.ErrorBanner = lipgloss.NewStyle().Bold(true).Foreground(t.Error)

	t.Card = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.BorderHi).Padding(1, 2)
	t.CardTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.CardKindBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Accent2)
	t.CardCategory = lipgloss.NewStyle().Foreground(t.TextFaint)
	t.CardKeyPoint = lipgloss.NewStyle().Foreground(t.TextPrimary)
	t.CardQuestion = lipgloss.NewStyle().Italic(true).Foreground(t.Accent)
	t.CardSource = lipgloss.NewStyle().Foreground(t.TextFaint)
	t.Progress = lipgloss.NewStyle().Foreground(t.Border)
	t.ProgressDone = lipgloss.NewStyle().Foreground(t.Success)

	t.ListItem = lipgloss.NewStyle().Foreground(t.TextPrimary)
	t.ListItemSel = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.ListMeta = lipgloss.NewStyle().Foreground(t.TextFaint)
	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.BorderHi).Padding(0, 1)
	return t
}
