package ui

import (
	"daylog/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	// Colors
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorBg        lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	// Component styles
	TitleStyle       lipgloss.Style
	DateStyle        lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style

	// Stats cards
	CardStyle      lipgloss.Style
	StatLabelStyle lipgloss.Style
	StatValueStyle lipgloss.Style
	StreakStyle    lipgloss.Style
	ChartBarStyle  lipgloss.Style

	// Calendar cells
	CalendarHeaderStyle   lipgloss.Style
	CalendarDayStyle      lipgloss.Style
	CalendarActiveStyle   lipgloss.Style
	CalendarTodayStyle    lipgloss.Style
	CalendarSelectedStyle lipgloss.Style
	CalendarOutsideStyle  lipgloss.Style

	// Entry list
	EntryStyle         lipgloss.Style
	EntrySelectedStyle lipgloss.Style
	EntryDateStyle     lipgloss.Style
	EntryTagStyle      lipgloss.Style
	EntryImageStyle    lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style

	InputPromptStyle lipgloss.Style
	InputTextStyle   lipgloss.Style

	// Sync status styles
	SyncSyncedStyle   lipgloss.Style // Synced (green checkmark)
	SyncPendingStyle  lipgloss.Style // Has uncommitted changes (yellow)
	SyncAheadStyle    lipgloss.Style // Ahead of remote (blue)
	SyncBehindStyle   lipgloss.Style // Behind remote (orange)
	SyncDisabledStyle lipgloss.Style // No remote / sync disabled (muted)
}

// NewStyles creates a new Styles instance from the given config.
// If a theme color is empty, it uses the appropriate default.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#7C3AED")
	s.ColorSecondary = colorOrDefault(theme.Accent, "#10B981")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")

	// Fixed semantic colors (not configurable from theme)
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorWarning = lipgloss.Color("#F59E0B")
	s.ColorSuccess = lipgloss.Color("#10B981")
	s.ColorAccent = colorOrDefault(theme.Accent, "#3B82F6")

	s.ColorBg = colorOrDefault(theme.Background, "#1F2937")
	s.ColorBgLight = lipgloss.Color("#374151")
	s.ColorText = colorOrDefault(theme.Text, "#F9FAFB")
	s.ColorTextMuted = lipgloss.Color("#9CA3AF")

	s.initComponentStyles()

	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

// initComponentStyles initializes all component styles based on the color palette.
func (s *Styles) initComponentStyles() {
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)

	s.PaneFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(0, 1)

	s.PaneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary).
		MarginBottom(1)

	s.CardStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.ColorBgLight).
		Padding(0, 1)

	s.StatLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.StatValueStyle = lipgloss.NewStyle().
		Foreground(s.ColorText).
		Bold(true)

	s.StreakStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning).
		Bold(true)

	s.ChartBarStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary)

	s.CalendarHeaderStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Bold(true)

	s.CalendarDayStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.CalendarActiveStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Bold(true)

	s.CalendarTodayStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning).
		Underline(true)

	s.CalendarSelectedStyle = lipgloss.NewStyle().
		Background(s.ColorPrimary).
		Foreground(s.ColorText).
		Bold(true)

	s.CalendarOutsideStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted)

	s.EntryStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.EntrySelectedStyle = lipgloss.NewStyle().
		Background(s.ColorBgLight).
		Foreground(s.ColorText).
		Bold(true)

	s.EntryDateStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent)

	s.EntryTagStyle = lipgloss.NewStyle().
		Foreground(s.ColorSecondary)

	s.EntryImageStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)

	s.InputTextStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.SyncSyncedStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess)

	s.SyncPendingStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning)

	s.SyncAheadStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent)

	s.SyncBehindStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning).
		Bold(true)

	s.SyncDisabledStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted)
}

// RenderHelp renders help text with key bindings using the given styles.
func (s *Styles) RenderHelp(keys ...string) string {
	var result string
	for i := 0; i+1 < len(keys); i += 2 {
		if i > 0 {
			result += "  "
		}
		result += s.HelpKeyStyle.Render("["+keys[i]+"]") + " " + s.HelpStyle.Render(keys[i+1])
	}
	return result
}

// pane wraps content in the pane border, highlighted when focused.
func (s *Styles) pane(focused bool, width, height int, content string) string {
	style := s.PaneStyle
	if focused {
		style = s.PaneFocusedStyle
	}
	return style.Width(width).Height(height).Render(content)
}
