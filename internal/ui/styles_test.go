package ui

import (
	"testing"

	"daylog/internal/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestNewStyles_UsesThemeColors(t *testing.T) {
	theme := &config.ThemeConfig{
		Primary:    "#FF0000",
		Accent:     "#00FF00",
		Muted:      "#0000FF",
		Background: "#000000",
		Text:       "#FFFFFF",
	}

	styles := NewStylesFromTheme(theme)

	assert.Equal(t, lipgloss.Color("#FF0000"), styles.ColorPrimary)
	assert.Equal(t, lipgloss.Color("#00FF00"), styles.ColorAccent)
	assert.Equal(t, lipgloss.Color("#0000FF"), styles.ColorMuted)
	assert.Equal(t, lipgloss.Color("#000000"), styles.ColorBg)
	assert.Equal(t, lipgloss.Color("#FFFFFF"), styles.ColorText)
}

func TestNewStyles_UsesDefaults(t *testing.T) {
	styles := NewStylesFromTheme(&config.ThemeConfig{})

	assert.Equal(t, lipgloss.Color("#7C3AED"), styles.ColorPrimary)
	assert.Equal(t, lipgloss.Color("#3B82F6"), styles.ColorAccent)
	assert.Equal(t, lipgloss.Color("#6B7280"), styles.ColorMuted)
}

func TestNewStyles_ComponentStylesFollowPrimary(t *testing.T) {
	styles := NewStylesFromTheme(&config.ThemeConfig{Primary: "#FF0000"})

	red := lipgloss.Color("#FF0000")
	assert.Equal(t, red, styles.TitleStyle.GetBackground())
	assert.Equal(t, red, styles.PaneFocusedStyle.GetBorderTopForeground())
	assert.Equal(t, red, styles.PaneTitleStyle.GetForeground())
	assert.Equal(t, red, styles.CalendarSelectedStyle.GetBackground())
	assert.Equal(t, red, styles.ChartBarStyle.GetForeground())
}

func TestNewStyles_FromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Primary = "#123456"

	styles := NewStyles(cfg)
	assert.Equal(t, lipgloss.Color("#123456"), styles.ColorPrimary)
}

func TestRenderHelp(t *testing.T) {
	setupTest(t)
	styles := createTestStyles()

	assert.Equal(t, "[a] add  [x] del", styles.RenderHelp("a", "add", "x", "del"))
	assert.Equal(t, "[a] add", styles.RenderHelp("a", "add", "dangling"))
	assert.Empty(t, styles.RenderHelp())
}
