package ui

import (
	"strings"

	"daylog/internal/config"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width    int
	height   int
	styles   *Styles
	help     help.Model
	global   GlobalKeyMap
	calendar CalendarKeyMap
	entries  EntryKeyMap
	input    InputKeyMap
}

// NewHelpOverlay creates a new help overlay. Bindings come from the same key
// config as the panes, so remapped keys show up here.
func NewHelpOverlay(styles *Styles, keyCfg *config.KeysConfig) *HelpOverlay {
	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(styles.ColorText)
	h.Styles.FullSeparator = styles.HelpStyle
	return &HelpOverlay{
		styles:   styles,
		help:     h,
		global:   NewGlobalKeyMap(keyCfg),
		calendar: NewCalendarKeyMap(keyCfg),
		entries:  NewEntryKeyMap(keyCfg),
		input:    NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 64
	if h.width > 0 {
		overlayWidth = min(64, max(20, h.width-4))
	}
	h.help.Width = overlayWidth - 6

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	g := h.global
	sections := []struct {
		title string
		keys  [][]key.Binding
	}{
		{"Global", [][]key.Binding{{g.NextPane, g.Pane1, g.Pane2, g.Pane3}, {g.Undo, g.Redo, g.Help, g.Quit}}},
		{"Calendar", h.calendar.FullHelp()},
		{"Entries", h.entries.FullHelp()},
		{"Input Mode", [][]key.Binding{{h.input.Confirm, h.input.Cancel}}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("📖 daylog - Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		b.WriteString(h.help.FullHelpView(s.keys))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, overlayStyle.Render(b.String()))
}
