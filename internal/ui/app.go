// Package ui provides the terminal dashboard for daylog.
// This file contains the main App model which coordinates all panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"daylog/internal/config"
	"daylog/internal/day"
	"daylog/internal/notify"
	"daylog/internal/stats"
	"daylog/internal/storage"
	"daylog/internal/sync"
	"daylog/internal/watch"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneStats PaneID = iota
	PaneCalendar
	PaneEntries
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows all three panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowOnboarding        bool
	NarrowLayoutThreshold int
	User                  string
}

// Options carries the optional collaborators of the dashboard. Any nil field
// disables the matching feature.
type Options struct {
	Watcher  *watch.Watcher
	Reminder *notify.Reminder
	Notifier notify.Notifier
	Sync     *sync.GitSync
	Log      *zap.Logger
	Now      func() time.Time
}

// App is the main application model that coordinates all panes.
type App struct {
	store        storage.EntryStore
	styles       *Styles
	config       *AppConfig
	opts         Options
	statsPane    *StatsPane
	calendarPane *CalendarPane
	entriesPane  *EntriesPane
	helpOverlay  *HelpOverlay
	undoManager  *UndoManager
	undoBusy     bool
	confirmDel   *confirmDeleteState
	activePane   PaneID
	layoutMode   LayoutMode
	showHelp     bool
	showWelcome  bool
	loaded       bool
	entries      []storage.Entry
	summary      stats.Summary
	syncStatus   *sync.Status
	width        int
	height       int
	status       string
	statusErr    bool
	statusUntil  time.Time
	quitting     bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap

	// Pane positions for mouse click detection (x coordinates)
	statsPaneStart    int
	statsPaneEnd      int
	calendarPaneStart int
	calendarPaneEnd   int
	entriesPaneStart  int
	entriesPaneEnd    int
	contentTop        int // Y coordinate where content starts
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application. Data loading is deferred to Init()
// to keep the constructor non-blocking.
func NewApp(store storage.EntryStore, styles *Styles, cfg *AppConfig, opts Options) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	today := day.FromTime(opts.Now())
	app := &App{
		store:        store,
		styles:       styles,
		config:       cfg,
		opts:         opts,
		statsPane:    NewStatsPane(styles),
		calendarPane: NewCalendarPane(styles, cfg.Keys, today),
		entriesPane:  NewEntriesPane(store, cfg.User, styles, cfg.Keys, today),
		helpOverlay:  NewHelpOverlay(styles, cfg.Keys),
		undoManager:  NewUndoManager(),
		keys:         NewGlobalKeyMap(cfg.Keys),
		helpKeys:     DefaultHelpKeyMap(),
	}
	app.setActivePane(PaneCalendar)
	return app
}

// Init initializes the app and loads all data asynchronously.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		loadEntriesCmd(a.store, a.config.User),
		waitForChangeCmd(a.opts.Watcher),
		refreshSyncStatusCmd(a.opts.Sync),
	)
}

func (a *App) reload() tea.Cmd {
	return tea.Batch(
		loadEntriesCmd(a.store, a.config.User),
		refreshSyncStatusCmd(a.opts.Sync),
	)
}

// recompute refreshes every derived view from the loaded history.
func (a *App) recompute() {
	now := a.opts.Now()
	today := day.FromTime(now)
	a.summary = stats.Compute(a.entries, now)
	active := stats.ActiveDays(a.entries)
	a.statsPane.SetData(a.summary, active, today)
	a.calendarPane.SetActive(active)
	a.calendarPane.SetToday(today)
	a.entriesPane.SetDate(a.calendarPane.Selected())
	a.entriesPane.SetEntries(a.entries)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Async results are handled regardless of which pane is active.
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Load: "+msg.err.Error(), true)
			return a, nil
		}
		a.entries = msg.entries
		a.recompute()
		if !a.loaded {
			a.loaded = true
			a.showWelcome = a.config.ShowOnboarding && len(a.entries) == 0
		}
		return a, nil

	case entryAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add entry: "+msg.err.Error(), true)
			return a, nil
		}
		if msg.entry != nil {
			a.undoManager.Push(NewAddEntryAction(a.store, *msg.entry))
			a.SetStatus("Logged "+entryLabel(*msg.entry), false)
		}
		return a, a.reload()

	case entryDeletedMsg:
		if msg.err != nil {
			a.SetStatus("Delete entry: "+msg.err.Error(), true)
			return a, nil
		}
		if msg.entry != nil {
			a.undoManager.Push(NewDeleteEntryAction(a.store, *msg.entry))
			a.SetStatus("Deleted "+entryLabel(*msg.entry), false)
		}
		return a, a.reload()

	case dataChangedMsg:
		a.opts.Log.Debug("entries changed on disk", zap.Time("at", msg.at))
		return a, tea.Batch(a.reload(), waitForChangeCmd(a.opts.Watcher))

	case syncStatusMsg:
		if msg.err != nil {
			a.opts.Log.Warn("sync status", zap.Error(msg.err))
			a.syncStatus = nil
			return a, nil
		}
		a.syncStatus = msg.status
		return a, nil

	case reminderSentMsg:
		if msg.err != nil {
			a.opts.Log.Warn("reminder failed", zap.Error(msg.err))
			a.SetStatus("Reminder: "+msg.err.Error(), true)
		}
		return a, nil

	case tickMsg:
		now := time.Time(msg)
		if a.status != "" && !a.statusUntil.IsZero() && now.After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded {
			a.recompute()
			if a.opts.Reminder.Due(now, a.summary.Today > 0) {
				cmds = append(cmds, sendReminderCmd(a.opts.Reminder, a.opts.Notifier, now, a.summary.CurrentStreak))
			}
		}
		return a, tea.Batch(cmds...)

	case undoResultMsg:
		a.undoBusy = false
		switch {
		case msg.err != nil:
			a.SetStatus("Undo failed: "+msg.err.Error(), true)
		case msg.desc != "":
			a.SetStatus("Undid: "+msg.desc, false)
		default:
			a.SetStatus("Nothing to undo", false)
		}
		return a, a.reload()

	case redoResultMsg:
		a.undoBusy = false
		switch {
		case msg.err != nil:
			a.SetStatus("Redo failed: "+msg.err.Error(), true)
		case msg.desc != "":
			a.SetStatus("Redid: "+msg.desc, false)
		default:
			a.SetStatus("Nothing to redo", false)
		}
		return a, a.reload()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	// Anything else (cursor blinks) goes to the entries pane inputs.
	return a, a.entriesPane.Update(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.showWelcome {
		a.showWelcome = false
		return nil
	}

	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			cmd := a.confirmDel.cmd
			a.confirmDel = nil
			return cmd
		case "n", "N", "esc":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	// Help overlay takes priority
	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return nil
	}

	if a.entriesPane.IsInputMode() {
		return a.entriesPane.Update(msg)
	}

	if a.activePane == PaneEntries && key.Matches(msg, a.entriesPane.keys.Delete) {
		e := a.entriesPane.Selected()
		if e == nil {
			a.SetStatus("No entry selected", true)
			return nil
		}
		if a.config.ConfirmDeletions {
			a.confirmDel = &confirmDeleteState{
				title: "Delete entry?",
				body:  e.Date + "  " + truncateText(e.Note, 50),
				cmd:   deleteEntryCmd(a.store, a.config.User, e.ID),
			}
			return nil
		}
		return deleteEntryCmd(a.store, a.config.User, e.ID)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil

	case key.Matches(msg, a.keys.NextPane):
		a.switchPane()
		return nil

	case key.Matches(msg, a.keys.Pane1):
		a.setActivePane(PaneStats)
		return nil

	case key.Matches(msg, a.keys.Pane2):
		a.setActivePane(PaneCalendar)
		return nil

	case key.Matches(msg, a.keys.Pane3):
		a.setActivePane(PaneEntries)
		return nil

	case key.Matches(msg, a.keys.Undo):
		if a.undoBusy {
			a.SetStatus("Undo: busy", true)
			return nil
		}
		a.undoBusy = true
		return undoCmd(a.undoManager)

	case key.Matches(msg, a.keys.Redo):
		if a.undoBusy {
			a.SetStatus("Redo: busy", true)
			return nil
		}
		a.undoBusy = true
		return redoCmd(a.undoManager)
	}

	switch a.activePane {
	case PaneCalendar:
		switch {
		case key.Matches(msg, a.entriesPane.keys.Add):
			a.setActivePane(PaneEntries)
			return a.entriesPane.StartAdding()
		case key.Matches(msg, a.calendarPane.keys.Open):
			a.setActivePane(PaneEntries)
			return nil
		}
		if a.calendarPane.Update(msg) {
			a.entriesPane.SetDate(a.calendarPane.Selected())
		}
		return nil
	case PaneEntries:
		return a.entriesPane.Update(msg)
	}
	return nil
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.showWelcome || a.confirmDel != nil || a.showHelp {
		if msg.Action == tea.MouseActionPress {
			if a.confirmDel != nil {
				a.SetStatus("Canceled", false)
			}
			a.showWelcome = false
			a.confirmDel = nil
			a.showHelp = false
		}
		return nil
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		// Tab bar click in narrow mode.
		if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
			tabWidth := a.width / 3
			switch {
			case msg.X < tabWidth:
				a.setActivePane(PaneStats)
			case msg.X < tabWidth*2:
				a.setActivePane(PaneCalendar)
			default:
				a.setActivePane(PaneEntries)
			}
			return nil
		}

		if clicked := a.paneAtPosition(msg.X); clicked >= 0 && clicked != a.activePane {
			a.setActivePane(clicked)
		}
	}

	if a.activePane != PaneEntries || msg.Y < a.contentTop {
		return nil
	}
	local := msg
	local.Y = msg.Y - a.contentTop
	if a.layoutMode == LayoutWide {
		local.X = msg.X - a.entriesPaneStart
	}
	return a.entriesPane.Update(local)
}

// switchPane cycles through panes.
func (a *App) switchPane() {
	a.setActivePane((a.activePane + 1) % 3)
}

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane
	a.statsPane.SetFocused(pane == PaneStats)
	a.calendarPane.SetFocused(pane == PaneCalendar)
	a.entriesPane.SetFocused(pane == PaneEntries)
}

// paneAtPosition returns which pane is at the given X coordinate.
// Returns -1 if no pane is at that position.
func (a *App) paneAtPosition(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		return a.activePane
	}
	switch {
	case x >= a.statsPaneStart && x < a.statsPaneEnd:
		return PaneStats
	case x >= a.calendarPaneStart && x < a.calendarPaneEnd:
		return PaneCalendar
	case x >= a.entriesPaneStart && x < a.entriesPaneEnd:
		return PaneEntries
	}
	return -1
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for title bar and help bar.
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}
	a.contentTop = 1
	a.helpOverlay.SetSize(a.width, a.height)

	totalWidth := a.width - 4

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	if a.width < threshold {
		a.layoutMode = LayoutNarrow

		narrowHeight := max(contentHeight-1, 8)
		paneWidth := max(totalWidth, 20)

		a.statsPane.SetSize(paneWidth, narrowHeight)
		a.calendarPane.SetSize(paneWidth, narrowHeight)
		a.entriesPane.SetSize(paneWidth, narrowHeight)

		a.statsPaneStart, a.statsPaneEnd = 0, a.width
		a.calendarPaneStart, a.calendarPaneEnd = 0, a.width
		a.entriesPaneStart, a.entriesPaneEnd = 0, a.width
		a.contentTop = 2
		return
	}

	a.layoutMode = LayoutWide

	// The calendar grid needs 21 cells plus borders; stats and entries split the rest.
	calendarWidth := 27
	var statsWidth, entriesWidth int
	if totalWidth < 120 {
		statsWidth = (totalWidth - calendarWidth - 2) / 2
		entriesWidth = totalWidth - calendarWidth - statsWidth - 2
	} else {
		statsWidth = min((totalWidth*38)/100, 60)
		entriesWidth = min(totalWidth-statsWidth-calendarWidth-2, 70)
	}

	a.statsPane.SetSize(statsWidth, contentHeight)
	a.calendarPane.SetSize(calendarWidth, contentHeight)
	a.entriesPane.SetSize(entriesWidth, contentHeight)

	// One-space gaps between panes.
	a.statsPaneStart = 0
	a.statsPaneEnd = statsWidth
	a.calendarPaneStart = statsWidth + 1
	a.calendarPaneEnd = a.calendarPaneStart + calendarWidth
	a.entriesPaneStart = a.calendarPaneEnd + 1
	a.entriesPaneEnd = a.entriesPaneStart + entriesWidth
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}
	if a.showWelcome {
		return a.renderWelcome()
	}
	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}
	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")

	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderNarrowContent())
	default:
		b.WriteString(a.renderWideContent())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) overlay(border lipgloss.Color, content string) string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(overlayWidth)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, style.Render(content))
}

func (a *App) renderWelcome() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorPrimary).
		MarginBottom(1)
	bodyStyle := lipgloss.NewStyle().Foreground(a.styles.ColorText)
	mutedStyle := lipgloss.NewStyle().Foreground(a.styles.ColorTextMuted).Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to daylog"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Log what you did each day and keep the streak going.\n"))
	b.WriteString(bodyStyle.Render("Tab switches panes. ? opens help.\n"))
	b.WriteString(bodyStyle.Render("Add your first entry with 'a'.\n"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))
	return a.overlay(a.styles.ColorPrimary, b.String())
}

func (a *App) renderConfirmDelete() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)
	bodyStyle := lipgloss.NewStyle().Foreground(a.styles.ColorText)
	hintStyle := lipgloss.NewStyle().Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))
	return a.overlay(a.styles.ColorDanger, b.String())
}

// renderWideContent renders all three panes side by side.
func (a *App) renderWideContent() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		a.statsPane.View(), " ", a.calendarPane.View(), " ", a.entriesPane.View())
}

// renderNarrowContent renders the focused pane with a tab bar.
func (a *App) renderNarrowContent() string {
	var b strings.Builder
	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	switch a.activePane {
	case PaneStats:
		b.WriteString(a.statsPane.View())
	case PaneCalendar:
		b.WriteString(a.calendarPane.View())
	case PaneEntries:
		b.WriteString(a.entriesPane.View())
	}
	return b.String()
}

// renderPaneTabs renders a tab bar showing available panes.
func (a *App) renderPaneTabs() string {
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneStats, "Stats"},
		{PaneCalendar, "Calendar"},
		{PaneEntries, "Entries"},
	}

	activeTabStyle := lipgloss.NewStyle().Foreground(a.styles.ColorPrimary).Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().Foreground(a.styles.ColorTextMuted)

	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		if tab.id == a.activePane {
			parts = append(parts, activeTabStyle.Render("["+tab.label+"]"))
		} else {
			parts = append(parts, inactiveTabStyle.Render(" "+tab.label+" "))
		}
	}

	tabBar := strings.Join(parts, "  ")
	if padding := (a.width - lipgloss.Width(tabBar)) / 2; padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}
	return tabBar
}

// renderGoodbye shows an exit message with the day's progress.
func (a *App) renderGoodbye() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you tomorrow!\n")
	b.WriteString("\n")

	s := a.summary
	if s.Total > 0 {
		b.WriteString(fmt.Sprintf("     Today:  %s\n", plural(s.Today, "entry", "entries")))
		b.WriteString(fmt.Sprintf("     Streak: %s (best %d)\n", plural(s.CurrentStreak, "day", "days"), s.LongestStreak))
		b.WriteString("\n")
	}
	return b.String()
}

// renderTitleBar creates the top title bar with the streak and sync state.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" daylog ")

	var items []string
	if a.config.User != "" {
		items = append(items, a.config.User)
	}
	if a.summary.CurrentStreak > 0 {
		items = append(items, fmt.Sprintf("🔥 %d", a.summary.CurrentStreak))
	}
	info := a.styles.StatLabelStyle.Render(strings.Join(items, "  "))

	syncInfo := a.renderSyncIndicator()
	date := a.styles.DateStyle.Render(a.opts.Now().Format("Mon Jan 2 · 15:04"))

	used := lipgloss.Width(title) + lipgloss.Width(info) + lipgloss.Width(syncInfo) + lipgloss.Width(date)
	spacer := max(a.width-used-6, 2)

	var b strings.Builder
	b.WriteString(title)
	if info != "" {
		b.WriteString("  " + info)
	}
	b.WriteString(strings.Repeat(" ", spacer/2))
	b.WriteString(syncInfo)
	b.WriteString(strings.Repeat(" ", spacer-spacer/2))
	b.WriteString(date)
	return b.String()
}

func (a *App) renderSyncIndicator() string {
	st := a.syncStatus
	switch {
	case st == nil || !st.IsRepo:
		return ""
	case !st.HasRemote:
		return a.styles.SyncDisabledStyle.Render("⎇ local")
	case st.HasChanges:
		return a.styles.SyncPendingStyle.Render("● unsaved")
	case st.Behind > 0:
		return a.styles.SyncBehindStyle.Render(fmt.Sprintf("↓%d", st.Behind))
	case st.Ahead > 0:
		return a.styles.SyncAheadStyle.Render(fmt.Sprintf("↑%d", st.Ahead))
	}
	return a.styles.SyncSyncedStyle.Render("✓ synced")
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	switch {
	case a.entriesPane.IsSearching():
		return a.styles.RenderHelp("enter", "keep", "esc", "clear")
	case a.entriesPane.IsAdding():
		return a.styles.RenderHelp("enter", "next/save", "esc", "cancel")
	}

	switch a.activePane {
	case PaneCalendar:
		return a.styles.RenderHelp(
			"h/j/k/l", "move",
			"[/]", "month",
			"t", "today",
			"a", "add",
			"tab", "pane",
			"?", "help",
		)
	case PaneEntries:
		return a.styles.RenderHelp(
			"a", "add",
			"x", "del",
			"/", "search",
			"j/k", "nav",
			"tab", "pane",
			"?", "help",
		)
	}
	return a.styles.RenderHelp(
		"tab", "pane",
		"u", "undo",
		"?", "help",
		"q", "quit",
	)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = a.opts.Now().Add(ttl)
}

// Run starts the Bubble Tea program.
func Run(store storage.EntryStore, styles *Styles, cfg *AppConfig, opts Options) error {
	app := NewApp(store, styles, cfg, opts)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
