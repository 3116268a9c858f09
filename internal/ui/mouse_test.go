// Package ui provides the terminal dashboard for daylog.
// This file contains tests for mouse interaction support.
package ui

import (
	"testing"

	"daylog/internal/day"
	"daylog/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func TestApp_MousePaneSwitching(t *testing.T) {
	app := newTestApp(t, createTestStorage(t), testConfig(), Options{})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	assert.Equal(t, PaneCalendar, app.activePane)

	app.Update(click(10, 5))
	assert.Equal(t, PaneStats, app.activePane)

	app.Update(click(90, 5))
	assert.Equal(t, PaneEntries, app.activePane)

	app.Update(click(55, 5))
	assert.Equal(t, PaneCalendar, app.activePane)
}

func TestApp_MouseClosesOverlays(t *testing.T) {
	app := newTestApp(t, createTestStorage(t), testConfig(), Options{})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	app.showHelp = true
	app.Update(click(50, 15))
	assert.False(t, app.showHelp)

	app.confirmDel = &confirmDeleteState{title: "Delete entry?"}
	app.Update(click(50, 15))
	assert.Nil(t, app.confirmDel)
	assert.Equal(t, "Canceled", app.status)
}

func TestApp_NarrowTabBarClick(t *testing.T) {
	app := newTestApp(t, createTestStorage(t), testConfig(), Options{})
	app.Update(tea.WindowSizeMsg{Width: 60, Height: 30})

	app.Update(click(5, 1))
	assert.Equal(t, PaneStats, app.activePane)

	app.Update(click(55, 1))
	assert.Equal(t, PaneEntries, app.activePane)
}

func TestApp_PaneAtPosition(t *testing.T) {
	app := newTestApp(t, createTestStorage(t), testConfig(), Options{})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	tests := []struct {
		x    int
		want PaneID
	}{
		{0, PaneStats},
		{30, PaneStats},
		{50, PaneCalendar},
		{80, PaneEntries},
		{110, PaneEntries},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, app.paneAtPosition(tc.x), "x=%d", tc.x)
	}
}

func mousePane(t *testing.T) *EntriesPane {
	store := createTestStorage(t)
	seed(t, store,
		storage.EntryInput{Date: "2024-03-10", Note: "one"},
		storage.EntryInput{Date: "2024-03-10", Note: "two"},
		storage.EntryInput{Date: "2024-03-10", Note: "three"},
	)
	entries, err := store.Load()
	assert.NoError(t, err)

	pane := NewEntriesPane(store, testUser, createTestStyles(), nil, day.MustParse("2024-03-10"))
	pane.SetEntries(entries.Entries)
	pane.SetSize(40, 20)
	pane.SetFocused(true)
	return pane
}

func TestEntriesPane_MouseSelection(t *testing.T) {
	pane := mousePane(t)
	assert.Equal(t, 0, pane.cursor)

	pane.Update(click(10, headerRows+1))
	assert.Equal(t, 1, pane.cursor)

	pane.Update(click(10, headerRows+2))
	assert.Equal(t, 2, pane.cursor)

	// Above the list and past its end are ignored.
	pane.Update(click(10, 1))
	assert.Equal(t, 2, pane.cursor)
	pane.Update(click(10, headerRows+10))
	assert.Equal(t, 2, pane.cursor)
}

func TestEntriesPane_MouseScroll(t *testing.T) {
	pane := mousePane(t)

	down := tea.MouseMsg{Button: tea.MouseButtonWheelDown}
	up := tea.MouseMsg{Button: tea.MouseButtonWheelUp}

	pane.Update(down)
	pane.Update(down)
	pane.Update(down)
	assert.Equal(t, 2, pane.cursor)

	pane.Update(up)
	assert.Equal(t, 1, pane.cursor)
}
