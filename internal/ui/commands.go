// Package ui provides the terminal dashboard for daylog.
// This file contains tea.Cmd factories that wrap store operations. These
// commands run I/O asynchronously to keep the Bubble Tea event loop
// responsive. Each command returns a message type defined in messages.go.
package ui

import (
	"context"
	"time"

	"daylog/internal/notify"
	"daylog/internal/storage"
	"daylog/internal/sync"
	"daylog/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
)

// storeTimeout bounds a single store call so a stuck database does not hang
// the dashboard forever.
const storeTimeout = 10 * time.Second

// =============================================================================
// Entry Commands
// =============================================================================

// loadEntriesCmd returns a command that loads the user's full history.
func loadEntriesCmd(store storage.EntryStore, userID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entries, err := store.FetchAll(ctx, userID)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

// addEntryCmd returns a command that creates a new entry.
func addEntryCmd(store storage.EntryStore, userID string, in storage.EntryInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entry, err := store.Add(ctx, userID, in)
		return entryAddedMsg{entry: entry, err: err}
	}
}

// deleteEntryCmd returns a command that removes an entry.
func deleteEntryCmd(store storage.EntryStore, userID, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entry, err := store.Delete(ctx, userID, id)
		return entryDeletedMsg{entry: entry, err: err}
	}
}

// =============================================================================
// Undo/Redo Commands
// =============================================================================

func undoCmd(manager *UndoManager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		desc, err := manager.Undo(ctx)
		return undoResultMsg{desc: desc, err: err}
	}
}

func redoCmd(manager *UndoManager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		desc, err := manager.Redo(ctx)
		return redoResultMsg{desc: desc, err: err}
	}
}

// =============================================================================
// Background Commands
// =============================================================================

// tickCmd fires on the next minute boundary of the wall clock.
func tickCmd() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChangeCmd blocks until the watcher reports a change. Returns nil
// when w is nil (watching disabled).
func waitForChangeCmd(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return dataChangedMsg{at: c.At}
	}
}

// sendReminderCmd fires the daily reminder.
func sendReminderCmd(r *notify.Reminder, n notify.Notifier, now time.Time, streak int) tea.Cmd {
	return func() tea.Msg {
		return reminderSentMsg{err: r.Fire(context.Background(), n, now, streak)}
	}
}

// refreshSyncStatusCmd returns a command that checks git sync status.
// Returns nil command if gs is nil (sync disabled).
func refreshSyncStatusCmd(gs *sync.GitSync) tea.Cmd {
	if gs == nil {
		return nil
	}
	return func() tea.Msg {
		status, err := gs.Status()
		return syncStatusMsg{status: status, err: err}
	}
}
