// Package ui provides the terminal dashboard for daylog.
// This file defines message types for async I/O operations using the Bubble Tea
// command pattern. All store operations return these messages to keep the
// event loop non-blocking.
package ui

import (
	"time"

	"daylog/internal/storage"
	"daylog/internal/sync"
)

// =============================================================================
// Undo/Redo Messages
// =============================================================================

// undoResultMsg is sent when an undo operation completes.
type undoResultMsg struct {
	desc string
	err  error
}

// redoResultMsg is sent when a redo operation completes.
type redoResultMsg struct {
	desc string
	err  error
}

// =============================================================================
// Entry Messages
// =============================================================================

// entriesLoadedMsg carries the user's full history.
type entriesLoadedMsg struct {
	entries []storage.Entry
	err     error
}

// entryAddedMsg is sent when a new entry is created.
type entryAddedMsg struct {
	entry *storage.Entry
	err   error
}

// entryDeletedMsg is sent when an entry is removed. entry is the removed
// value, kept for undo.
type entryDeletedMsg struct {
	entry *storage.Entry
	err   error
}

// =============================================================================
// Background Messages
// =============================================================================

// tickMsg is sent on every minute boundary.
type tickMsg time.Time

// dataChangedMsg is sent when the entries file changes on disk.
type dataChangedMsg struct {
	at time.Time
}

// reminderSentMsg is sent after a reminder notification attempt.
type reminderSentMsg struct {
	err error
}

// syncStatusMsg is sent when git sync status is refreshed.
type syncStatusMsg struct {
	status *sync.Status
	err    error
}
