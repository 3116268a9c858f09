// Package ui provides the terminal dashboard for daylog.
// This file implements the undo/redo system using a command pattern with
// captured entry snapshots for each undoable operation.
package ui

import (
	"context"
	"sync"

	"daylog/internal/storage"

	"github.com/mattn/go-runewidth"
)

// maxHistorySize limits the undo stack to prevent unbounded memory growth.
const maxHistorySize = 50

// UndoableAction represents an action that can be undone.
// It captures the state needed to reverse the operation.
type UndoableAction struct {
	Description string                      // shown in the status bar
	Undo        func(context.Context) error // reverses the action
	Redo        func(context.Context) error // optional
}

// UndoManager maintains the undo/redo history stacks.
type UndoManager struct {
	mu        sync.Mutex
	undoStack []*UndoableAction
	redoStack []*UndoableAction
}

// NewUndoManager creates a new UndoManager instance.
func NewUndoManager() *UndoManager {
	return &UndoManager{
		undoStack: make([]*UndoableAction, 0, maxHistorySize),
		redoStack: make([]*UndoableAction, 0, maxHistorySize),
	}
}

// Push adds an undoable action to the history.
// Clears the redo stack since a new action invalidates redo history.
func (m *UndoManager) Push(action *UndoableAction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.redoStack = m.redoStack[:0]

	// Drop the oldest when full.
	if len(m.undoStack) >= maxHistorySize {
		m.undoStack = m.undoStack[1:]
	}

	m.undoStack = append(m.undoStack, action)
}

// CanUndo returns true if there are actions to undo.
func (m *UndoManager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack) > 0
}

// CanRedo returns true if there are actions to redo.
func (m *UndoManager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoStack) > 0
}

// Undo reverses the most recent action and returns its description.
// Returns empty string and nil error if nothing to undo.
func (m *UndoManager) Undo(ctx context.Context) (string, error) {
	m.mu.Lock()
	if len(m.undoStack) == 0 {
		m.mu.Unlock()
		return "", nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.mu.Unlock()

	if err := action.Undo(ctx); err != nil {
		// Not undone: keep it available.
		m.mu.Lock()
		m.undoStack = append(m.undoStack, action)
		m.mu.Unlock()
		return "", err
	}

	if action.Redo != nil {
		m.mu.Lock()
		m.redoStack = append(m.redoStack, action)
		m.mu.Unlock()
	}

	return action.Description, nil
}

// Redo reapplies the most recently undone action and returns its description.
// Returns empty string and nil error if nothing to redo.
func (m *UndoManager) Redo(ctx context.Context) (string, error) {
	m.mu.Lock()
	if len(m.redoStack) == 0 {
		m.mu.Unlock()
		return "", nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.mu.Unlock()

	if err := action.Redo(ctx); err != nil {
		m.mu.Lock()
		m.redoStack = append(m.redoStack, action)
		m.mu.Unlock()
		return "", err
	}

	m.mu.Lock()
	m.undoStack = append(m.undoStack, action)
	m.mu.Unlock()

	return action.Description, nil
}

// Clear removes all undo/redo history.
func (m *UndoManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undoStack = m.undoStack[:0]
	m.redoStack = m.redoStack[:0]
}

// =============================================================================
// Undoable Action Factories
// =============================================================================

// NewDeleteEntryAction creates an undoable action for entry deletion.
// Restoring keeps the entry's ID, so redo deletes the same record again.
func NewDeleteEntryAction(store storage.EntryStore, entry storage.Entry) *UndoableAction {
	return &UndoableAction{
		Description: "Deleted entry: " + entryLabel(entry),
		Undo: func(ctx context.Context) error {
			return store.Restore(ctx, entry)
		},
		Redo: func(ctx context.Context) error {
			_, err := store.Delete(ctx, entry.UserID, entry.ID)
			return err
		},
	}
}

// NewAddEntryAction creates an undoable action for entry creation.
func NewAddEntryAction(store storage.EntryStore, entry storage.Entry) *UndoableAction {
	return &UndoableAction{
		Description: "Added entry: " + entryLabel(entry),
		Undo: func(ctx context.Context) error {
			_, err := store.Delete(ctx, entry.UserID, entry.ID)
			return err
		},
		Redo: func(ctx context.Context) error {
			return store.Restore(ctx, entry)
		},
	}
}

func entryLabel(e storage.Entry) string {
	if e.Note == "" {
		return e.Date
	}
	return e.Date + " " + truncateText(e.Note, 20)
}

// truncateText shortens text to maxLen cells with ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}
