package ui

import (
	"context"
	"testing"
	"time"

	"daylog/internal/config"
	"daylog/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

const testUser = "alice"

// testNow is a Sunday evening, so the week and streak windows are easy to reason about.
var testNow = time.Date(2024, time.March, 10, 21, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStorage creates a file store in a temporary directory with a fixed clock.
func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	store.SetNowFunc(fixedNow)
	return store
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

func seed(t *testing.T, store storage.EntryStore, inputs ...storage.EntryInput) {
	t.Helper()
	for _, in := range inputs {
		_, err := store.Add(context.Background(), testUser, in)
		require.NoError(t, err)
	}
}

// seedStreak logs one entry on each of the three days ending today, plus an
// older one in February.
func seedStreak(t *testing.T, store storage.EntryStore) {
	seed(t, store,
		storage.EntryInput{Date: "2024-02-01", Note: "started"},
		storage.EntryInput{Date: "2024-03-08", Note: "read a chapter", Tags: []string{"reading"}},
		storage.EntryInput{Date: "2024-03-09", Note: "ran 5k", Tags: []string{"running"}},
		storage.EntryInput{Date: "2024-03-10", Note: "wrote tests", Images: []string{"a.png", "b.png"}},
	)
}

func testConfig() *AppConfig {
	return &AppConfig{
		Keys:                  &config.KeysConfig{},
		ConfirmDeletions:      true,
		NarrowLayoutThreshold: 80,
		User:                  testUser,
	}
}

// newTestApp builds an app on store and delivers the initial load.
func newTestApp(t *testing.T, store storage.EntryStore, cfg *AppConfig, opts Options) *App {
	t.Helper()
	if opts.Now == nil {
		opts.Now = fixedNow
	}
	app := NewApp(store, createTestStyles(), cfg, opts)
	load(app)
	return app
}

// load runs the entry load synchronously and feeds the result to the app.
func load(app *App) {
	app.Update(loadEntriesCmd(app.store, app.config.User)())
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends s as a single paste-like rune message.
func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func storageInput(date string) storage.EntryInput {
	return storage.EntryInput{Date: date, Note: "did the thing"}
}
