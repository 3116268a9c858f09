package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"daylog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestManager seeds a data dir with two entries and returns a manager
// whose clock advances one second per snapshot.
func newTestManager(t *testing.T) (*Manager, *storage.Storage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.New(dir)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Add(ctx, "alice", storage.EntryInput{Date: "2025-12-14", Images: []string{"a.png"}})
	require.NoError(t, err)
	_, err = store.Add(ctx, "bob", storage.EntryInput{Date: "2025-12-15", Note: "hello"})
	require.NoError(t, err)

	m := NewManager(dir, "1.0.0-test", nil)
	clock := time.Date(2025, 12, 15, 14, 30, 22, 0, time.UTC)
	m.SetNowFunc(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	return m, store
}

func TestCreate(t *testing.T) {
	m, _ := newTestManager(t)

	name, err := m.Create()
	require.NoError(t, err)
	assert.Equal(t, "2025-12-15_143023_000", name)

	path := filepath.Join(m.Dir(), name)
	assert.FileExists(t, filepath.Join(path, storage.EntriesFile))

	var manifest Manifest
	require.NoError(t, readJSON(filepath.Join(path, ManifestFile), &manifest))
	assert.Equal(t, ManifestVersion, manifest.Version)
	assert.Equal(t, "1.0.0-test", manifest.AppVersion)
	assert.Equal(t, []string{storage.EntriesFile}, manifest.Files)
	assert.Equal(t, Stats{Entries: 2, Users: 2, Images: 1, FirstDate: "2025-12-14", LastDate: "2025-12-15"}, manifest.Stats)
}

func TestCreateWithoutData(t *testing.T) {
	m := NewManager(t.TempDir(), "1.0.0", nil)
	name, err := m.Create()
	require.NoError(t, err)

	info, err := m.Get(name)
	require.NoError(t, err)
	assert.Zero(t, info.Stats.Entries)
}

func TestListNewestFirst(t *testing.T) {
	m, _ := newTestManager(t)

	empty := NewManager(t.TempDir(), "x", nil)
	list, err := empty.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	first, err := m.Create()
	require.NoError(t, err)
	second, err := m.Create()
	require.NoError(t, err)

	// Junk in the backups dir is skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(m.Dir(), "not-a-backup"), 0700))

	list, err = m.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].Name)
	assert.Equal(t, first, list[1].Name)
}

func TestRestore(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	name, err := m.Create()
	require.NoError(t, err)

	entries, err := store.FetchAll(ctx, "alice")
	require.NoError(t, err)
	_, err = store.Delete(ctx, "alice", entries[0].ID)
	require.NoError(t, err)

	require.NoError(t, m.Restore(name))

	entries, err = store.FetchAll(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	list, err := m.List()
	require.NoError(t, err)
	assert.Len(t, list, 2, "restore takes a safety snapshot")
}

func TestRestoreLatest(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := NewManager(t.TempDir(), "x", nil).RestoreLatest()
	assert.ErrorIs(t, err, ErrNoBackups)

	_, err = m.Create()
	require.NoError(t, err)
	latest, err := m.Create()
	require.NoError(t, err)

	restored, err := m.RestoreLatest()
	require.NoError(t, err)
	assert.Equal(t, latest, restored)
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	m, _ := newTestManager(t)
	name, err := m.Create()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), name, storage.EntriesFile), []byte("{oops"), 0600))

	assert.Error(t, m.Restore(name))
	list, err := m.List()
	require.NoError(t, err)
	assert.Len(t, list, 1, "no safety snapshot for a refused restore")
}

func TestInvalidNames(t *testing.T) {
	m, _ := newTestManager(t)
	for _, name := range []string{"", "../etc", "nonexistent", "2025-12-15_143022_abc"} {
		assert.Error(t, m.Restore(name), name)
		assert.Error(t, m.Delete(name), name)
		_, err := m.Get(name)
		assert.Error(t, err, name)
	}
	assert.Error(t, m.Restore("2025-12-15_143022"), "valid name but missing snapshot")
}

func TestPrune(t *testing.T) {
	m, _ := newTestManager(t)
	var names []string
	for i := 0; i < 4; i++ {
		n, err := m.Create()
		require.NoError(t, err)
		names = append(names, n)
	}

	deleted, err := m.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, names[3], list[0].Name)

	_, err = m.Prune(-1)
	assert.Error(t, err)
}
