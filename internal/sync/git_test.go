package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"daylog/internal/storage"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.AuthorName = "Test User"
	cfg.AuthorEmail = "test@example.com"
	return cfg
}

func initRepo(t *testing.T, cfg Config) (*GitSync, string) {
	t.Helper()
	dir := t.TempDir()
	gs := New(dir, cfg, nil)
	require.NoError(t, gs.Init())
	return gs, dir
}

func writeEntries(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.EntriesFile), []byte(content), 0600))
}

func headMessage(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	c, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	return c.Message
}

func commitCount(t *testing.T, dir string) int {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	iter, err := repo.Log(&git.LogOptions{})
	require.NoError(t, err)
	n := 0
	require.NoError(t, iter.ForEach(func(*object.Commit) error { n++; return nil }))
	return n
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	gs := New(dir, testConfig(), nil)
	assert.False(t, gs.IsRepo())

	require.NoError(t, gs.Init())
	assert.True(t, gs.IsRepo())

	content, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	for _, pattern := range []string{"backups/", "*.bak", "*.corrupt.*", "*.log"} {
		assert.Contains(t, string(content), pattern)
	}
	assert.Equal(t, "Initialize daylog data repository", headMessage(t, dir))

	// Re-running on an existing repository is harmless.
	require.NoError(t, gs.Init())
	assert.Equal(t, 1, commitCount(t, dir))
}

func TestCommit(t *testing.T) {
	gs, dir := initRepo(t, testConfig())
	writeEntries(t, dir, `{"entries":[]}`)

	require.NoError(t, gs.Commit([]string{storage.EntriesFile}))
	assert.Equal(t, "Update entries", headMessage(t, dir))

	// Nothing changed: no new commit.
	require.NoError(t, gs.Commit([]string{storage.EntriesFile}))
	assert.Equal(t, 2, commitCount(t, dir))
}

func TestCommitNotARepo(t *testing.T) {
	gs := New(t.TempDir(), testConfig(), nil)
	assert.ErrorIs(t, gs.Commit([]string{storage.EntriesFile}), ErrNotRepo)
}

func TestCommitAllIgnoresScratchFiles(t *testing.T) {
	gs, dir := initRepo(t, testConfig())
	writeEntries(t, dir, `{"entries":[]}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "daylog.log"), []byte("log"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "entries.json.bak"), []byte("{}"), 0600))

	require.NoError(t, gs.CommitAll())

	st, err := gs.Status()
	require.NoError(t, err)
	assert.False(t, st.HasChanges)
}

func TestStatus(t *testing.T) {
	gs := New(t.TempDir(), testConfig(), nil)
	st, err := gs.Status()
	require.NoError(t, err)
	assert.False(t, st.IsRepo)

	gs, dir := initRepo(t, testConfig())
	st, err = gs.Status()
	require.NoError(t, err)
	assert.True(t, st.IsRepo)
	assert.False(t, st.HasRemote)
	assert.NotEmpty(t, st.Branch)
	require.NotNil(t, st.LastCommitAt)
	assert.False(t, st.HasChanges)

	writeEntries(t, dir, `{"entries":[]}`)
	st, err = gs.Status()
	require.NoError(t, err)
	assert.True(t, st.HasChanges)
}

func TestAddRemoteReplaces(t *testing.T) {
	gs, _ := initRepo(t, testConfig())

	require.NoError(t, gs.AddRemote("origin", "https://example.com/a.git"))
	require.NoError(t, gs.AddRemote("origin", "https://example.com/b.git"))

	st, err := gs.Status()
	require.NoError(t, err)
	assert.True(t, st.HasRemote)
	assert.Equal(t, "https://example.com/b.git", st.RemoteURL)

	assert.Error(t, gs.AddRemote("", "x"))
	assert.Error(t, gs.AddRemote("origin", ""))
}

func TestPushPullNoRemote(t *testing.T) {
	gs, _ := initRepo(t, testConfig())
	assert.ErrorIs(t, gs.Push(), ErrNoRemote)
	assert.ErrorIs(t, gs.Pull(), ErrNoRemote)
}

func TestPushToLocalBareRemote(t *testing.T) {
	remoteDir := t.TempDir()
	_, err := git.PlainInit(remoteDir, true)
	require.NoError(t, err)

	gs, dir := initRepo(t, testConfig())
	require.NoError(t, gs.AddRemote("origin", remoteDir))
	writeEntries(t, dir, `{"entries":[]}`)
	require.NoError(t, gs.Commit([]string{storage.EntriesFile}))

	if err := gs.Push(); err != nil {
		t.Skipf("local transport unavailable: %v", err)
	}

	remote, err := git.PlainOpen(remoteDir)
	require.NoError(t, err)
	local, err := git.PlainOpen(dir)
	require.NoError(t, err)
	localHead, err := local.Head()
	require.NoError(t, err)
	ref, err := remote.Reference(localHead.Name(), true)
	require.NoError(t, err)
	assert.Equal(t, localHead.Hash(), ref.Hash())
}

func TestDebouncedAutoCommit(t *testing.T) {
	gs, dir := initRepo(t, testConfig())
	gs.SetDebounce(50 * time.Millisecond)

	writeEntries(t, dir, `{"entries":[1]}`)
	gs.OnSave(storage.SaveContext{Filename: storage.EntriesFile, Operation: "add", ItemName: "2024-01-01 one"})
	writeEntries(t, dir, `{"entries":[1,2]}`)
	gs.OnSave(storage.SaveContext{Filename: storage.EntriesFile, Operation: "add", ItemName: "2024-01-02 two"})

	require.Eventually(t, func() bool { return commitCount(t, dir) == 2 }, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, "Add 2 entries", headMessage(t, dir))
}

func TestOnSaveDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.AutoCommit = false
	gs, dir := initRepo(t, cfg)

	writeEntries(t, dir, `{"entries":[]}`)
	gs.OnSave(storage.SaveContext{Filename: storage.EntriesFile, Operation: "add"})
	gs.Flush()
	assert.Equal(t, 1, commitCount(t, dir))
}

func TestFlushCommitsImmediately(t *testing.T) {
	gs, dir := initRepo(t, testConfig())
	gs.SetDebounce(time.Hour)

	writeEntries(t, dir, `{"entries":[]}`)
	gs.OnSave(storage.SaveContext{Filename: storage.EntriesFile, Operation: "delete", ItemName: "2024-01-01 oops"})
	gs.Flush()

	assert.Equal(t, "Delete entry: 2024-01-01 oops", headMessage(t, dir))
}

func TestCommitMessage(t *testing.T) {
	gs := New(t.TempDir(), testConfig(), nil)
	files := []string{storage.EntriesFile}

	tests := []struct {
		name     string
		contexts []storage.SaveContext
		want     string
	}{
		{name: "no context", want: "Update entries"},
		{name: "add", contexts: []storage.SaveContext{{Operation: "add", ItemName: "2024-01-05 Ran 5k"}}, want: "Add entry: 2024-01-05 Ran 5k"},
		{name: "update", contexts: []storage.SaveContext{{Operation: "update", ItemName: "2024-01-05"}}, want: "Edit entry: 2024-01-05"},
		{name: "import", contexts: []storage.SaveContext{{Operation: "import", ItemName: "12 entries"}}, want: "Import 12 entries"},
		{name: "same op", contexts: []storage.SaveContext{{Operation: "delete"}, {Operation: "delete"}, {Operation: "delete"}}, want: "Delete 3 entries"},
		{name: "mixed", contexts: []storage.SaveContext{{Operation: "add"}, {Operation: "delete"}}, want: "Update: 2 changes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gs.commitMessage(files, tt.contexts))
		})
	}

	custom := testConfig()
	custom.CommitMessage = "sync"
	assert.Equal(t, "sync", New(t.TempDir(), custom, nil).commitMessage(files, nil))
}
