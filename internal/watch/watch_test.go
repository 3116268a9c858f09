package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"daylog/internal/fsutil"

	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(path, nil)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})
	require.NoError(t, w.Start(ctx))
	return w
}

func TestAtomicSaveIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"entries":[]}`), 0600))
	w := startWatcher(t, path)

	require.NoError(t, fsutil.WriteFileAtomic(path, []byte(`{"entries":[{}]}`), 0600))

	select {
	case c := <-w.Changes():
		require.Equal(t, path, c.Path)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestOtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "entries.json"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "daylog.log"), []byte("x"), 0600))

	select {
	case c := <-w.Changes():
		t.Fatalf("unexpected change %v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "entries.json"), nil)
	require.NoError(t, err)
	w.Stop()
	w.Stop()
}
