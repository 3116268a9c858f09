// Package watch reports changes to the entries file made by other processes,
// such as the CLI or a git pull, so the dashboard can recompute.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// DefaultDebounce coalesces the burst of events produced by one atomic save
// (temp create, write, rename, .bak write).
const DefaultDebounce = 150 * time.Millisecond

// Change is emitted once per burst of events touching the watched file.
type Change struct {
	Path string
	At   time.Time
}

// Watcher watches a single file by watching its directory. Atomic saves
// replace the file, which would drop a watch placed on the file itself.
type Watcher struct {
	dir      string
	name     string
	debounce time.Duration
	log      *zap.Logger

	watcher  *fsnotify.Watcher
	changes  chan Change
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for path. Call Start to begin delivering changes.
func New(path string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	return &Watcher{
		dir:      filepath.Dir(path),
		name:     filepath.Base(path),
		debounce: DefaultDebounce,
		log:      log,
		watcher:  fw,
		changes:  make(chan Change, 1),
		stop:     make(chan struct{}),
	}, nil
}

// SetDebounce overrides the coalescing window. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Start begins watching in a background goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	go w.run(ctx)
	return nil
}

// Stop stops watching and releases resources. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()
	})
}

// Changes returns the channel of coalesced changes. At most one change is
// buffered; a slow reader sees the latest burst only once.
func (w *Watcher) Changes() <-chan Change { return w.changes }

func (w *Watcher) run(ctx context.Context) {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.name || !relevant(ev.Op) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.emit(Change{Path: filepath.Join(w.dir, w.name), At: time.Now()})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}

func (w *Watcher) emit(c Change) {
	select {
	case w.changes <- c:
	default:
		// A change is already pending for the reader.
	}
}
