// Package storage persists progress entries. The file-backed Storage keeps
// every user's entries in a single entries.json inside the data directory.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"daylog/internal/day"
	"daylog/internal/fsutil"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// EntriesFile is the name of the data file inside the data directory.
const EntriesFile = "entries.json"

// SaveContext describes a completed write, for semantic commit messages such
// as "Add entry: 2024-01-05 morning run".
type SaveContext struct {
	Filename  string
	Operation string // add, update, delete, restore, import
	ItemName  string
}

// Storage is the file-backed EntryStore.
type Storage struct {
	dataDir string
	log     *zap.Logger

	mu     sync.Mutex // guards load-modify-save cycles
	onSave func(SaveContext)
	now    func() time.Time
}

var _ EntryStore = (*Storage)(nil)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// Option configures a Storage.
type Option func(*Storage)

// WithLogger sets the logger used for recovery warnings.
func WithLogger(log *zap.Logger) Option {
	return func(s *Storage) { s.log = log }
}

// New opens (creating if needed) the data directory and entries file.
func New(dataDir string, opts ...Option) (*Storage, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Storage{dataDir: dataDir, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if !fileExists(s.path(EntriesFile)) {
		if err := s.save(&Journal{Entries: []Entry{}}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetNowFunc overrides the clock used for timestamps. nil resets to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Now returns the current time according to the storage clock.
func (s *Storage) Now() time.Time { return s.now() }

// SetOnSave registers a callback run after each successful mutation.
func (s *Storage) SetOnSave(fn func(SaveContext)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSave = fn
}

// DataDir returns the data directory.
func (s *Storage) DataDir() string { return s.dataDir }

// Path returns the full path of the entries file.
func (s *Storage) Path() string { return s.path(EntriesFile) }

func (s *Storage) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// Load reads the whole journal, recovering from a corrupt file if needed.
func (s *Storage) Load() (*Journal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Storage) load() (*Journal, error) {
	j := Journal{Entries: []Entry{}}
	err := s.loadJSONWithRecovery(EntriesFile, &j)
	return &j, err
}

func (s *Storage) save(j *Journal) error {
	return s.writeJSONAtomic(EntriesFile, j)
}

func (s *Storage) writeJSONAtomic(filename string, v any) error {
	path := s.path(filename)
	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteJSONAtomic(path, v, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func (s *Storage) notify(op string, e Entry) {
	if s.onSave == nil {
		return
	}
	s.onSave(SaveContext{Filename: EntriesFile, Operation: op, ItemName: describe(e)})
}

// describe renders an entry for commit messages: its date and the start of its note.
func describe(e Entry) string {
	note := strings.Join(strings.Fields(e.Note), " ")
	if note == "" {
		return e.Date
	}
	if utf8.RuneCountInString(note) > 40 {
		note = string([]rune(note)[:39]) + "…"
	}
	return e.Date + " " + note
}

func (s *Storage) loadJSONWithRecovery(filename string, v any) error {
	path := s.path(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.writeJSONAtomic(filename, v)
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("%s is empty", filename))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("parse %s: %w", filename, err))
	}
	return nil
}

// recoverCorruptJSON restores from the .bak copy when it parses, otherwise
// resets the file. Either way the broken file is kept aside and the returned
// error says what happened; v holds usable data in both cases.
func (s *Storage) recoverCorruptJSON(filename string, v any, cause error) error {
	path := s.path(filename)
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, s.now().Format("20060102-150405"))

	if bak, err := os.ReadFile(path + fsutil.BakSuffix); err == nil && len(bytes.TrimSpace(bak)) > 0 {
		if err := json.Unmarshal(bak, v); err == nil {
			_ = os.Rename(path, corruptPath)
			_ = s.writeJSONAtomic(filename, v)
			s.log.Warn("recovered data file from backup", zap.String("file", filename), zap.Error(cause))
			return fmt.Errorf("%w (recovered from %s.bak)", cause, filename)
		}
	}

	_ = os.Rename(path, corruptPath)
	_ = s.writeJSONAtomic(filename, v)
	s.log.Error("reset corrupt data file", zap.String("file", filename), zap.String("moved_to", corruptPath), zap.Error(cause))
	return fmt.Errorf("%w (reset to defaults; original moved to %s)", cause, corruptPath)
}

// ============================================================================
// Queries
// ============================================================================

func (s *Storage) userEntries(ctx context.Context, userID string, keep func(Entry) bool) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	j, err := s.Load()
	if err != nil && j == nil {
		return nil, err
	}

	out := []Entry{}
	for _, e := range j.Entries {
		if e.UserID == userID && (keep == nil || keep(e)) {
			out = append(out, e)
		}
	}
	SortEntries(out)
	return out, err
}

// FetchAll returns the user's whole history, oldest first.
func (s *Storage) FetchAll(ctx context.Context, userID string) ([]Entry, error) {
	return s.userEntries(ctx, userID, nil)
}

// FetchByDateRange returns entries dated within [from, to].
func (s *Storage) FetchByDateRange(ctx context.Context, userID string, from, to day.Date) ([]Entry, error) {
	return s.userEntries(ctx, userID, func(e Entry) bool {
		d, ok := e.Day()
		return ok && d.Between(from, to)
	})
}

// FetchByMonth returns entries dated within the given month.
func (s *Storage) FetchByMonth(ctx context.Context, userID string, year int, month time.Month) ([]Entry, error) {
	first := day.New(year, month, 1)
	return s.FetchByDateRange(ctx, userID, first, first.EndOfMonth())
}

// FetchByDate returns the entries of a single day, most recently created first.
func (s *Storage) FetchByDate(ctx context.Context, userID string, date day.Date) ([]Entry, error) {
	entries, err := s.FetchByDateRange(ctx, userID, date, date)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, err
}

// Get returns a single entry.
func (s *Storage) Get(ctx context.Context, userID, id string) (*Entry, error) {
	entries, err := s.userEntries(ctx, userID, func(e Entry) bool { return e.ID == id })
	if err != nil && entries == nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &entries[0], nil
}

// Tags returns the user's unique tags, sorted.
func (s *Storage) Tags(ctx context.Context, userID string) ([]string, error) {
	entries, err := s.FetchAll(ctx, userID)
	return CollectTags(entries), err
}

// ============================================================================
// Mutations
// ============================================================================

// mutate runs fn over the loaded journal and saves it when fn succeeds.
func (s *Storage) mutate(ctx context.Context, fn func(j *Journal) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.load()
	if err != nil {
		// Recovery already happened; keep going with what was recovered.
		s.log.Warn("loaded entries with recovery", zap.Error(err))
	}
	if err := fn(j); err != nil {
		return err
	}
	return s.save(j)
}

// Add creates a new entry.
func (s *Storage) Add(ctx context.Context, userID string, in EntryInput) (*Entry, error) {
	e, err := NewEntry(userID, in, s.now())
	if err != nil {
		return nil, err
	}
	err = s.mutate(ctx, func(j *Journal) error {
		j.Entries = append(j.Entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify("add", e)
	return &e, nil
}

// Update edits an existing entry.
func (s *Storage) Update(ctx context.Context, userID, id string, patch EntryPatch) (*Entry, error) {
	var updated Entry
	err := s.mutate(ctx, func(j *Journal) error {
		i := indexOf(j.Entries, userID, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		e := j.Entries[i]
		if err := ApplyPatch(&e, patch, s.now()); err != nil {
			return err
		}
		j.Entries[i] = e
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify("update", updated)
	return &updated, nil
}

// Delete removes an entry and returns it.
func (s *Storage) Delete(ctx context.Context, userID, id string) (*Entry, error) {
	var removed Entry
	err := s.mutate(ctx, func(j *Journal) error {
		i := indexOf(j.Entries, userID, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		removed = j.Entries[i]
		j.Entries = append(j.Entries[:i], j.Entries[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify("delete", removed)
	return &removed, nil
}

// Restore re-inserts a previously removed entry with its ID and timestamps.
func (s *Storage) Restore(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("entry id is required")
	}
	if strings.TrimSpace(e.UserID) == "" {
		return ErrUserRequired
	}
	if _, err := normalizeDate(e.Date); err != nil {
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	err := s.mutate(ctx, func(j *Journal) error {
		if indexOf(j.Entries, e.UserID, e.ID) >= 0 {
			return fmt.Errorf("entry already exists: %s", e.ID)
		}
		j.Entries = append(j.Entries, e)
		return nil
	})
	if err != nil {
		return err
	}
	s.notify("restore", e)
	return nil
}

// AddMany appends several validated entries in one write. Used by importers.
func (s *Storage) AddMany(ctx context.Context, userID string, inputs []EntryInput) ([]Entry, error) {
	now := s.now()
	added := make([]Entry, 0, len(inputs))
	for _, in := range inputs {
		e, err := NewEntry(userID, in, now)
		if err != nil {
			return nil, fmt.Errorf("entry dated %q: %w", in.Date, err)
		}
		added = append(added, e)
	}
	if len(added) == 0 {
		return added, nil
	}
	err := s.mutate(ctx, func(j *Journal) error {
		j.Entries = append(j.Entries, added...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.onSave != nil {
		s.onSave(SaveContext{Filename: EntriesFile, Operation: "import", ItemName: fmt.Sprintf("%d entries", len(added))})
	}
	return added, nil
}

func indexOf(entries []Entry, userID, id string) int {
	for i, e := range entries {
		if e.ID == id && e.UserID == userID {
			return i
		}
	}
	return -1
}
