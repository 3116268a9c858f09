// Package backup keeps timestamped snapshots of the entries file under
// <data dir>/backups and restores them.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"daylog/internal/fsutil"
	"daylog/internal/storage"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	ManifestVersion = "2"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"

	nameLayout = "2006-01-02_150405"
)

// ErrNoBackups is returned by RestoreLatest when there is nothing to restore.
var ErrNoBackups = errors.New("no backups available")

// Data files included in each snapshot.
var dataFiles = []string{storage.EntriesFile}

// Manager handles backup and restore operations.
type Manager struct {
	dataDir    string
	backupDir  string
	appVersion string
	log        *zap.Logger
	now        func() time.Time
}

// Stats summarizes the snapshot contents.
type Stats struct {
	Entries   int    `json:"entries"`
	Users     int    `json:"users"`
	Images    int    `json:"images"`
	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`
}

// Manifest is written next to the copied files.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`
	Files      []string  `json:"files"`
	Stats      Stats     `json:"stats"`
}

// Info describes one snapshot.
type Info struct {
	Name      string // e.g. 2025-12-15_143022_123
	Path      string
	CreatedAt time.Time
	Stats     Stats
}

// NewManager creates a backup manager for dataDir.
func NewManager(dataDir, appVersion string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		log:        log,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name snapshots.
func (m *Manager) SetNowFunc(now func() time.Time) { m.now = now }

// Dir returns the backups directory.
func (m *Manager) Dir() string { return m.backupDir }

// Create snapshots the data files and returns the snapshot name.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	name := fmt.Sprintf("%s_%03d", now.Format(nameLayout), now.Nanosecond()/1e6)
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("backup %s already exists", name)
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Files:      []string{},
	}
	for _, filename := range dataFiles {
		src := filepath.Join(m.dataDir, filename)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := fsutil.CopyFile(src, filepath.Join(path, filename), 0600); err != nil {
			_ = os.RemoveAll(path)
			return "", fmt.Errorf("failed to copy %s: %w", filename, err)
		}
		manifest.Files = append(manifest.Files, filename)

		if j, err := readJournal(src); err == nil {
			manifest.Stats = summarize(j)
		}
	}

	if err := fsutil.WriteJSONAtomic(filepath.Join(path, ManifestFile), manifest, 0600); err != nil {
		_ = os.RemoveAll(path)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	m.log.Info("backup created", zap.String("name", name), zap.Int("entries", manifest.Stats.Entries))
	return name, nil
}

func summarize(j *storage.Journal) Stats {
	s := Stats{Entries: len(j.Entries)}
	users := make(map[string]struct{})
	for _, e := range j.Entries {
		users[e.UserID] = struct{}{}
		s.Images += len(e.Images)
		if _, ok := e.Day(); !ok {
			continue
		}
		if s.FirstDate == "" || e.Date < s.FirstDate {
			s.FirstDate = e.Date
		}
		if e.Date > s.LastDate {
			s.LastDate = e.Date
		}
	}
	s.Users = len(users)
	return s
}

// List returns all snapshots, newest first.
func (m *Manager) List() ([]Info, error) {
	dirEntries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		info, err := m.info(de.Name())
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Get returns information about one snapshot.
func (m *Manager) Get(name string) (*Info, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (*Info, error) {
	path := filepath.Join(m.backupDir, name)
	var manifest Manifest
	if err := readJSON(filepath.Join(path, ManifestFile), &manifest); err != nil {
		createdAt, perr := parseName(name)
		if perr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
	}
	return &Info{Name: name, Path: path, CreatedAt: manifest.CreatedAt, Stats: manifest.Stats}, nil
}

// Restore replaces the data files with the snapshot's copies. A safety
// snapshot of the current state is taken first and named in any error.
func (m *Manager) Restore(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(path, ManifestFile), &manifest); err != nil {
		manifest.Files = dataFiles
	}

	// Refuse to restore a snapshot that does not parse.
	for _, filename := range manifest.Files {
		src := filepath.Join(path, filename)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if _, err := readJournal(src); err != nil {
			return fmt.Errorf("backup %s: %s is invalid: %w", name, filename, err)
		}
	}

	safety, err := m.Create()
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, filename := range manifest.Files {
		src := filepath.Join(path, filename)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := fsutil.CopyFile(src, filepath.Join(m.dataDir, filename), 0600); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", filename, safety, err)
		}
	}

	m.log.Info("backup restored", zap.String("name", name), zap.String("safety", safety))
	return nil
}

// RestoreLatest restores the most recent snapshot.
func (m *Manager) RestoreLatest() (string, error) {
	backups, err := m.List()
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", ErrNoBackups
	}
	return backups[0].Name, m.Restore(backups[0].Name)
}

// Delete removes one snapshot.
func (m *Manager) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(path)
}

// Prune removes all but the keep most recent snapshots and returns how many
// were deleted.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative")
	}
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keep:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func readJournal(path string) (*storage.Journal, error) {
	var j storage.Journal
	if err := readJSON(path, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

// parseName accepts 2006-01-02_150405 with an optional _mmm suffix.
func parseName(name string) (time.Time, error) {
	if len(name) != len(nameLayout)+4 {
		return time.Parse(nameLayout, name)
	}
	t, err := time.Parse(nameLayout, name[:len(nameLayout)])
	if err != nil {
		return time.Time{}, err
	}
	if name[len(nameLayout)] != '_' {
		return time.Time{}, fmt.Errorf("invalid backup format")
	}
	n, err := strconv.Atoi(name[len(nameLayout)+1:])
	if err != nil || n < 0 || n > 999 {
		return time.Time{}, fmt.Errorf("invalid milliseconds")
	}
	return t.Add(time.Duration(n) * time.Millisecond), nil
}
