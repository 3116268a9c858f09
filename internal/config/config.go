// Package config loads daylog settings from
// $XDG_CONFIG_HOME/daylog/config.yaml, an optional .env file and DAYLOG_*
// environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"daylog/internal/fsutil"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvDataDir     = "DAYLOG_DATA_DIR"
	EnvUser        = "DAYLOG_USER"
	EnvDatabaseURL = "DAYLOG_DATABASE_URL"
	EnvLogLevel    = "DAYLOG_LOG_LEVEL"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.daylog)
	DataDir string `yaml:"data_dir,omitempty"`

	// User owns the entries written by this machine. Defaults to the OS user.
	User string `yaml:"user,omitempty"`

	Store         StoreConfig        `yaml:"store,omitempty"`
	Theme         ThemeConfig        `yaml:"theme,omitempty"`
	Keys          KeysConfig         `yaml:"keys,omitempty"`
	UX            UXConfig           `yaml:"ux,omitempty"`
	Sync          SyncConfig         `yaml:"sync,omitempty"`
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
	Logging       LoggingConfig      `yaml:"logging,omitempty"`
}

// StoreConfig selects where entries live.
type StoreConfig struct {
	Driver string `yaml:"driver,omitempty"` // file (default) or postgres
	DSN    string `yaml:"dsn,omitempty"`
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`

	// Reminder is the daily HH:MM after which a missing entry triggers a
	// notification. Empty disables it.
	Reminder string `yaml:"reminder,omitempty"`

	Sound bool `yaml:"sound,omitempty"`
}

// SyncConfig defines git synchronization of the data directory.
type SyncConfig struct {
	Enabled       bool   `yaml:"enabled,omitempty"`
	AutoCommit    bool   `yaml:"auto_commit,omitempty"`
	AutoPush      bool   `yaml:"auto_push,omitempty"`
	PullOnStartup bool   `yaml:"pull_on_startup,omitempty"`
	CommitMessage string `yaml:"commit_message,omitempty"` // "auto" for generated messages
	AuthorName    string `yaml:"author_name,omitempty"`
	AuthorEmail   string `yaml:"author_email,omitempty"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // json or console
	File   string `yaml:"file,omitempty"`   // defaults to daylog.log in the data dir
}

// ThemeConfig defines colors as hex strings.
type ThemeConfig struct {
	Primary    string `yaml:"primary,omitempty"`
	Accent     string `yaml:"accent,omitempty"`
	Muted      string `yaml:"muted,omitempty"`
	Background string `yaml:"background,omitempty"`
	Text       string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings, e.g. "q,ctrl+c".
// Empty means the built-in default.
type KeysConfig struct {
	Quit     string `yaml:"quit,omitempty"`
	Help     string `yaml:"help,omitempty"`
	NextPane string `yaml:"next_pane,omitempty"`
	Pane1    string `yaml:"pane_1,omitempty"`
	Pane2    string `yaml:"pane_2,omitempty"`
	Pane3    string `yaml:"pane_3,omitempty"`

	Up    string `yaml:"up,omitempty"`
	Down  string `yaml:"down,omitempty"`
	Left  string `yaml:"left,omitempty"`
	Right string `yaml:"right,omitempty"`

	PrevMonth string `yaml:"prev_month,omitempty"`
	NextMonth string `yaml:"next_month,omitempty"`
	Today     string `yaml:"today,omitempty"`

	Search      string `yaml:"search,omitempty"`
	AddEntry    string `yaml:"add_entry,omitempty"`
	DeleteEntry string `yaml:"delete_entry,omitempty"`

	Confirm string `yaml:"confirm,omitempty"`
	Cancel  string `yaml:"cancel,omitempty"`
	Undo    string `yaml:"undo,omitempty"`
	Redo    string `yaml:"redo,omitempty"`
}

// UXConfig defines user experience settings.
type UXConfig struct {
	ConfirmDeletions      bool `yaml:"confirm_deletions,omitempty"`
	NarrowLayoutThreshold int  `yaml:"narrow_layout_threshold,omitempty"`
	RecentEntries         int  `yaml:"recent_entries,omitempty"` // shown in reports
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		User:    defaultUser(),
		Store:   StoreConfig{Driver: DriverFile},
		Theme: ThemeConfig{
			Primary: "#7C3AED",
			Accent:  "#10B981",
			Muted:   "#6B7280",
		},
		UX: UXConfig{
			ConfirmDeletions:      true,
			NarrowLayoutThreshold: 80,
			RecentEntries:         5,
		},
		Sync: SyncConfig{
			AutoCommit:    true,
			CommitMessage: "auto",
			AuthorName:    "daylog",
			AuthorEmail:   "daylog@localhost",
		},
		Notifications: NotificationConfig{
			Reminder: "20:00",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".daylog"
	}
	return filepath.Join(home, ".daylog")
}

func defaultUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "default"
}

// Path returns the config file location (XDG compliant), or "" when no home
// directory can be determined.
func Path() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "daylog", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "daylog", "config.yaml")
}

// Load reads the config file, then .env in the working directory, then the
// environment. A missing file or .env is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFile(Path())
}

// LoadFile is Load for an explicit path, without reading .env.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.merge(data); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) merge(data []byte) error {
	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return err
	}
	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc)
	c.mergeFromYAML(&userCfg, &doc)
	return nil
}

func (c *Config) applyEnv() {
	setString(&c.DataDir, os.Getenv(EnvDataDir))
	setString(&c.User, os.Getenv(EnvUser))
	setString(&c.Logging.Level, os.Getenv(EnvLogLevel))
	if dsn := os.Getenv(EnvDatabaseURL); dsn != "" {
		c.Store.DSN = dsn
		if c.Store.Driver == "" || c.Store.Driver == DriverFile {
			c.Store.Driver = DriverPostgres
		}
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "", DriverFile:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.driver is postgres but no dsn is set (store.dsn or %s)", EnvDatabaseURL)
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Notifications.Reminder != "" {
		if _, err := time.Parse("15:04", c.Notifications.Reminder); err != nil {
			return fmt.Errorf("notifications.reminder %q: want HH:MM", c.Notifications.Reminder)
		}
	}
	if strings.TrimSpace(c.User) == "" {
		return errors.New("user must not be empty")
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// mergeNonEmpty applies non-empty strings and positive ints from other.
// Booleans need presence-aware merging and are left to mergeFromYAML.
func (c *Config) mergeNonEmpty(other *Config) {
	setString(&c.DataDir, other.DataDir)
	setString(&c.User, other.User)
	setString(&c.Store.Driver, other.Store.Driver)
	setString(&c.Store.DSN, other.Store.DSN)

	for dst, v := range map[*string]string{
		&c.Theme.Primary:    other.Theme.Primary,
		&c.Theme.Accent:     other.Theme.Accent,
		&c.Theme.Muted:      other.Theme.Muted,
		&c.Theme.Background: other.Theme.Background,
		&c.Theme.Text:       other.Theme.Text,

		&c.Keys.Quit:        other.Keys.Quit,
		&c.Keys.Help:        other.Keys.Help,
		&c.Keys.NextPane:    other.Keys.NextPane,
		&c.Keys.Pane1:       other.Keys.Pane1,
		&c.Keys.Pane2:       other.Keys.Pane2,
		&c.Keys.Pane3:       other.Keys.Pane3,
		&c.Keys.Up:          other.Keys.Up,
		&c.Keys.Down:        other.Keys.Down,
		&c.Keys.Left:        other.Keys.Left,
		&c.Keys.Right:       other.Keys.Right,
		&c.Keys.PrevMonth:   other.Keys.PrevMonth,
		&c.Keys.NextMonth:   other.Keys.NextMonth,
		&c.Keys.Today:       other.Keys.Today,
		&c.Keys.Search:      other.Keys.Search,
		&c.Keys.AddEntry:    other.Keys.AddEntry,
		&c.Keys.DeleteEntry: other.Keys.DeleteEntry,
		&c.Keys.Confirm:     other.Keys.Confirm,
		&c.Keys.Cancel:      other.Keys.Cancel,
		&c.Keys.Undo:        other.Keys.Undo,
		&c.Keys.Redo:        other.Keys.Redo,

		&c.Sync.CommitMessage: other.Sync.CommitMessage,
		&c.Sync.AuthorName:    other.Sync.AuthorName,
		&c.Sync.AuthorEmail:   other.Sync.AuthorEmail,

		&c.Logging.Level:  other.Logging.Level,
		&c.Logging.Format: other.Logging.Format,
		&c.Logging.File:   other.Logging.File,
	} {
		setString(dst, v)
	}

	if other.UX.NarrowLayoutThreshold > 0 {
		c.UX.NarrowLayoutThreshold = other.UX.NarrowLayoutThreshold
	}
	if other.UX.RecentEntries > 0 {
		c.UX.RecentEntries = other.UX.RecentEntries
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	bools := []struct {
		path []string
		dst  *bool
		v    bool
	}{
		{[]string{"ux", "confirm_deletions"}, &c.UX.ConfirmDeletions, other.UX.ConfirmDeletions},
		{[]string{"sync", "enabled"}, &c.Sync.Enabled, other.Sync.Enabled},
		{[]string{"sync", "auto_commit"}, &c.Sync.AutoCommit, other.Sync.AutoCommit},
		{[]string{"sync", "auto_push"}, &c.Sync.AutoPush, other.Sync.AutoPush},
		{[]string{"sync", "pull_on_startup"}, &c.Sync.PullOnStartup, other.Sync.PullOnStartup},
		{[]string{"notifications", "enabled"}, &c.Notifications.Enabled, other.Notifications.Enabled},
		{[]string{"notifications", "sound"}, &c.Notifications.Sound, other.Notifications.Sound},
	}
	for _, b := range bools {
		if yamlHasPath(doc, b.path...) {
			*b.dst = b.v
		}
	}

	// An explicit empty reminder disables it.
	if yamlHasPath(doc, "notifications", "reminder") {
		c.Notifications.Reminder = other.Notifications.Reminder
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to Path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the data directory with a leading ~ expanded.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// LogFile returns the resolved log file path.
func (c *Config) LogFile() string {
	switch c.Logging.File {
	case "":
		return filepath.Join(c.GetDataDir(), "daylog.log")
	case "-":
		return "-"
	default:
		return expandHome(c.Logging.File)
	}
}

// ReminderAt returns the reminder hour and minute. ok is false when no
// reminder is configured.
func (c *Config) ReminderAt() (hour, minute int, ok bool) {
	t, err := time.Parse("15:04", c.Notifications.Reminder)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, strings.TrimLeft(p[1:], `/\`))
}
