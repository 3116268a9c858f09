// Package main is the entry point for the daylog application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"daylog/internal/config"
	"daylog/internal/logging"
	"daylog/internal/notify"
	"daylog/internal/storage"
	"daylog/internal/storage/pgstore"
	dsync "daylog/internal/sync"
	"daylog/internal/ui"
	"daylog/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information (set by goreleaser via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// clock is the time source for "today"; tests pin it.
var clock = time.Now

// env carries what every command needs once config is loaded.
type env struct {
	cfg *config.Config
	log *zap.Logger
	now func() time.Time

	closeLog func() error
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	dataDir    string
	user       string
}

func newRootCmd() *cobra.Command {
	var (
		flags globalFlags
		e     = &env{now: clock}
	)

	root := &cobra.Command{
		Use:   "daylog",
		Short: "Track daily progress from the terminal",
		Long: `daylog keeps a dated journal of what you got done, one entry at a time.

Run it without arguments to open the dashboard: a stats pane with streaks and
charts, a month calendar of active days and the entries logged on the
selected day. The subcommands script the same journal from a shell.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(flags)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return e.teardown()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), e)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default "+config.Path()+")")
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory holding entries.json")
	pf.StringVarP(&flags.user, "user", "u", "", "journal owner")

	root.AddCommand(
		newAddCmd(e),
		newEditCmd(e),
		newRmCmd(e),
		newLsCmd(e),
		newTagsCmd(e),
		newStatsCmd(e),
		newCalendarCmd(e),
		newBackupCmd(e),
		newRestoreCmd(e),
		newSyncCmd(e),
		newImportCmd(e),
	)
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (e *env) setup(flags globalFlags) error {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.user != "" {
		cfg.User = flags.user
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, closeLog, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.LogFile(),
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	e.cfg = cfg
	e.log = log.With(zap.String("user", cfg.User))
	e.closeLog = closeLog
	return nil
}

func (e *env) teardown() error {
	if e.closeLog == nil {
		return nil
	}
	_ = e.log.Sync()
	return e.closeLog()
}

// openStore returns the configured entry store. The file store is also
// returned separately because sync, backup and the watcher operate on its
// data directory.
func (e *env) openStore() (storage.EntryStore, *storage.Storage, func() error, error) {
	if e.cfg.Store.Driver == config.DriverPostgres {
		pg, err := pgstore.Open(e.cfg.Store.DSN, e.log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return pg, nil, pg.Close, nil
	}
	fs, err := storage.New(e.cfg.GetDataDir(), storage.WithLogger(e.log))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening data directory: %w", err)
	}
	return fs, fs, func() error { return nil }, nil
}

// requireFileStore rejects commands that work on the data directory when
// entries live in a database.
func (e *env) requireFileStore(what string) error {
	if e.cfg.Store.Driver == config.DriverPostgres {
		return fmt.Errorf("%s works on the file store only (store.driver is %q)", what, e.cfg.Store.Driver)
	}
	return nil
}

func (e *env) gitSync() *dsync.GitSync {
	sc := e.cfg.Sync
	cfg := dsync.DefaultConfig()
	cfg.Enabled = sc.Enabled
	cfg.AutoCommit = sc.AutoCommit
	cfg.AutoPush = sc.AutoPush
	cfg.PullOnStartup = sc.PullOnStartup
	if sc.CommitMessage != "" {
		cfg.CommitMessage = sc.CommitMessage
	}
	if sc.AuthorName != "" {
		cfg.AuthorName = sc.AuthorName
	}
	if sc.AuthorEmail != "" {
		cfg.AuthorEmail = sc.AuthorEmail
	}
	return dsync.New(e.cfg.GetDataDir(), cfg, e.log)
}

// attachSync hooks auto-commit onto a file store when sync is enabled. The
// returned func flushes any pending commit and must run before exit.
func (e *env) attachSync(fs *storage.Storage, stderr io.Writer) (*dsync.GitSync, func()) {
	if fs == nil || !e.cfg.Sync.Enabled {
		return nil, func() {}
	}
	gs := e.gitSync()
	if !gs.IsRepo() {
		e.log.Info("sync enabled but data directory is not a git repository")
		return nil, func() {}
	}
	if e.cfg.Sync.PullOnStartup {
		if err := gs.Pull(); err != nil && !errors.Is(err, dsync.ErrNoRemote) {
			fmt.Fprintf(stderr, "Warning: sync pull failed: %v\n", err)
			e.log.Warn("pull on startup failed", zap.Error(err))
		}
	}
	if e.cfg.Sync.AutoCommit {
		fs.SetOnSave(gs.OnSave)
	}
	return gs, gs.Flush
}

func runDashboard(ctx context.Context, e *env) error {
	store, fs, closeStore, err := e.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	gs, flush := e.attachSync(fs, os.Stderr)
	defer flush()

	opts := ui.Options{Sync: gs, Log: e.log, Notifier: notify.New()}

	if fs != nil {
		w, err := watch.New(fs.Path(), e.log)
		if err != nil {
			e.log.Warn("file watcher unavailable", zap.Error(err))
		} else {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			if err := w.Start(ctx); err != nil {
				e.log.Warn("file watcher failed to start", zap.Error(err))
			} else {
				defer w.Stop()
				opts.Watcher = w
			}
		}
	}

	if e.cfg.Notifications.Enabled {
		r, err := notify.ParseReminder(e.cfg.Notifications.Reminder, e.cfg.Notifications.Sound)
		if err != nil {
			return fmt.Errorf("notifications.reminder: %w", err)
		}
		opts.Reminder = r
	}

	appCfg := &ui.AppConfig{
		Keys:                  &e.cfg.Keys,
		ConfirmDeletions:      e.cfg.UX.ConfirmDeletions,
		ShowOnboarding:        true,
		NarrowLayoutThreshold: e.cfg.UX.NarrowLayoutThreshold,
		User:                  e.cfg.User,
	}

	e.log.Info("starting dashboard", zap.String("version", version), zap.String("store", e.cfg.Store.Driver))
	if err := ui.Run(store, ui.NewStyles(e.cfg), appCfg, opts); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
