package main

// This file contains the sync subcommand.

import (
	"errors"
	"fmt"
	"io"
	"time"

	dsync "daylog/internal/sync"

	"github.com/spf13/cobra"
)

const syncLong = `Keep the data directory in a git repository and sync it with a remote.

Without flags, commits any pending changes and pushes them when a remote is
configured. Enable automatic commits after every save in config.yaml:

    sync:
      enabled: true
      auto_commit: true
      auto_push: false
      pull_on_startup: true

Pulls only fast-forward. If local and remote histories diverge, resolve them
with git inside the data directory.`

func newSyncCmd(e *env) *cobra.Command {
	var (
		initRepo bool
		status   bool
		push     bool
		pull     bool
		remote   string
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Commit and sync the data directory with git",
		Long:  syncLong,
		Example: `  daylog sync --init
  daylog sync --remote git@github.com:me/daylog-data.git
  daylog sync
  daylog sync --status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.requireFileStore("sync"); err != nil {
				return err
			}
			gs := e.gitSync()
			out := cmd.OutOrStdout()

			switch {
			case initRepo:
				return syncInit(out, gs, e.cfg.GetDataDir())
			case remote != "":
				if err := gs.AddRemote("origin", remote); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Remote origin set to %s\n", remote)
				return nil
			case status:
				return syncStatus(out, gs, e.cfg.Sync.Enabled, e.cfg.GetDataDir(), e.now())
			case pull:
				fmt.Fprintln(out, "Pulling latest changes...")
				if err := gs.Pull(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Pull complete.")
				return nil
			case push:
				fmt.Fprintln(out, "Pushing local changes...")
				if err := gs.Push(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Push complete.")
				return nil
			default:
				return syncDefault(out, gs)
			}
		},
	}
	f := cmd.Flags()
	f.BoolVar(&initRepo, "init", false, "initialize a git repository in the data directory")
	f.BoolVar(&status, "status", false, "show repository and remote status")
	f.BoolVar(&push, "push", false, "push committed changes")
	f.BoolVar(&pull, "pull", false, "fast-forward from the remote")
	f.StringVar(&remote, "remote", "", "set the origin remote URL")
	cmd.MarkFlagsMutuallyExclusive("init", "status", "push", "pull", "remote")
	return cmd
}

func syncInit(out io.Writer, gs *dsync.GitSync, dataDir string) error {
	if gs.IsRepo() {
		fmt.Fprintf(out, "Git repository already initialized in %s\n", dataDir)
		return nil
	}
	fmt.Fprintf(out, "Initializing git repository in %s...\n", dataDir)
	if err := gs.Init(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Repository initialized successfully!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Add a remote repository:")
	fmt.Fprintln(out, "     daylog sync --remote <your-repo-url>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  2. Enable sync in your config:")
	fmt.Fprintln(out, "     sync:")
	fmt.Fprintln(out, "       enabled: true")
	return nil
}

func syncStatus(out io.Writer, gs *dsync.GitSync, enabled bool, dataDir string, now time.Time) error {
	status, err := gs.Status()
	if err != nil {
		return fmt.Errorf("reading git status: %w", err)
	}

	fmt.Fprintln(out, "Git Sync Status")
	fmt.Fprintln(out, "───────────────")
	if enabled {
		fmt.Fprintln(out, "Sync:       enabled")
	} else {
		fmt.Fprintln(out, "Sync:       disabled")
	}
	fmt.Fprintf(out, "Data dir:   %s\n", dataDir)

	if !status.IsRepo {
		fmt.Fprintln(out, "Repository: not initialized")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'daylog sync --init' to initialize.")
		return nil
	}
	fmt.Fprintln(out, "Repository: initialized")
	fmt.Fprintf(out, "Branch:     %s\n", status.Branch)

	if status.HasRemote {
		fmt.Fprintf(out, "Remote:     %s (%s)\n", status.RemoteName, status.RemoteURL)
		if status.Ahead > 0 || status.Behind > 0 {
			fmt.Fprintf(out, "Status:     %d ahead, %d behind\n", status.Ahead, status.Behind)
		} else {
			fmt.Fprintln(out, "Status:     up to date")
		}
	} else {
		fmt.Fprintln(out, "Remote:     not configured")
	}

	if status.HasChanges {
		fmt.Fprintln(out, "Changes:    uncommitted changes present")
	} else {
		fmt.Fprintln(out, "Changes:    clean")
	}
	if status.LastCommitAt != nil {
		fmt.Fprintf(out, "Last commit: %s\n", formatAge(now.Sub(*status.LastCommitAt)))
	}
	return nil
}

func syncDefault(out io.Writer, gs *dsync.GitSync) error {
	if !gs.IsRepo() {
		return dsync.ErrNotRepo
	}
	fmt.Fprintln(out, "Committing changes...")
	if err := gs.CommitAll(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintln(out, "Pushing to remote...")
	err := gs.Push()
	switch {
	case errors.Is(err, dsync.ErrNoRemote):
		fmt.Fprintln(out, "Changes committed locally.")
		fmt.Fprintln(out, "(No remote configured - add one with 'daylog sync --remote <url>')")
		return nil
	case err != nil:
		fmt.Fprintln(out, "Changes committed locally.")
		return err
	}
	fmt.Fprintln(out, "Sync complete.")
	return nil
}
