package main

// This file contains the backup and restore subcommands.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"daylog/internal/backup"

	"github.com/spf13/cobra"
)

func newBackupCmd(e *env) *cobra.Command {
	var (
		list  bool
		prune int
	)
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the journal",
		Long: `Copy entries.json into a timestamped directory under backups/ in the data
directory. Restore a snapshot with 'daylog restore'.`,
		Example: `  daylog backup
  daylog backup --list
  daylog backup --prune 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.requireFileStore("backup"); err != nil {
				return err
			}
			manager := backup.NewManager(e.cfg.GetDataDir(), version, e.log)
			out := cmd.OutOrStdout()

			switch {
			case list:
				return listBackups(out, manager, e.now())
			case cmd.Flags().Changed("prune"):
				if prune < 1 {
					return errors.New("--prune must keep at least 1 backup")
				}
				removed, err := manager.Prune(prune)
				if err != nil {
					return fmt.Errorf("pruning backups: %w", err)
				}
				fmt.Fprintf(out, "✓ Removed %d old backup(s), kept the newest %d\n", removed, prune)
				return nil
			default:
				return createBackup(out, manager)
			}
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list available backups")
	cmd.Flags().IntVar(&prune, "prune", 0, "delete all but the newest N backups")
	cmd.MarkFlagsMutuallyExclusive("list", "prune")
	return cmd
}

func createBackup(out io.Writer, manager *backup.Manager) error {
	name, err := manager.Create()
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}
	info, err := manager.Get(name)
	if err != nil {
		return fmt.Errorf("reading backup info: %w", err)
	}

	fmt.Fprintf(out, "✓ Backup created: %s\n", name)
	fmt.Fprintf(out, "  %s\n", describeStats(info.Stats))
	fmt.Fprintf(out, "  Location: %s\n", info.Path)
	return nil
}

func listBackups(out io.Writer, manager *backup.Manager, now time.Time) error {
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}
	if len(backups) == 0 {
		fmt.Fprintln(out, "No backups available.")
		fmt.Fprintln(out, "Run 'daylog backup' to create one.")
		return nil
	}

	fmt.Fprintln(out, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(out, "  %s  (%s)   Entries: %d, Images: %d\n",
			b.Name, formatAge(now.Sub(b.CreatedAt)), b.Stats.Entries, b.Stats.Images)
	}
	return nil
}

func describeStats(s backup.Stats) string {
	desc := fmt.Sprintf("Entries: %d, Users: %d, Images: %d", s.Entries, s.Users, s.Images)
	if s.FirstDate != "" {
		desc += fmt.Sprintf(", %s to %s", s.FirstDate, s.LastDate)
	}
	return desc
}

// formatAge returns a human-readable string for how long ago something was.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return agoUnit(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return agoUnit(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return agoUnit(int(d.Hours()/24), "day")
	default:
		return agoUnit(int(d.Hours()/24/7), "week")
	}
}

func agoUnit(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func newRestoreCmd(e *env) *cobra.Command {
	var latest, force bool
	cmd := &cobra.Command{
		Use:   "restore [NAME]",
		Short: "Restore the journal from a backup",
		Long: `Replace entries.json with a snapshot made by 'daylog backup'. A safety
backup of the current data is taken first.`,
		Example: `  daylog restore --latest
  daylog restore --force 2025-12-15_143022_000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.requireFileStore("restore"); err != nil {
				return err
			}
			manager := backup.NewManager(e.cfg.GetDataDir(), version, e.log)
			out := cmd.OutOrStdout()

			var name string
			switch {
			case latest && len(args) > 0:
				return errors.New("pass a backup name or --latest, not both")
			case latest:
				backups, err := manager.List()
				if err != nil {
					return fmt.Errorf("listing backups: %w", err)
				}
				if len(backups) == 0 {
					return backup.ErrNoBackups
				}
				name = backups[0].Name
			case len(args) == 1:
				name = args[0]
			default:
				return errors.New("no backup specified; use 'daylog restore NAME' or 'daylog restore --latest' (see 'daylog backup --list')")
			}

			info, err := manager.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
			fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  %s\n\n", describeStats(info.Stats))

			if !force {
				fmt.Fprintln(out, "⚠ This will overwrite your current data.")
				fmt.Fprint(out, "Continue? [y/N] ")
				ok, err := confirm(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				if !ok {
					fmt.Fprintln(out, "Restore cancelled.")
					return nil
				}
			}

			fmt.Fprintln(out, "✓ Creating safety backup first...")
			if err := manager.Restore(name); err != nil {
				return fmt.Errorf("restoring backup: %w", err)
			}
			fmt.Fprintf(out, "✓ Restored successfully from %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "restore the most recent backup")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

// confirm reads a yes/no answer. EOF counts as no.
func confirm(in io.Reader) (bool, error) {
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
