package main

// This file contains the import subcommand.

import (
	"fmt"
	"io"
	"os"
	"strings"

	"daylog/internal/importer"
	"daylog/internal/storage"

	"github.com/spf13/cobra"
)

const importLong = `Import entries exported from another tool. FILE may be - for stdin.

FORMATS:
    legacy   JSON exported by the old web service: an array of rows, or
             {"data": [...]}, with fields tanggal (date), catatan (note),
             gambar (image paths) and tags.
    csv      A header row naming date, note, images and tags columns in any
             order. Only date is required. Separate images with ';' or '|'
             and tags with commas or spaces.

Rows whose date and note match an existing entry are skipped, so running the
same import twice is safe. Invalid rows are reported and skipped.`

func newImportCmd(e *env) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import FORMAT FILE",
		Short: "Import entries from a legacy export or CSV",
		Long:  importLong,
		Example: `  daylog import legacy progress.json
  daylog import --dry-run csv journal.csv
  cat journal.csv | daylog import csv -`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: importer.SupportedFormats(),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, path := args[0], args[1]
			imp := importer.Get(format)
			if imp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(importer.SupportedFormats(), ", "))
			}

			in, closeIn, err := openInput(cmd, path)
			if err != nil {
				return err
			}
			defer closeIn()

			out := cmd.OutOrStdout()
			if dryRun {
				entries, result, err := importer.Preview(imp, in, e.cfg.User)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				fmt.Fprintf(out, "Dry run: %d entries would be imported from %s\n", len(entries), path)
				for _, entry := range entries {
					fmt.Fprintf(out, "  %s  %s\n", entry.Date, describe(entry.Note, entry.Tags, len(entry.Images), 50))
				}
				printProblems(out, result.Errors)
				return nil
			}

			return withStore(cmd, e, func(store storage.EntryStore) error {
				result, err := importer.Import(cmd.Context(), imp, in, store, e.cfg.User, e.log)
				if err != nil {
					return fmt.Errorf("importing %s: %w", path, err)
				}
				fmt.Fprintf(out, "✓ Imported %d entries (%d duplicates skipped)\n", result.Imported, result.Skipped)
				printProblems(out, result.Errors)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without writing anything")
	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening import file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func printProblems(out io.Writer, problems []string) {
	if len(problems) == 0 {
		return
	}
	fmt.Fprintf(out, "⚠ %d rows skipped:\n", len(problems))
	for _, p := range problems {
		fmt.Fprintf(out, "  - %s\n", p)
	}
}
