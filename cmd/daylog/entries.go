package main

// This file contains the entry subcommands: add, edit, rm, ls and tags.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"daylog/internal/day"
	"daylog/internal/search"
	"daylog/internal/stats"
	"daylog/internal/storage"

	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// shortIDLen is how much of an entry ID ls prints and edit/rm accept.
const shortIDLen = 8

// withStore opens the configured store for the duration of fn, wiring
// auto-commit when the file store is in use.
func withStore(cmd *cobra.Command, e *env, fn func(storage.EntryStore) error) error {
	store, fs, closeStore, err := e.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	_, flush := e.attachSync(fs, cmd.ErrOrStderr())
	defer flush()

	return fn(store)
}

func newAddCmd(e *env) *cobra.Command {
	var (
		date   string
		tags   []string
		images []string
	)
	cmd := &cobra.Command{
		Use:   "add [NOTE...]",
		Short: "Log an entry",
		Long: `Log an entry for today, or for --date. The note is optional; tags are
lowercased and deduplicated.`,
		Example: `  daylog add "ran 5k before work" -t running
  daylog add --date 2025-01-14 -t reading,books "finished Dune"
  daylog add -i whiteboard.png "sketched the new schema"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = day.FromTime(e.now()).String()
			}
			in := storage.EntryInput{
				Date:   date,
				Note:   strings.Join(args, " "),
				Images: images,
				Tags:   splitTagFlags(tags),
			}
			return withStore(cmd, e, func(store storage.EntryStore) error {
				ctx := cmd.Context()
				entry, err := store.Add(ctx, e.cfg.User, in)
				if err != nil {
					return fmt.Errorf("adding entry: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "✓ Logged %s (%s)\n", entry.Date, shortID(entry.ID))

				all, err := store.FetchAll(ctx, e.cfg.User)
				if err != nil {
					return fmt.Errorf("loading entries: %w", err)
				}
				s := stats.Compute(all, e.now())
				if s.CurrentStreak > 0 {
					fmt.Fprintf(out, "🔥 %d day streak\n", s.CurrentStreak)
				}
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&date, "date", "d", "", "entry date as YYYY-MM-DD (default today)")
	f.StringSliceVarP(&tags, "tag", "t", nil, "tag to attach (repeatable or comma-separated)")
	f.StringSliceVarP(&images, "image", "i", nil, "image path to attach (repeatable, at most 5)")
	return cmd
}

func newEditCmd(e *env) *cobra.Command {
	var (
		note         string
		date         string
		tags         []string
		addImages    []string
		removeImages []string
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change an entry",
		Long: `Change the note, date, tags or images of an entry. ID may be the short
form printed by 'daylog ls'. Only the flags given are applied; --tags replaces
the whole tag list and --tags "" clears it.`,
		Example: `  daylog edit 3f2a91c0 --note "ran 10k, not 5k"
  daylog edit 3f2a91c0 --tags running,outdoors --add-image route.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch storage.EntryPatch
			f := cmd.Flags()
			if f.Changed("note") {
				patch.Note = &note
			}
			if f.Changed("date") {
				patch.Date = &date
			}
			if f.Changed("tags") {
				t := splitTagFlags(tags)
				patch.Tags = &t
			}
			patch.AddImages = addImages
			patch.RemoveImages = removeImages
			if patch.Note == nil && patch.Date == nil && patch.Tags == nil && len(addImages) == 0 && len(removeImages) == 0 {
				return errors.New("nothing to change: pass --note, --date, --tags, --add-image or --remove-image")
			}

			return withStore(cmd, e, func(store storage.EntryStore) error {
				ctx := cmd.Context()
				id, err := resolveID(ctx, store, e.cfg.User, args[0])
				if err != nil {
					return err
				}
				entry, err := store.Update(ctx, e.cfg.User, id, patch)
				if err != nil {
					return fmt.Errorf("updating entry: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s\n", formatEntry(*entry, 0))
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&note, "note", "n", "", "replace the note")
	f.StringVarP(&date, "date", "d", "", "move the entry to another date")
	f.StringSliceVarP(&tags, "tags", "t", nil, "replace the tags")
	f.StringSliceVar(&addImages, "add-image", nil, "attach an image")
	f.StringSliceVar(&removeImages, "remove-image", nil, "detach an image")
	return cmd
}

func newRmCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"delete"},
		Short:   "Delete entries",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, e, func(store storage.EntryStore) error {
				ctx := cmd.Context()
				for _, arg := range args {
					id, err := resolveID(ctx, store, e.cfg.User, arg)
					if err != nil {
						return err
					}
					entry, err := store.Delete(ctx, e.cfg.User, id)
					if err != nil {
						return fmt.Errorf("deleting %s: %w", arg, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", formatEntry(*entry, 0))
				}
				return nil
			})
		},
	}
}

func newLsCmd(e *env) *cobra.Command {
	var (
		query     string
		from, to  string
		tags      []string
		hasImages bool
		limit     int
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:     "ls [QUERY]",
		Aliases: []string{"list", "search"},
		Short:   "List and search entries",
		Long: `List entries newest first. QUERY matches note text and tags,
case-insensitively. Filters combine, except repeated --tag flags, where
any one tag is enough.`,
		Example: `  daylog ls
  daylog ls run --from 2025-01-01
  daylog ls -t work --images --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				query = args[0]
			}
			filter := search.Filter{Query: query, Tags: splitTagFlags(tags), HasImages: hasImages}
			var err error
			if filter.From, err = parseOptionalDate(from, "--from"); err != nil {
				return err
			}
			if filter.To, err = parseOptionalDate(to, "--to"); err != nil {
				return err
			}

			return withStore(cmd, e, func(store storage.EntryStore) error {
				all, err := store.FetchAll(cmd.Context(), e.cfg.User)
				if err != nil {
					return fmt.Errorf("loading entries: %w", err)
				}
				shown := search.Apply(all, filter)
				if limit > 0 && len(shown) > limit {
					shown = shown[:limit]
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), shown)
				}
				printEntries(cmd.OutOrStdout(), shown, filter.IsZero())
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&query, "query", "q", "", "text to match in notes and tags")
	f.StringVar(&from, "from", "", "earliest date (YYYY-MM-DD)")
	f.StringVar(&to, "to", "", "latest date (YYYY-MM-DD)")
	f.StringSliceVarP(&tags, "tag", "t", nil, "match a tag (repeatable, any-of)")
	f.BoolVar(&hasImages, "images", false, "only entries with images")
	f.IntVarP(&limit, "limit", "n", 0, "show at most N entries")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newTagsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, e, func(store storage.EntryStore) error {
				tags, err := store.Tags(cmd.Context(), e.cfg.User)
				if err != nil {
					return fmt.Errorf("loading tags: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(tags) == 0 {
					fmt.Fprintln(out, "No tags yet.")
					return nil
				}
				for _, t := range tags {
					fmt.Fprintln(out, t)
				}
				return nil
			})
		},
	}
}

// resolveID expands a unique ID prefix to the full ID.
func resolveID(ctx context.Context, store storage.EntryStore, user, prefix string) (string, error) {
	if _, err := store.Get(ctx, user, prefix); err == nil {
		return prefix, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	all, err := store.FetchAll(ctx, user)
	if err != nil {
		return "", fmt.Errorf("loading entries: %w", err)
	}
	var matches []string
	for _, entry := range all {
		if strings.HasPrefix(entry.ID, prefix) {
			matches = append(matches, entry.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("entry %q: %w", prefix, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("entry %q is ambiguous (%d matches), use more characters", prefix, len(matches))
	}
}

func splitTagFlags(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, storage.SplitTags(v)...)
	}
	return out
}

func parseOptionalDate(s, flag string) (day.Date, error) {
	if s == "" {
		return day.Date{}, nil
	}
	d, err := day.Parse(s)
	if err != nil {
		return day.Date{}, fmt.Errorf("%s: %w", flag, err)
	}
	return d, nil
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// formatEntry renders one entry on a line. A positive width truncates the note.
func formatEntry(entry storage.Entry, width int) string {
	return fmt.Sprintf("%s  %s  %s", entry.Date, shortID(entry.ID), describe(entry.Note, entry.Tags, len(entry.Images), width))
}

func describe(note string, tags []string, images, width int) string {
	var b strings.Builder
	note = strings.ReplaceAll(note, "\n", " ")
	if width > 0 {
		note = runewidth.Truncate(note, width, "..")
	}
	b.WriteString(note)
	for _, t := range tags {
		b.WriteString(" #" + t)
	}
	if images > 0 {
		fmt.Fprintf(&b, " 🖼 %d", images)
	}
	return b.String()
}

func printEntries(w io.Writer, entries []storage.Entry, unfiltered bool) {
	if len(entries) == 0 {
		if unfiltered {
			fmt.Fprintln(w, "No entries yet. Log one with 'daylog add'.")
		} else {
			fmt.Fprintln(w, "No matches.")
		}
		return
	}
	for _, entry := range entries {
		fmt.Fprintln(w, formatEntry(entry, 60))
	}
	if !unfiltered {
		fmt.Fprintf(w, "\n%d matches\n", len(entries))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
