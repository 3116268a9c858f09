// Package importer brings entries from other sources into an entry store:
// JSON rows exported from the legacy web service and a simple CSV layout.
package importer

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"daylog/internal/storage"

	"go.uber.org/zap"
)

// Result contains statistics about an import operation.
type Result struct {
	Imported int      // entries written
	Skipped  int      // duplicates of existing entries
	Errors   []string // rows that failed validation
}

// Importer parses one source format.
type Importer interface {
	// Parse reads entries without touching any store. Rows that cannot be
	// read at all are reported in the returned problems.
	Parse(r io.Reader) (entries []storage.EntryInput, problems []string, err error)

	// Name returns the format name used on the command line.
	Name() string
}

// bulkAdder is implemented by stores that can write many entries at once.
type bulkAdder interface {
	AddMany(ctx context.Context, userID string, inputs []storage.EntryInput) ([]storage.Entry, error)
}

// Get returns the importer for format, or nil.
func Get(format string) Importer {
	switch format {
	case "legacy":
		return LegacyImporter{}
	case "csv":
		return CSVImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"csv", "legacy"}
}

// Preview parses r and validates every row as Import would, without writing.
func Preview(imp Importer, r io.Reader, userID string) ([]storage.EntryInput, *Result, error) {
	inputs, problems, err := imp.Parse(r)
	if err != nil {
		return nil, nil, err
	}
	valid, res := validate(inputs, userID)
	res.Errors = append(problems, res.Errors...)
	return valid, res, nil
}

// Import parses r and adds every valid row that does not duplicate an
// existing entry (same date and note) to store.
func Import(ctx context.Context, imp Importer, r io.Reader, store storage.EntryStore, userID string, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	valid, res, err := Preview(imp, r, userID)
	if err != nil {
		return nil, err
	}

	existing, err := store.FetchAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load existing entries: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[key(e.Date, e.Note)] = true
	}

	var fresh []storage.EntryInput
	for _, in := range valid {
		k := key(in.Date, in.Note)
		if seen[k] {
			res.Skipped++
			continue
		}
		seen[k] = true
		fresh = append(fresh, in)
	}

	if bulk, ok := store.(bulkAdder); ok {
		added, err := bulk.AddMany(ctx, userID, fresh)
		if err != nil {
			return res, err
		}
		res.Imported = len(added)
	} else {
		for _, in := range fresh {
			if _, err := store.Add(ctx, userID, in); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", in.Date, err))
				continue
			}
			res.Imported++
		}
	}

	log.Info("import finished",
		zap.String("format", imp.Name()),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Int("errors", len(res.Errors)))
	return res, nil
}

func key(date, note string) string {
	return date + "\x00" + strings.TrimSpace(note)
}

// validate keeps the rows a store would accept, with dates and tags in
// canonical form, oldest first.
func validate(inputs []storage.EntryInput, userID string) ([]storage.EntryInput, *Result) {
	res := &Result{}
	valid := make([]storage.EntryInput, 0, len(inputs))
	for i, in := range inputs {
		e, err := storage.NewEntry(userID, in, time.Time{})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d (%q): %v", i+1, in.Date, err))
			continue
		}
		in.Date, in.Tags = e.Date, e.Tags
		valid = append(valid, in)
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Date < valid[j].Date })
	return valid, res
}
