package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"daylog/internal/storage"
)

// CSVImporter reads a header row naming date, note, images and tags columns
// (any order, case-insensitive; only date is required). Images are separated
// by ';' or '|', tags by commas or spaces.
type CSVImporter struct{}

func (CSVImporter) Name() string { return "csv" }

func (CSVImporter) Parse(r io.Reader) ([]storage.EntryInput, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := cols["date"]; !ok {
		return nil, nil, fmt.Errorf("missing required column: date")
	}

	field := func(rec []string, name string) string {
		if i, ok := cols[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	var (
		inputs   []storage.EntryInput
		problems []string
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		inputs = append(inputs, storage.EntryInput{
			Date:   field(rec, "date"),
			Note:   field(rec, "note"),
			Images: splitImages(field(rec, "images")),
			Tags:   storage.SplitTags(field(rec, "tags")),
		})
	}
	return inputs, problems, nil
}

func splitImages(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' })
}
