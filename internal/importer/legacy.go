package importer

import (
	"bytes"
	"fmt"
	"io"

	"daylog/internal/storage"

	"github.com/goccy/go-json"
)

// LegacyImporter reads progress rows exported from the old web service:
// either a bare JSON array or {"data": [...]}, with Indonesian field names.
type LegacyImporter struct{}

type legacyRow struct {
	Tanggal string   `json:"tanggal"`
	Catatan string   `json:"catatan"`
	Gambar  []string `json:"gambar"`
	Tags    []string `json:"tags"`
}

func (LegacyImporter) Name() string { return "legacy" }

func (LegacyImporter) Parse(r io.Reader) ([]storage.EntryInput, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read legacy export: %w", err)
	}
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\ufeff")))

	var rows []legacyRow
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Data []legacyRow `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, nil, fmt.Errorf("parse legacy export: %w", err)
		}
		rows = wrapped.Data
	} else if err := json.Unmarshal(data, &rows); err != nil {
		return nil, nil, fmt.Errorf("parse legacy export: %w", err)
	}

	inputs := make([]storage.EntryInput, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, storage.EntryInput{
			Date:   row.Tanggal,
			Note:   row.Catatan,
			Images: row.Gambar,
			Tags:   row.Tags,
		})
	}
	return inputs, nil, nil
}
