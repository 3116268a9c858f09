package importer

import (
	"context"
	"strings"
	"testing"

	"daylog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const user = "alice"

func TestGet(t *testing.T) {
	for _, f := range SupportedFormats() {
		imp := Get(f)
		require.NotNil(t, imp, f)
		assert.Equal(t, f, imp.Name())
	}
	assert.Nil(t, Get("todoist"))
}

func TestLegacyParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "bare array", input: `[{"tanggal":"2024-01-02","catatan":"Belajar Go","gambar":["/uploads/a.png"],"tags":["go"]}]`},
		{name: "wrapped", input: `{"data":[{"tanggal":"2024-01-02","catatan":"Belajar Go","gambar":["/uploads/a.png"],"tags":["go"]}]}`},
		{name: "with BOM", input: "\ufeff" + `[{"tanggal":"2024-01-02","catatan":"Belajar Go","gambar":["/uploads/a.png"],"tags":["go"]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs, problems, err := LegacyImporter{}.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Empty(t, problems)
			require.Len(t, inputs, 1)
			assert.Equal(t, storage.EntryInput{
				Date:   "2024-01-02",
				Note:   "Belajar Go",
				Images: []string{"/uploads/a.png"},
				Tags:   []string{"go"},
			}, inputs[0])
		})
	}

	_, _, err := LegacyImporter{}.Parse(strings.NewReader(`{"data": "nope"}`))
	assert.Error(t, err)
}

func TestCSVParse(t *testing.T) {
	input := "Note,DATE,images,tags\n" +
		"\"Ran 5k, felt good\",2024-01-03,a.png;b.png,\"run, health\"\n" +
		"\n" +
		"No images,2024-01-04,,\n"

	inputs, problems, err := CSVImporter{}.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, inputs, 2)

	assert.Equal(t, "Ran 5k, felt good", inputs[0].Note)
	assert.Equal(t, "2024-01-03", inputs[0].Date)
	assert.Equal(t, []string{"a.png", "b.png"}, inputs[0].Images)
	assert.Equal(t, []string{"run", "health"}, inputs[0].Tags)
	assert.Empty(t, inputs[1].Images)
}

func TestCSVRequiresDateColumn(t *testing.T) {
	_, _, err := CSVImporter{}.Parse(strings.NewReader("note,tags\nx,y\n"))
	assert.ErrorContains(t, err, "date")

	_, _, err = CSVImporter{}.Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestPreviewReportsInvalidRows(t *testing.T) {
	input := "date,note,images\n" +
		"2024-01-05,ok,\n" +
		"05/01/2024,bad date,\n" +
		"2024-01-01,too many,1;2;3;4;5;6\n" +
		"2024-01-02T09:00:00Z,rfc,\n"

	valid, res, err := Preview(CSVImporter{}, strings.NewReader(input), user)
	require.NoError(t, err)
	require.Len(t, valid, 2)
	assert.Equal(t, "2024-01-02", valid[0].Date, "dates are canonical and sorted")
	assert.Equal(t, "2024-01-05", valid[1].Date)
	assert.Len(t, res.Errors, 2)
	assert.Zero(t, res.Imported)
}

func TestImportSkipsDuplicates(t *testing.T) {
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	_, err = store.Add(ctx, user, storage.EntryInput{Date: "2024-01-02", Note: "Belajar Go"})
	require.NoError(t, err)

	input := `[
		{"tanggal":"2024-01-02","catatan":"Belajar Go"},
		{"tanggal":"2024-01-03","catatan":"Hari kedua","tags":["Go"]},
		{"tanggal":"2024-01-03","catatan":"Hari kedua"},
		{"tanggal":"","catatan":"no date"}
	]`
	res, err := Import(ctx, LegacyImporter{}, strings.NewReader(input), store, user, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 1)

	entries, err := store.FetchAll(ctx, user)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"go"}, entries[1].Tags)

	// A second run imports nothing new.
	res, err = Import(ctx, LegacyImporter{}, strings.NewReader(input), store, user, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
}

// singleStore hides AddMany so the per-entry path is exercised.
type singleStore struct{ storage.EntryStore }

func TestImportWithoutBulkAdd(t *testing.T) {
	fs, err := storage.New(t.TempDir())
	require.NoError(t, err)
	store := singleStore{fs}

	res, err := Import(context.Background(), CSVImporter{}, strings.NewReader("date\n2024-02-01\n2024-02-02\n"), store, user, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
}
