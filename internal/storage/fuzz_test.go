package storage

import (
	"context"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"daylog/internal/day"
)

// FuzzAddEntry checks that Add never panics and only accepts valid input.
func FuzzAddEntry(f *testing.F) {
	f.Add("2024-01-01", "", "")
	f.Add("2024-02-29", "leap", "run,gym")
	f.Add("2023-02-29", "not a leap year", "")
	f.Add("2024-01-01T10:00:00+09:00", "rfc3339", "#Tag")
	f.Add("", "no date", "")
	f.Add("2024-13-01", "bad month", "")
	f.Add("2024-1-1", "unpadded", "")
	f.Add("2024-01-01", strings.Repeat("a", maxNoteLen+1), "")
	f.Add("2024-01-01", "unicode: 🎉🚀", "été")
	f.Add("\x00\x01", "\x00", "\x00")

	f.Fuzz(func(t *testing.T, date, note, tags string) {
		store := createTestStorage(t)

		e, err := store.Add(context.Background(), testUser, EntryInput{Date: date, Note: note, Tags: SplitTags(tags)})

		if _, perr := day.Parse(date); perr != nil {
			if err == nil {
				t.Fatalf("Add accepted invalid date %q", date)
			}
			return
		}
		if utf8.RuneCountInString(note) > maxNoteLen {
			if err == nil {
				t.Fatal("Add accepted an overly long note")
			}
			return
		}
		if err != nil {
			// Tag validation may still reject the input.
			return
		}

		if _, perr := day.Parse(e.Date); perr != nil || len(e.Date) != len(day.Layout) {
			t.Errorf("stored date %q is not canonical", e.Date)
		}
		for _, tag := range e.Tags {
			if tag != strings.ToLower(tag) || strings.HasPrefix(tag, "#") || tag == "" {
				t.Errorf("tag %q not normalized", tag)
			}
		}
	})
}

// FuzzJournalJSON checks that loading arbitrary bytes never panics and always
// leaves a readable file behind.
func FuzzJournalJSON(f *testing.F) {
	f.Add([]byte(`{"entries":[]}`))
	f.Add([]byte(`{"entries":[{"id":"1","user_id":"alice","date":"2024-01-01"}]}`))
	f.Add([]byte(`{"entries":null}`))
	f.Add([]byte(`[]`))
	f.Add([]byte(`{`))
	f.Add([]byte(""))

	f.Fuzz(func(t *testing.T, data []byte) {
		store := createTestStorage(t)
		if err := os.WriteFile(store.Path(), data, 0600); err != nil {
			t.Fatal(err)
		}

		_, _ = store.FetchAll(context.Background(), testUser)

		if _, err := store.FetchAll(context.Background(), testUser); err != nil {
			t.Errorf("second load should succeed after recovery: %v", err)
		}
	})
}
