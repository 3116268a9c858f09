package storage

import (
	"context"
	"time"

	"daylog/internal/day"
)

// Entry is one dated journal record.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Note      string    `json:"note"`
	Images    []string  `json:"images"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryDate implements stats.Record.
func (e Entry) EntryDate() string { return e.Date }

// ImageCount implements stats.Record.
func (e Entry) ImageCount() int { return len(e.Images) }

// Day returns the parsed entry date. ok is false for a missing or malformed date.
func (e Entry) Day() (d day.Date, ok bool) {
	d, err := day.Parse(e.Date)
	return d, err == nil
}

// Journal is the on-disk layout of entries.json.
type Journal struct {
	Entries []Entry `json:"entries"`
}

// EntryInput carries the fields of a new entry.
type EntryInput struct {
	Date   string
	Note   string
	Images []string
	Tags   []string
}

// EntryPatch describes an edit. Nil fields are left unchanged. Image removals
// apply before additions.
type EntryPatch struct {
	Date         *string
	Note         *string
	Tags         *[]string
	AddImages    []string
	RemoveImages []string
}

// EntryStore persists entries per user. Implementations must be safe for
// concurrent use.
type EntryStore interface {
	FetchAll(ctx context.Context, userID string) ([]Entry, error)
	FetchByDateRange(ctx context.Context, userID string, from, to day.Date) ([]Entry, error)
	FetchByMonth(ctx context.Context, userID string, year int, month time.Month) ([]Entry, error)
	FetchByDate(ctx context.Context, userID string, date day.Date) ([]Entry, error)
	Get(ctx context.Context, userID, id string) (*Entry, error)
	Add(ctx context.Context, userID string, in EntryInput) (*Entry, error)
	Update(ctx context.Context, userID, id string, patch EntryPatch) (*Entry, error)
	Delete(ctx context.Context, userID, id string) (*Entry, error)
	Restore(ctx context.Context, entry Entry) error
	Tags(ctx context.Context, userID string) ([]string, error)
}
