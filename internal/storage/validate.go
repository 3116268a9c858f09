package storage

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"daylog/internal/day"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("entry not found")
	ErrInvalidDate   = errors.New("invalid entry date")
	ErrTooManyImages = errors.New("too many images")
	ErrNoteTooLong   = errors.New("note too long")
	ErrUserRequired  = errors.New("user id is required")
)

const (
	MaxImages  = 5
	maxNoteLen = 5000
	maxTagLen  = 40
	maxTags    = 20
)

// NewEntry validates in and builds an entry owned by userID.
func NewEntry(userID string, in EntryInput, now time.Time) (Entry, error) {
	if strings.TrimSpace(userID) == "" {
		return Entry{}, ErrUserRequired
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return Entry{}, err
	}
	if err := checkNote(in.Note); err != nil {
		return Entry{}, err
	}
	images := cleanImages(in.Images)
	if len(images) > MaxImages {
		return Entry{}, fmt.Errorf("%w: %d (max %d)", ErrTooManyImages, len(images), MaxImages)
	}
	tags, err := NormalizeTags(in.Tags)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		Note:      in.Note,
		Images:    images,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyPatch edits e in place.
func ApplyPatch(e *Entry, p EntryPatch, now time.Time) error {
	if p.Date != nil {
		date, err := normalizeDate(*p.Date)
		if err != nil {
			return err
		}
		e.Date = date
	}
	if p.Note != nil {
		if err := checkNote(*p.Note); err != nil {
			return err
		}
		e.Note = *p.Note
	}
	if p.Tags != nil {
		tags, err := NormalizeTags(*p.Tags)
		if err != nil {
			return err
		}
		e.Tags = tags
	}

	images := make([]string, 0, len(e.Images)+len(p.AddImages))
	for _, img := range e.Images {
		if !slices.Contains(p.RemoveImages, img) {
			images = append(images, img)
		}
	}
	images = append(images, cleanImages(p.AddImages)...)
	if len(images) > MaxImages {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyImages, len(images), MaxImages)
	}
	e.Images = images
	e.UpdatedAt = now
	return nil
}

// NormalizeTags trims, lower-cases and de-duplicates tags, keeping first
// occurrence order. A leading '#' is dropped.
func NormalizeTags(tags []string) ([]string, error) {
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#")))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		if utf8.RuneCountInString(t) > maxTagLen {
			return nil, fmt.Errorf("tag %q too long (max %d)", t, maxTagLen)
		}
		out = append(out, t)
	}
	if len(out) > maxTags {
		return nil, fmt.Errorf("too many tags (max %d)", maxTags)
	}
	return out, nil
}

// SplitTags parses a comma or space separated tag list as typed by a user.
func SplitTags(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}

// SortEntries orders entries by date then creation time, oldest first.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

// CollectTags returns the unique tags across entries, sorted.
func CollectTags(entries []Entry) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		for _, t := range e.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

func normalizeDate(s string) (string, error) {
	d, err := day.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return d.String(), nil
}

func checkNote(note string) error {
	if n := utf8.RuneCountInString(note); n > maxNoteLen {
		return fmt.Errorf("%w: %d characters (max %d)", ErrNoteTooLong, n, maxNoteLen)
	}
	return nil
}

func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}
