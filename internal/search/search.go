// Package search filters entry lists for the dashboard and the ls command.
package search

import (
	"slices"
	"sort"
	"strings"

	"daylog/internal/day"
	"daylog/internal/storage"
)

// Filter narrows a list of entries. Zero fields do not filter.
type Filter struct {
	Query     string   // case-insensitive substring of note or any tag
	From, To  day.Date // inclusive; zero means open
	Tags      []string // any-of
	HasImages bool
}

// IsZero reports whether f matches everything.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.From.IsZero() && f.To.IsZero() &&
		len(f.Tags) == 0 && !f.HasImages
}

// Match reports whether e passes the filter.
func (f Filter) Match(e storage.Entry) bool {
	if f.HasImages && len(e.Images) == 0 {
		return false
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		d, ok := e.Day()
		if !ok || !d.Between(f.From, f.To) {
			return false
		}
	}
	if len(f.Tags) > 0 && !hasAnyTag(e.Tags, f.Tags) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(e.Note), q) && !slices.ContainsFunc(e.Tags, func(t string) bool {
			return strings.Contains(strings.ToLower(t), q)
		}) {
			return false
		}
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		w = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(w), "#"))
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// Apply returns the matching entries, newest date first. Entries sharing a
// date keep their relative order. The input is not modified.
func Apply(entries []storage.Entry, f Filter) []storage.Entry {
	out := make([]storage.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// AvailableTags returns the unique tags across entries, sorted.
func AvailableTags(entries []storage.Entry) []string {
	return storage.CollectTags(entries)
}
