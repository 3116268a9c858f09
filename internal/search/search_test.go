package search

import (
	"testing"

	"daylog/internal/day"
	"daylog/internal/storage"

	"github.com/stretchr/testify/assert"
)

func sample() []storage.Entry {
	return []storage.Entry{
		{ID: "1", Date: "2024-01-01", Note: "Started the Go book", Tags: []string{"reading"}},
		{ID: "2", Date: "2024-01-03", Note: "Ran 5k", Tags: []string{"run", "health"}, Images: []string{"route.png"}},
		{ID: "3", Date: "2024-01-03", Note: "Chapter two", Tags: []string{"reading"}},
		{ID: "4", Date: "2024-02-10", Note: "gym session", Tags: []string{"health"}},
		{ID: "5", Date: "", Note: "undated thought"},
	}
}

func ids(entries []storage.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "zero filter sorts newest first", filter: Filter{}, want: []string{"4", "2", "3", "1", "5"}},
		{name: "query matches note case-insensitively", filter: Filter{Query: "GO BOOK"}, want: []string{"1"}},
		{name: "query matches tags", filter: Filter{Query: "heal"}, want: []string{"4", "2"}},
		{name: "date range inclusive", filter: Filter{From: day.MustParse("2024-01-01"), To: day.MustParse("2024-01-03")}, want: []string{"2", "3", "1"}},
		{name: "open upper bound", filter: Filter{From: day.MustParse("2024-01-02")}, want: []string{"4", "2", "3"}},
		{name: "any of tags", filter: Filter{Tags: []string{"#Run", "reading"}}, want: []string{"2", "3", "1"}},
		{name: "images only", filter: Filter{HasImages: true}, want: []string{"2"}},
		{name: "combined", filter: Filter{Query: "chapter", Tags: []string{"reading"}, To: day.MustParse("2024-01-31")}, want: []string{"3"}},
		{name: "no match", filter: Filter{Query: "swim"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sample(), tt.filter)))
		})
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	in := sample()
	_ = Apply(in, Filter{})
	assert.Equal(t, "1", in[0].ID)
}

func TestIsZero(t *testing.T) {
	assert.True(t, Filter{Query: "  "}.IsZero())
	assert.False(t, Filter{HasImages: true}.IsZero())
}

func TestAvailableTags(t *testing.T) {
	assert.Equal(t, []string{"health", "reading", "run"}, AvailableTags(sample()))
	assert.Empty(t, AvailableTags(nil))
}
