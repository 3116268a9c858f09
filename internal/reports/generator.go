package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"daylog/internal/day"
	"daylog/internal/stats"
	"daylog/internal/storage"
)

// DefaultRecent is how many entries a report lists when none is configured.
const DefaultRecent = 10

// maxStreaks caps the runs attached to a report.
const maxStreaks = 5

// Generator creates reports from an entry store.
type Generator struct {
	store  storage.EntryStore
	recent int
}

// NewGenerator creates a new report generator listing up to recent entries.
func NewGenerator(store storage.EntryStore, recent int) *Generator {
	if recent <= 0 {
		recent = DefaultRecent
	}
	return &Generator{store: store, recent: recent}
}

// Generate loads the user's full history and summarizes it as of now.
func (g *Generator) Generate(ctx context.Context, userID string, now time.Time) (*Report, error) {
	entries, err := g.store.FetchAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return Build(userID, entries, now, g.recent), nil
}

// Calendar returns the active-day counts for the month containing month.
func (g *Generator) Calendar(ctx context.Context, userID string, month day.Date) (map[day.Date]int, error) {
	entries, err := g.store.FetchByMonth(ctx, userID, month.Year(), month.Month())
	if err != nil {
		return nil, fmt.Errorf("load month: %w", err)
	}
	return stats.ActiveDays(entries), nil
}

// Build assembles a report from entries already in memory.
func Build(userID string, entries []storage.Entry, now time.Time, recent int) *Report {
	today := day.FromTime(now)

	var dates []day.Date
	for _, e := range entries {
		if d, ok := e.Day(); ok {
			dates = append(dates, d)
		}
	}
	streaks := stats.Runs(dates)
	if len(streaks) > maxStreaks {
		streaks = streaks[:maxStreaks]
	}
	if streaks == nil {
		streaks = []stats.Run{}
	}

	return &Report{
		User:        userID,
		AsOf:        today,
		Summary:     stats.Compute(entries, now),
		Streaks:     streaks,
		Week:        weekBreakdown(entries, today),
		Tags:        tagCounts(entries),
		Recent:      mostRecent(entries, recent),
		GeneratedAt: now,
	}
}

func weekBreakdown(entries []storage.Entry, today day.Date) []DaySummary {
	start := today.StartOfWeek()
	week := make([]DaySummary, 7)
	for i := range week {
		d := start.Add(i)
		week[i] = DaySummary{Date: d, DayOfWeek: d.Format("Mon")}
	}
	for _, e := range entries {
		d, ok := e.Day()
		if !ok {
			continue
		}
		if i := d.Sub(start); i >= 0 && i < 7 {
			week[i].Entries++
			week[i].Images += len(e.Images)
		}
	}
	return week
}

func tagCounts(entries []storage.Entry) []TagCount {
	counts := make(map[string]int)
	for _, e := range entries {
		for _, t := range e.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// mostRecent returns up to n entries, newest date first. Undated entries sort last.
func mostRecent(entries []storage.Entry, n int) []storage.Entry {
	sorted := make([]storage.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
