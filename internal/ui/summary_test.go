package ui

import (
	"testing"

	"daylog/internal/day"
	"daylog/internal/stats"
	"daylog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryFixture() ([]storage.Entry, stats.Summary) {
	entries := []storage.Entry{
		{Date: "2024-02-01"},
		{Date: "2024-03-08"},
		{Date: "2024-03-09"},
		{Date: "2024-03-10", Images: []string{"a.png", "b.png"}},
		{Date: "2024-03-10"},
	}
	return entries, stats.Compute(entries, testNow)
}

func TestStatsPane_SetDataBuildsDailySeries(t *testing.T) {
	entries, s := summaryFixture()
	p := NewStatsPane(createTestStyles())
	p.SetData(s, stats.ActiveDays(entries), day.MustParse("2024-03-10"))

	require.Len(t, p.daily, sparklineDays)
	assert.Equal(t, 2.0, p.daily[sparklineDays-1], "today")
	assert.Equal(t, 1.0, p.daily[sparklineDays-2])
	assert.Equal(t, 1.0, p.daily[sparklineDays-3])
	assert.Equal(t, 0.0, p.daily[0])
	assert.Equal(t, s, p.Summary())
}

func TestStatsPane_View(t *testing.T) {
	setupTest(t)
	entries, s := summaryFixture()
	p := NewStatsPane(createTestStyles())
	p.SetData(s, stats.ActiveDays(entries), day.MustParse("2024-03-10"))
	p.SetSize(60, 34)

	view := p.View()
	for _, want := range []string{"STATS", "Today", "Week", "Month", "Total", "Images", "Avg/day", "3 day streak", "best 3", "Last 12 months", "Last 30 days"} {
		assert.Contains(t, view, want)
	}
}

func TestStatsPane_NarrowHidesCharts(t *testing.T) {
	setupTest(t)
	p := NewStatsPane(createTestStyles())
	p.SetSize(24, 20)

	view := p.View()
	assert.Contains(t, view, "0 day streak")
	assert.NotContains(t, view, "Last 12 months")
}

func TestStreakText(t *testing.T) {
	assert.Equal(t, "0 day streak", streakText(0))
	assert.Equal(t, "1 day streak", streakText(1))
	assert.Equal(t, "12 day streak", streakText(12))
}
