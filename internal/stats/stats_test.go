package stats

import (
	"testing"
	"time"

	"daylog/internal/day"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	date   string
	images int
}

func (r rec) EntryDate() string { return r.date }
func (r rec) ImageCount() int   { return r.images }

func dates(ds ...string) []rec {
	out := make([]rec, len(ds))
	for i, d := range ds {
		out[i] = rec{date: d}
	}
	return out
}

// at returns mid-afternoon on the given date so that tests also cover the
// time-of-day being discarded.
func at(s string) time.Time {
	d := day.MustParse(s)
	return time.Date(d.Year(), d.Month(), d.Day(), 15, 4, 5, 0, time.UTC)
}

func TestComputeEmpty(t *testing.T) {
	s := Compute([]rec{}, at("2024-06-15"))

	assert.Zero(t, s.Total)
	assert.Zero(t, s.Today)
	assert.Zero(t, s.ThisWeek)
	assert.Zero(t, s.ThisMonth)
	assert.Zero(t, s.CurrentStreak)
	assert.Zero(t, s.LongestStreak)
	assert.Zero(t, s.TotalImages)
	assert.True(t, s.AvgPerDay.IsZero())

	require.Len(t, s.MonthlyData, 12)
	for _, b := range s.MonthlyData {
		assert.Zero(t, b.Count)
	}
	last := s.MonthlyData[11]
	assert.Equal(t, "Jun", last.Month)
	assert.Equal(t, 2024, last.Year)
}

func TestComputeNilSlice(t *testing.T) {
	var entries []rec
	s := Compute(entries, at("2024-06-15"))
	assert.Zero(t, s.Total)
	assert.Len(t, s.MonthlyData, 12)
}

func TestComputeIdempotent(t *testing.T) {
	entries := dates("2024-01-01", "2024-01-02", "2024-01-05", "", "2023-12-24")
	now := at("2024-01-05")

	first := Compute(entries, now)
	second := Compute(entries, now)
	assert.Equal(t, first, second)
}

func TestStreaks(t *testing.T) {
	tests := []struct {
		name        string
		dates       []string
		now         string
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "continuous run ending today",
			dates:       []string{"2024-01-01", "2024-01-02", "2024-01-03"},
			now:         "2024-01-03",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "break before today",
			dates:       []string{"2024-01-01", "2024-01-02", "2024-01-05"},
			now:         "2024-01-05",
			wantCurrent: 1,
			wantLongest: 2,
		},
		{
			name:        "no live streak keeps history",
			dates:       []string{"2024-01-01", "2024-01-02"},
			now:         "2024-01-10",
			wantCurrent: 0,
			wantLongest: 2,
		},
		{
			name:        "run ending yesterday is live",
			dates:       []string{"2024-01-07", "2024-01-08", "2024-01-09"},
			now:         "2024-01-10",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "historical run longer than live run",
			dates:       []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-09", "2024-01-10"},
			now:         "2024-01-10",
			wantCurrent: 2,
			wantLongest: 4,
		},
		{
			name:        "unsorted input",
			dates:       []string{"2024-03-03", "2024-03-01", "2024-03-02"},
			now:         "2024-03-03",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "run across month and year boundary",
			dates:       []string{"2023-12-30", "2023-12-31", "2024-01-01"},
			now:         "2024-01-02",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "leap day",
			dates:       []string{"2024-02-28", "2024-02-29", "2024-03-01"},
			now:         "2024-03-01",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "single old entry",
			dates:       []string{"2023-05-05"},
			now:         "2024-01-01",
			wantCurrent: 0,
			wantLongest: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(dates(tt.dates...), at(tt.now))
			assert.Equal(t, tt.wantCurrent, s.CurrentStreak, "current streak")
			assert.Equal(t, tt.wantLongest, s.LongestStreak, "longest streak")
		})
	}
}

func TestSameDayEntriesCountOnceForStreaks(t *testing.T) {
	s := Compute(dates("2024-02-01", "2024-02-01", "2024-02-02"), at("2024-02-02"))

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.LongestStreak)
	assert.Equal(t, 1, s.Today)
}

func TestPeriodCounts(t *testing.T) {
	// 2024-01-03 is a Wednesday; the week started Sunday 2023-12-31.
	entries := dates(
		"2024-01-03", "2024-01-03", // today
		"2024-01-01",               // this week, this month
		"2023-12-31",               // this week (Sunday), last month
		"2023-12-30",               // previous week
		"2023-01-03",               // same month number, previous year
	)
	s := Compute(entries, at("2024-01-03"))

	assert.Equal(t, 2, s.Today)
	assert.Equal(t, 4, s.ThisWeek)
	assert.Equal(t, 3, s.ThisMonth)
}

func TestWeekStartsOnSunday(t *testing.T) {
	sunday := at("2024-01-07")
	s := Compute(dates("2024-01-07", "2024-01-06"), sunday)
	assert.Equal(t, 1, s.ThisWeek)
}

func TestTimeOfDayAndZoneIgnored(t *testing.T) {
	entries := dates("2024-01-02")

	lateUTC := time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, 1, Compute(entries, lateUTC).Today)

	// Same instant seen from UTC+9 is already Jan 3: the entry is yesterday's.
	tokyo := lateUTC.In(time.FixedZone("JST", 9*3600))
	s := Compute(entries, tokyo)
	assert.Equal(t, 0, s.Today)
	assert.Equal(t, 1, s.CurrentStreak)
}

func TestAvgPerDay(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		now   string
		want  string
	}{
		{name: "all today", dates: []string{"2024-01-10", "2024-01-10"}, now: "2024-01-10", want: "2"},
		{name: "ten days inclusive", dates: []string{"2024-01-01", "2024-01-05", "2024-01-10"}, now: "2024-01-10", want: "0.3"},
		{name: "three over two", dates: []string{"2024-01-01", "2024-01-02", "2024-01-03"}, now: "2024-01-02", want: "1.5"},
		{name: "rounds half away from zero", dates: []string{"2024-01-01"}, now: "2024-01-04", want: "0.3"},
		{name: "future-only entries floor at one day", dates: []string{"2024-02-01"}, now: "2024-01-10", want: "1"},
		{name: "seven over three", dates: []string{"2024-01-08", "2024-01-08", "2024-01-09", "2024-01-09", "2024-01-10", "2024-01-10", "2024-01-10"}, now: "2024-01-10", want: "2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(dates(tt.dates...), at(tt.now))
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(s.AvgPerDay), "avg = %s, want %s", s.AvgPerDay, want)
		})
	}
}

func TestMonthlyWraparound(t *testing.T) {
	entries := dates("2023-02-14", "2023-02-20", "2024-01-01", "2023-01-31", "2023-07-04")
	s := Compute(entries, at("2024-01-20"))

	require.Len(t, s.MonthlyData, 12)

	first, last := s.MonthlyData[0], s.MonthlyData[11]
	assert.Equal(t, "Feb", first.Month)
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, 2, first.Count)

	assert.Equal(t, "Jan", last.Month)
	assert.Equal(t, 2024, last.Year)
	assert.Equal(t, 1, last.Count)

	jul := s.MonthlyData[5]
	assert.Equal(t, "Jul", jul.Month)
	assert.Equal(t, 1, jul.Count)

	// January 2023 is outside the window.
	total := 0
	for _, b := range s.MonthlyData {
		total += b.Count
	}
	assert.Equal(t, 4, total)
}

func TestMalformedEntries(t *testing.T) {
	entries := []rec{
		{date: "", images: 2},
		{date: "not-a-date", images: 1},
		{date: "2024-04-10", images: 3},
	}
	s := Compute(entries, at("2024-04-10"))

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 6, s.TotalImages)
	assert.Equal(t, 1, s.Today)
	assert.Equal(t, 1, s.ThisWeek)
	assert.Equal(t, 1, s.ThisMonth)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)
	assert.True(t, decimal.NewFromInt(3).Equal(s.AvgPerDay))
	assert.Equal(t, 1, s.MonthlyData[11].Count)
}

func TestOnlyMalformedEntries(t *testing.T) {
	s := Compute([]rec{{date: "", images: 1}, {date: "??"}}, at("2024-04-10"))

	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.TotalImages)
	assert.Zero(t, s.Today)
	assert.Zero(t, s.LongestStreak)
	assert.True(t, s.AvgPerDay.IsZero())
}

func TestRuns(t *testing.T) {
	runs := Runs([]day.Date{
		day.MustParse("2024-01-05"),
		day.MustParse("2024-01-01"),
		day.MustParse("2024-01-02"),
		day.MustParse("2024-01-02"),
		day.MustParse("2024-01-06"),
	})

	require.Len(t, runs, 2)
	assert.Equal(t, Run{Start: day.MustParse("2024-01-05"), End: day.MustParse("2024-01-06"), Length: 2}, runs[0])
	assert.Equal(t, Run{Start: day.MustParse("2024-01-01"), End: day.MustParse("2024-01-02"), Length: 2}, runs[1])
	assert.Nil(t, Runs(nil))
}

func TestCurrentPrefersRunContainingToday(t *testing.T) {
	runs := Runs([]day.Date{day.MustParse("2024-01-10"), day.MustParse("2024-01-11")})
	assert.Equal(t, 2, Current(runs, day.MustParse("2024-01-11")))
	assert.Equal(t, 2, Current(runs, day.MustParse("2024-01-12")))
	assert.Equal(t, 0, Current(runs, day.MustParse("2024-01-13")))
}

func TestActiveDays(t *testing.T) {
	got := ActiveDays(dates("2024-01-01", "2024-01-01", "", "2024-01-03"))
	assert.Equal(t, map[day.Date]int{
		day.MustParse("2024-01-01"): 2,
		day.MustParse("2024-01-03"): 1,
	}, got)
}

func TestStreakMessage(t *testing.T) {
	title, _ := StreakMessage(0)
	assert.Equal(t, "Start your streak!", title)

	title, body := StreakMessage(3)
	assert.Equal(t, "Keep it going!", title)
	assert.Contains(t, body, "3 day streak")

	title, _ = StreakMessage(12)
	assert.Equal(t, "12 day streak!", title)
}
