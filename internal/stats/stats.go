// Package stats derives progress statistics from dated journal entries:
// period counts, streaks, average cadence and a twelve month series.
//
// Compute is a pure function of its inputs. The caller passes the current time,
// so the same entries and the same now always produce the same Summary.
package stats

import (
	"slices"
	"time"

	"daylog/internal/day"

	"github.com/shopspring/decimal"
)

// Record is the part of an entry the engine reads. Any other fields (note,
// identifiers, timestamps) are ignored.
type Record interface {
	EntryDate() string
	ImageCount() int
}

// MonthCount is one bucket of the monthly series.
type MonthCount struct {
	Month string     `json:"month"`
	Year  int        `json:"year"`
	Num   time.Month `json:"-"`
	Count int        `json:"count"`
}

// Summary holds the derived statistics. Nothing here is persisted.
type Summary struct {
	Total         int             `json:"total"`
	ThisMonth     int             `json:"this_month"`
	ThisWeek      int             `json:"this_week"`
	Today         int             `json:"today"`
	CurrentStreak int             `json:"current_streak"`
	LongestStreak int             `json:"longest_streak"`
	AvgPerDay     decimal.Decimal `json:"avg_per_day"`
	TotalImages   int             `json:"total_images"`
	MonthlyData   []MonthCount    `json:"monthly_data"`
}

// Run is a maximal sequence of consecutive days that each have an entry.
type Run struct {
	Start  day.Date `json:"start"`
	End    day.Date `json:"end"`
	Length int      `json:"length"`
}

// Contains reports whether d falls inside the run.
func (r Run) Contains(d day.Date) bool { return d.Between(r.Start, r.End) }

const monthsInSeries = 12

// Compute derives the Summary for entries as of now. now is reduced to its
// calendar date in its own location; no other clock is read.
//
// Entries whose date is missing or unparseable still count toward Total and
// TotalImages but are left out of every date-bucketed figure.
func Compute[R Record](entries []R, now time.Time) Summary {
	today := day.FromTime(now)
	weekStart := today.StartOfWeek()

	s := Summary{
		Total:       len(entries),
		AvgPerDay:   decimal.Zero,
		MonthlyData: emptySeries(today),
	}

	var dated []day.Date
	for _, e := range entries {
		s.TotalImages += e.ImageCount()

		d, err := day.Parse(e.EntryDate())
		if err != nil {
			continue
		}
		dated = append(dated, d)

		if d == today {
			s.Today++
		}
		if !d.Before(weekStart) {
			s.ThisWeek++
		}
		if d.SameMonth(today) {
			s.ThisMonth++
		}
		for i := range s.MonthlyData {
			b := &s.MonthlyData[i]
			if d.Year() == b.Year && d.Month() == b.Num {
				b.Count++
				break
			}
		}
	}

	if len(dated) == 0 {
		return s
	}

	runs := Runs(dated)
	s.LongestStreak = Longest(runs)
	s.CurrentStreak = Current(runs, today)

	earliest := slices.MinFunc(dated, day.Date.Compare)
	daysSinceFirst := max(today.Sub(earliest)+1, 1)
	s.AvgPerDay = decimal.NewFromInt(int64(s.Total)).
		Div(decimal.NewFromInt(int64(daysSinceFirst))).
		Round(1)

	return s
}

// Runs groups the distinct days into maximal consecutive runs, most recent
// first. Duplicate days count once.
func Runs(days []day.Date) []Run {
	if len(days) == 0 {
		return nil
	}
	sorted := slices.Clone(days)
	slices.SortFunc(sorted, func(a, b day.Date) int { return b.Compare(a) })
	sorted = slices.Compact(sorted)

	runs := []Run{{Start: sorted[0], End: sorted[0], Length: 1}}
	for _, d := range sorted[1:] {
		cur := &runs[len(runs)-1]
		if cur.Start.Sub(d) == 1 {
			cur.Start = d
			cur.Length++
			continue
		}
		runs = append(runs, Run{Start: d, End: d, Length: 1})
	}
	return runs
}

// Longest returns the length of the longest run, or 0.
func Longest(runs []Run) int {
	longest := 0
	for _, r := range runs {
		longest = max(longest, r.Length)
	}
	return longest
}

// Current returns the length of the live run: the run containing today, or
// failing that the run containing yesterday. Without one the streak is 0.
func Current(runs []Run, today day.Date) int {
	for _, target := range []day.Date{today, today.Add(-1)} {
		for _, r := range runs {
			if r.Contains(target) {
				return r.Length
			}
		}
	}
	return 0
}

// ActiveDays counts entries per valid date, for calendar marking.
func ActiveDays[R Record](entries []R) map[day.Date]int {
	out := make(map[day.Date]int)
	for _, e := range entries {
		if d, err := day.Parse(e.EntryDate()); err == nil {
			out[d]++
		}
	}
	return out
}

// emptySeries returns twelve zero buckets ending at today's month.
func emptySeries(today day.Date) []MonthCount {
	series := make([]MonthCount, 0, monthsInSeries)
	for i := monthsInSeries - 1; i >= 0; i-- {
		m := today.AddMonths(-i)
		series = append(series, MonthCount{
			Month: m.Format("Jan"),
			Year:  m.Year(),
			Num:   m.Month(),
		})
	}
	return series
}
