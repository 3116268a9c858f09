// Package reports turns a user's entry history into a progress report and
// formats it as Markdown, JSON or a calendar grid.
package reports

import (
	"time"

	"daylog/internal/day"
	"daylog/internal/stats"
	"daylog/internal/storage"
)

// Report contains aggregated data for one user as of a given day.
type Report struct {
	User        string          `json:"user"`
	AsOf        day.Date        `json:"as_of"`
	Summary     stats.Summary   `json:"summary"`
	Streaks     []stats.Run     `json:"streaks"`
	Week        []DaySummary    `json:"week"`
	Tags        []TagCount      `json:"tags"`
	Recent      []storage.Entry `json:"recent"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// DaySummary is one day of the current week, Sunday first.
type DaySummary struct {
	Date      day.Date `json:"date"`
	DayOfWeek string   `json:"day_of_week"`
	Entries   int      `json:"entries"`
	Images    int      `json:"images"`
}

// TagCount represents how many entries carry a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
