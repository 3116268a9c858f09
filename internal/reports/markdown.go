package reports

import (
	"fmt"
	"strings"

	"daylog/internal/storage"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

const noteExcerpt = 80

// FormatMarkdown formats a report as Markdown.
func FormatMarkdown(r *Report) string {
	var b strings.Builder
	s := r.Summary

	fmt.Fprintf(&b, "# Progress report: %s\n\n", r.User)
	fmt.Fprintf(&b, "_As of %s_\n\n", r.AsOf.Format("Monday, January 2, 2006"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Today | %d |\n", s.Today)
	fmt.Fprintf(&b, "| This week | %d |\n", s.ThisWeek)
	fmt.Fprintf(&b, "| This month | %d |\n", s.ThisMonth)
	fmt.Fprintf(&b, "| Total entries | %d |\n", s.Total)
	fmt.Fprintf(&b, "| Images | %d |\n", s.TotalImages)
	fmt.Fprintf(&b, "| Average per day | %s |\n\n", s.AvgPerDay.StringFixed(1))

	b.WriteString("## Streaks\n\n")
	fmt.Fprintf(&b, "- Current: **%s**\n", plural(s.CurrentStreak, "day"))
	fmt.Fprintf(&b, "- Longest: **%s**\n", plural(s.LongestStreak, "day"))
	if len(r.Streaks) > 0 {
		b.WriteString("\nRecent runs:\n\n")
		for _, run := range r.Streaks {
			if run.Length == 1 {
				fmt.Fprintf(&b, "- %s (1 day)\n", run.Start)
				continue
			}
			fmt.Fprintf(&b, "- %s to %s (%d days)\n", run.Start, run.End, run.Length)
		}
	}
	b.WriteString("\n")

	b.WriteString("## This week\n\n")
	b.WriteString("| Day | Date | Entries | Images |\n|---|---|---:|---:|\n")
	for _, d := range r.Week {
		fmt.Fprintf(&b, "| %s | %s | %d | %d |\n", d.DayOfWeek, d.Date, d.Entries, d.Images)
	}
	b.WriteString("\n")

	b.WriteString("## Last 12 months\n\n")
	b.WriteString("| Month | Entries |\n|---|---:|\n")
	for _, m := range s.MonthlyData {
		fmt.Fprintf(&b, "| %s %d | %d |\n", m.Month, m.Year, m.Count)
	}
	b.WriteString("\n")

	if len(r.Tags) > 0 {
		b.WriteString("## Tags\n\n")
		for _, t := range r.Tags {
			fmt.Fprintf(&b, "- `%s` (%d)\n", t.Tag, t.Count)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recent entries\n\n")
	if len(r.Recent) == 0 {
		b.WriteString("_No entries yet._\n")
	}
	for _, e := range r.Recent {
		b.WriteString(entryLine(e))
	}

	return b.String()
}

func entryLine(e storage.Entry) string {
	var b strings.Builder
	date := e.Date
	if date == "" {
		date = "undated"
	}
	fmt.Fprintf(&b, "- **%s**", date)
	if note := excerpt(e.Note); note != "" {
		fmt.Fprintf(&b, " %s", note)
	}
	if n := len(e.Images); n > 0 {
		fmt.Fprintf(&b, " (%s)", plural(n, "image"))
	}
	for _, t := range e.Tags {
		fmt.Fprintf(&b, " `#%s`", t)
	}
	b.WriteString("\n")
	return b.String()
}

// excerpt flattens a note to one line and shortens it.
func excerpt(note string) string {
	note = strings.Join(strings.Fields(note), " ")
	runes := []rune(note)
	if len(runes) > noteExcerpt {
		return string(runes[:noteExcerpt-1]) + "…"
	}
	return note
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Render styles Markdown for a terminal of the given width, picking a dark or
// light theme from the terminal background.
func Render(markdown string, width int) (string, error) {
	return RenderStyle(markdown, width, styles.AutoStyle)
}

// RenderStyle is Render with a named glamour style such as "dark" or "notty".
func RenderStyle(markdown string, width int, style string) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
