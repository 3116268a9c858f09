package reports

import (
	"fmt"
	"strings"
	"time"

	"daylog/internal/day"

	"github.com/charmbracelet/lipgloss"
)

const calendarWidth = 7 * 3

var activeDayStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))

// FormatCalendar draws the month containing month as a Sunday-first text
// grid. Days present in active are marked with '*'.
func FormatCalendar(month day.Date, active map[day.Date]int) string {
	first := month.StartOfMonth()
	last := month.EndOfMonth()

	var b strings.Builder
	title := first.Format("January 2006")
	pad := max((calendarWidth-len(title))/2, 0)
	b.WriteString(strings.Repeat(" ", pad) + title + "\n")
	b.WriteString("Su Mo Tu We Th Fr Sa\n")

	var line strings.Builder
	line.WriteString(strings.Repeat("   ", int(first.Weekday())))
	for d := first; !d.After(last); d = d.Add(1) {
		cell := fmt.Sprintf("%2d ", d.Day())
		if active[d] > 0 {
			cell = activeDayStyle.Render(fmt.Sprintf("%2d", d.Day())) + "*"
		}
		line.WriteString(cell)
		if d.Weekday() == time.Saturday || d == last {
			b.WriteString(strings.TrimRight(line.String(), " ") + "\n")
			line.Reset()
		}
	}
	return b.String()
}
