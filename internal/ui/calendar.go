package ui

import (
	"fmt"
	"strings"
	"time"

	"daylog/internal/config"
	"daylog/internal/day"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// CalendarPane shows one month as a Sunday-first grid. Days with entries
// are marked, and the selected day drives the entries pane.
type CalendarPane struct {
	selected day.Date
	today    day.Date
	active   map[day.Date]int
	focused  bool
	width    int
	height   int
	styles   *Styles
	keys     CalendarKeyMap
}

// NewCalendarPane creates a calendar pane with today selected.
func NewCalendarPane(styles *Styles, keyCfg *config.KeysConfig, today day.Date) *CalendarPane {
	return &CalendarPane{
		selected: today,
		today:    today,
		active:   map[day.Date]int{},
		styles:   styles,
		keys:     NewCalendarKeyMap(keyCfg),
	}
}

// SetActive replaces the per-day entry counts.
func (p *CalendarPane) SetActive(active map[day.Date]int) {
	if active == nil {
		active = map[day.Date]int{}
	}
	p.active = active
}

// SetToday moves the today marker. If the selection was on the old today it
// follows along, so the dashboard rolls over at midnight.
func (p *CalendarPane) SetToday(today day.Date) {
	if p.selected == p.today {
		p.selected = today
	}
	p.today = today
}

// Selected returns the selected day.
func (p *CalendarPane) Selected() day.Date { return p.selected }

// Select moves the selection to d.
func (p *CalendarPane) Select(d day.Date) { p.selected = d }

// SetSize sets the pane dimensions.
func (p *CalendarPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *CalendarPane) SetFocused(focused bool) { p.focused = focused }

// Update handles navigation keys. It reports whether the selection moved.
func (p *CalendarPane) Update(msg tea.Msg) (moved bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused {
		return false
	}
	before := p.selected
	switch {
	case key.Matches(keyMsg, p.keys.Left):
		p.selected = p.selected.Add(-1)
	case key.Matches(keyMsg, p.keys.Right):
		p.selected = p.selected.Add(1)
	case key.Matches(keyMsg, p.keys.Up):
		p.selected = p.selected.Add(-7)
	case key.Matches(keyMsg, p.keys.Down):
		p.selected = p.selected.Add(7)
	case key.Matches(keyMsg, p.keys.PrevMonth):
		p.selected = shiftMonth(p.selected, -1)
	case key.Matches(keyMsg, p.keys.NextMonth):
		p.selected = shiftMonth(p.selected, 1)
	case key.Matches(keyMsg, p.keys.Today):
		p.selected = p.today
	}
	return p.selected != before
}

// shiftMonth moves d by n months, clamping the day to the target month's length.
func shiftMonth(d day.Date, n int) day.Date {
	first := d.AddMonths(n)
	return first.Add(min(d.Day(), first.EndOfMonth().Day()) - 1)
}

// View renders the calendar pane.
func (p *CalendarPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📅 CALENDAR"))
	b.WriteString("\n")

	first := p.selected.StartOfMonth()
	last := p.selected.EndOfMonth()

	title := fmt.Sprintf("‹ %s ›", first.Format("January 2006"))
	b.WriteString(centerText(title, 7*3))
	b.WriteString("\n")
	b.WriteString(p.styles.CalendarHeaderStyle.Render("Su Mo Tu We Th Fr Sa"))
	b.WriteString("\n")

	var line strings.Builder
	line.WriteString(strings.Repeat("   ", int(first.Weekday())))
	for d := first; !d.After(last); d = d.Add(1) {
		line.WriteString(p.cell(d))
		if d.Weekday() == time.Saturday || d == last {
			b.WriteString(strings.TrimRight(line.String(), " "))
			b.WriteString("\n")
			line.Reset()
		}
	}

	b.WriteString("\n")
	n := p.active[p.selected]
	b.WriteString(p.styles.StatLabelStyle.Render(fmt.Sprintf("%s · %s",
		p.selected.Format("Mon, Jan 2"), plural(n, "entry", "entries"))))
	b.WriteString("\n")

	month := 0
	for d, c := range p.active {
		if d.SameMonth(first) && c > 0 {
			month++
		}
	}
	b.WriteString(p.styles.StatLabelStyle.Render(fmt.Sprintf("%d active days this month", month)))

	return p.styles.pane(p.focused, p.width, p.height, b.String())
}

// cell renders one 3-column day cell: two digits and an activity marker.
func (p *CalendarPane) cell(d day.Date) string {
	num := fmt.Sprintf("%2d", d.Day())
	mark := " "
	style := p.styles.CalendarDayStyle
	if p.active[d] > 0 {
		mark = "•"
		style = p.styles.CalendarActiveStyle
	}
	if d == p.today {
		style = style.Inherit(p.styles.CalendarTodayStyle)
	}
	if d == p.selected {
		style = p.styles.CalendarSelectedStyle
	}
	return style.Render(num) + mark
}

func centerText(s string, width int) string {
	pad := (width - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
