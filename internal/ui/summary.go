package ui

import (
	"fmt"
	"strings"

	"daylog/internal/day"
	"daylog/internal/stats"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
)

const (
	chartHeight     = 7
	sparklineDays   = 30
	sparklineHeight = 2
	minChartWidth   = 24
)

// StatsPane shows the summary cards, the streak and the activity charts.
type StatsPane struct {
	summary stats.Summary
	daily   []float64 // entries per day, oldest first, ending today
	focused bool
	width   int
	height  int
	styles  *Styles
}

// NewStatsPane creates a new stats pane.
func NewStatsPane(styles *Styles) *StatsPane {
	return &StatsPane{styles: styles}
}

// SetData replaces the summary and the per-day activity used by the sparkline.
func (p *StatsPane) SetData(s stats.Summary, active map[day.Date]int, today day.Date) {
	p.summary = s
	p.daily = make([]float64, sparklineDays)
	start := today.Add(-(sparklineDays - 1))
	for i := range p.daily {
		p.daily[i] = float64(active[start.Add(i)])
	}
}

// Summary returns the statistics currently shown.
func (p *StatsPane) Summary() stats.Summary { return p.summary }

// SetSize sets the pane dimensions.
func (p *StatsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *StatsPane) SetFocused(focused bool) { p.focused = focused }

// View renders the stats pane.
func (p *StatsPane) View() string {
	var b strings.Builder
	s := p.summary
	inner := max(p.width-4, 20)

	b.WriteString(p.styles.PaneTitleStyle.Render("📊 STATS"))
	b.WriteString("\n")

	cardWidth := max(inner/3-4, 6)
	row := func(cards ...[2]string) string {
		rendered := make([]string, len(cards))
		for i, c := range cards {
			rendered[i] = p.styles.CardStyle.Width(cardWidth).Render(
				p.styles.StatValueStyle.Render(c[1]) + "\n" + p.styles.StatLabelStyle.Render(c[0]))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}
	b.WriteString(row(
		[2]string{"Today", fmt.Sprint(s.Today)},
		[2]string{"Week", fmt.Sprint(s.ThisWeek)},
		[2]string{"Month", fmt.Sprint(s.ThisMonth)},
	))
	b.WriteString("\n")
	b.WriteString(row(
		[2]string{"Total", fmt.Sprint(s.Total)},
		[2]string{"Images", fmt.Sprint(s.TotalImages)},
		[2]string{"Avg/day", s.AvgPerDay.StringFixed(1)},
	))
	b.WriteString("\n\n")

	b.WriteString(p.styles.StreakStyle.Render(fmt.Sprintf("🔥 %s", streakText(s.CurrentStreak))))
	b.WriteString(p.styles.StatLabelStyle.Render(fmt.Sprintf("  best %d", s.LongestStreak)))
	b.WriteString("\n\n")

	if inner >= minChartWidth {
		b.WriteString(p.styles.StatLabelStyle.Render("Last 12 months"))
		b.WriteString("\n")
		b.WriteString(p.monthlyChart(inner))
		b.WriteString("\n")
		b.WriteString(p.styles.StatLabelStyle.Render(fmt.Sprintf("Last %d days", sparklineDays)))
		b.WriteString("\n")
		b.WriteString(p.activitySparkline(inner))
	}

	return p.styles.pane(p.focused, p.width, p.height, b.String())
}

func (p *StatsPane) monthlyChart(width int) string {
	data := make([]barchart.BarData, 0, len(p.summary.MonthlyData))
	for _, m := range p.summary.MonthlyData {
		data = append(data, barchart.BarData{
			Label: m.Month,
			Values: []barchart.BarValue{
				{Name: m.Month, Value: float64(m.Count), Style: p.styles.ChartBarStyle},
			},
		})
	}
	chart := barchart.New(width, chartHeight,
		barchart.WithDataSet(data),
		barchart.WithBarGap(1),
		barchart.WithStyles(p.styles.StatLabelStyle, p.styles.StatLabelStyle),
	)
	chart.Draw()
	return chart.View()
}

func (p *StatsPane) activitySparkline(width int) string {
	spark := sparkline.New(min(width, sparklineDays*2), sparklineHeight)
	for _, v := range p.daily {
		spark.Push(v)
	}
	spark.Draw()
	return p.styles.ChartBarStyle.Render(spark.View())
}

func streakText(n int) string {
	if n == 1 {
		return "1 day streak"
	}
	return fmt.Sprintf("%d day streak", n)
}
