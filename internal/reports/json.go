package reports

import (
	"github.com/goccy/go-json"
)

// FormatJSON formats a report as indented JSON.
func FormatJSON(report *Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// FormatSummaryJSON formats only the statistics block, the shape scripts read.
func FormatSummaryJSON(report *Report) ([]byte, error) {
	return json.MarshalIndent(report.Summary, "", "  ")
}
