// ABOUTME: Horizontal bar chart for label/count analytics series
// ABOUTME: Renders the backend chart_data payloads in plain block characters

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BarChartConfig holds layout settings for a horizontal bar chart
type BarChartConfig struct {
	LabelWidth int
	BarWidth   int
	BarColor   lipgloss.Color
}

// DefaultBarChartConfig returns sensible defaults
func DefaultBarChartConfig() BarChartConfig {
	return BarChartConfig{
		LabelWidth: 14,
		BarWidth:   24,
		BarColor:   lipgloss.Color("#2563EB"),
	}
}

// BarChart renders one row per label, bar length scaled to the maximum
// value in the series
func BarChart(labels []string, values []float64, config BarChartConfig) string {
	if len(labels) == 0 || len(labels) != len(values) {
		return ""
	}
	if config.LabelWidth <= 0 {
		config.LabelWidth = 14
	}
	if config.BarWidth <= 0 {
		config.BarWidth = 24
	}

	maxVal := values[0]
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}

	barStyle := lipgloss.NewStyle().Foreground(config.BarColor)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	var sb strings.Builder
	for i, label := range labels {
		filled := 0
		if maxVal > 0 {
			filled = int(values[i] / maxVal * float64(config.BarWidth))
		}
		if values[i] > 0 && filled == 0 {
			filled = 1
		}

		bar := strings.Repeat("█", filled)
		sb.WriteString(fmt.Sprintf("%s %s %.0f\n",
			labelStyle.Render(fmt.Sprintf("%-*s", config.LabelWidth, truncate(label, config.LabelWidth))),
			barStyle.Render(fmt.Sprintf("%-*s", config.BarWidth, bar)),
			values[i]))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// ColoredBarChart is BarChart with a distinct color per row, cycling the
// palette when there are more rows than colors
func ColoredBarChart(labels []string, values []float64, colors []lipgloss.Color, config BarChartConfig) string {
	if len(labels) == 0 || len(labels) != len(values) || len(colors) == 0 {
		return BarChart(labels, values, config)
	}

	var rows []string
	for i := range labels {
		rowConfig := config
		rowConfig.BarColor = colors[i%len(colors)]
		rows = append(rows, BarChart(labels[i:i+1], values[i:i+1], rowConfig))
	}
	return strings.Join(rows, "\n")
}
