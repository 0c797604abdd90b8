// ABOUTME: Status and priority badge widgets for issue displays
// ABOUTME: Provides colored inline badges keyed by backend enum values

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
)

// Badge renders a colored badge with the given background
func Badge(text string, bg lipgloss.Color) string {
	fg := lipgloss.Color("#FFFFFF")
	if bg == styles.StatusInProgressColor || bg == styles.Warning {
		fg = lipgloss.Color("#000000")
	}

	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// StatusBadge renders an issue status as a legend-colored badge
func StatusBadge(status string) string {
	return Badge(humanizeEnum(status), styles.StatusColor(status))
}

// PriorityBadge renders an issue priority as a severity-colored badge
func PriorityBadge(priority string) string {
	return Badge(strings.ToUpper(priority), styles.PriorityColor(priority))
}

// StatusText returns an icon plus status text, colored but unboxed, for
// dense list rows
func StatusText(status string) string {
	color := styles.StatusColor(status)
	icon := lipgloss.NewStyle().Foreground(color).Render(icons.ForStatus(status).String())
	text := lipgloss.NewStyle().Foreground(color).Render(humanizeEnum(status))
	return fmt.Sprintf("%s %s", icon, text)
}

// UpvoteCount renders the upvote tally, highlighted when the current user
// has upvoted
func UpvoteCount(count int, hasUpvoted bool) string {
	style := lipgloss.NewStyle().Foreground(styles.Muted)
	if hasUpvoted {
		style = lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true)
	}
	return style.Render(fmt.Sprintf("%s %d", icons.Upvote.String(), count))
}

// humanizeEnum turns snake_case enum values into title-ish display text
func humanizeEnum(value string) string {
	parts := strings.Split(value, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
