// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, borders, and text styles used across components

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	BgDark    = lipgloss.Color("#1F2937") // Dark gray

	// Colors - Extended palette
	Accent  = lipgloss.Color("#60A5FA") // Lighter blue for highlights
	Surface = lipgloss.Color("#374151") // Elevated surface background
	Info    = lipgloss.Color("#3B82F6") // Blue - informational

	// Colors - Issue status, mirrors the web map legend
	StatusSubmittedColor  = lipgloss.Color("#F97316") // Orange
	StatusVerifiedColor   = lipgloss.Color("#3B82F6") // Blue
	StatusInProgressColor = lipgloss.Color("#EAB308") // Yellow
	StatusResolvedColor   = lipgloss.Color("#22C55E") // Green
	StatusClosedColor     = lipgloss.Color("#6B7280") // Gray

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	// Value style for emphasized data
	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	// Field error messages under form inputs
	FieldError = lipgloss.NewStyle().
			Foreground(Danger)

	// Selected row in lists and dropdowns
	SelectedRow = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	NormalRow = lipgloss.NewStyle().
			Foreground(Text)
)

// StatusColor maps an issue status to its legend color
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "submitted":
		return StatusSubmittedColor
	case "verified":
		return StatusVerifiedColor
	case "in_progress":
		return StatusInProgressColor
	case "resolved":
		return StatusResolvedColor
	case "closed":
		return StatusClosedColor
	default:
		return Muted
	}
}

// PriorityColor maps an issue priority to a severity color
func PriorityColor(priority string) lipgloss.Color {
	switch priority {
	case "low":
		return Secondary
	case "medium":
		return Warning
	case "high":
		return lipgloss.Color("#F97316")
	case "urgent":
		return Danger
	default:
		return Muted
	}
}
