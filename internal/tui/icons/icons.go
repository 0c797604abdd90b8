// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	// Explicit override via environment variable
	if env := os.Getenv("CIVICFIX_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	// Check for terminals known to commonly have Nerd Fonts
	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	if os.Getenv("NERD_FONTS") == "1" {
		return true
	}

	// Default to Unicode fallback for maximum compatibility
	return false
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Civic domain
	MapPin   = Icon{"󰍎", "◉"} // nf-md-map_marker
	Map      = Icon{"󰗵", "▦"} // nf-md-map
	Camera   = Icon{"󰄀", "▣"} // nf-md-camera
	Comment  = Icon{"󰍩", "❝"} // nf-md-comment
	Upvote   = Icon{"󰔵", "▲"} // nf-md-thumb_up
	Report   = Icon{"󰈸", "✎"} // nf-md-file_document_edit
	Issue    = Icon{"󰀪", "◆"} // nf-md-alert_circle
	Users    = Icon{"󰡉", "☷"} // nf-md-account_group
	User     = Icon{"󰀄", "☺"} // nf-md-account
	Shield   = Icon{"󰒃", "⛊"} // nf-md-shield_check

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info
	Clock    = Icon{"󰥔", "◷"} // nf-md-clock_outline

	// Trends and charts
	TrendUp   = Icon{"󰄬", "↗"} // nf-md-trending_up
	TrendDown = Icon{"󰄰", "↘"} // nf-md-trending_down
	Chart     = Icon{"󰄭", "▁"} // nf-md-chart_line

	// Actions
	Search  = Icon{"󰍉", "⌕"} // nf-md-magnify
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app
	Filter  = Icon{"󰈲", "▽"} // nf-md-filter

	// Application
	App      = Icon{"󰗵", "◈"} // nf-md-map (civic theme)
	Settings = Icon{"󰒓", "⚙"} // nf-md-cog
)

// ForStatus returns the icon for an issue status
func ForStatus(status string) Icon {
	switch status {
	case "submitted":
		return Clock
	case "verified":
		return Info
	case "in_progress":
		return Warning
	case "resolved", "closed":
		return CheckOK
	default:
		return Issue
	}
}
