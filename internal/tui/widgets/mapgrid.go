// ABOUTME: Coordinate grid plotting issue markers by latitude/longitude
// ABOUTME: The terminal stand-in for the web map; markers colored by status

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
)

// MapMarker is one point on the grid
type MapMarker struct {
	Lat    float64
	Lon    float64
	Status string
	// Highlight marks the search/selection marker, drawn last and bold
	Highlight bool
}

// MapGridConfig holds grid dimensions and the view window
type MapGridConfig struct {
	Width  int
	Height int
	// Center of the view; zero Center means fit all markers
	CenterLat float64
	CenterLon float64
	// Span in degrees covered by the view when centered
	SpanLat float64
	SpanLon float64
}

// DefaultMapGridConfig returns a view fitted to the markers
func DefaultMapGridConfig(width, height int) MapGridConfig {
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 16
	}
	return MapGridConfig{Width: width, Height: height}
}

// MapGrid renders markers onto a character grid. With no explicit center
// the view bounds fit the markers; otherwise the window is centered with
// the configured span.
func MapGrid(markers []MapMarker, config MapGridConfig) string {
	if config.Width <= 0 || config.Height <= 0 {
		return ""
	}

	minLat, maxLat, minLon, maxLon := gridBounds(markers, config)

	// Cell grid, one styled rune per cell
	grid := make([][]string, config.Height)
	for y := range grid {
		grid[y] = make([]string, config.Width)
		for x := range grid[y] {
			grid[y][x] = lipgloss.NewStyle().Foreground(styles.Surface).Render("·")
		}
	}

	place := func(m MapMarker) {
		if maxLat == minLat || maxLon == minLon {
			return
		}
		if m.Lat < minLat || m.Lat > maxLat || m.Lon < minLon || m.Lon > maxLon {
			return
		}
		x := int((m.Lon - minLon) / (maxLon - minLon) * float64(config.Width-1))
		// Latitude grows north, rows grow down
		y := int((maxLat - m.Lat) / (maxLat - minLat) * float64(config.Height-1))

		style := lipgloss.NewStyle().Foreground(styles.StatusColor(m.Status))
		char := "●"
		if m.Highlight {
			style = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)
			char = "◎"
		}
		grid[y][x] = style.Render(char)
	}

	// Plain markers first so a highlight is never painted over
	for _, m := range markers {
		if !m.Highlight {
			place(m)
		}
	}
	for _, m := range markers {
		if m.Highlight {
			place(m)
		}
	}

	rows := make([]string, config.Height)
	for y := range grid {
		rows[y] = strings.Join(grid[y], "")
	}
	return strings.Join(rows, "\n")
}

// Legend renders the status color key shown under the grid
func Legend() string {
	statuses := []string{"submitted", "verified", "in_progress", "resolved", "closed"}
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		dot := lipgloss.NewStyle().Foreground(styles.StatusColor(s)).Render("●")
		parts = append(parts, dot+" "+humanizeEnum(s))
	}
	return strings.Join(parts, "  ")
}

// gridBounds computes the lat/lon window for the view
func gridBounds(markers []MapMarker, config MapGridConfig) (minLat, maxLat, minLon, maxLon float64) {
	if config.CenterLat != 0 || config.CenterLon != 0 {
		spanLat := config.SpanLat
		spanLon := config.SpanLon
		if spanLat <= 0 {
			spanLat = 2
		}
		if spanLon <= 0 {
			spanLon = 4
		}
		return config.CenterLat - spanLat/2, config.CenterLat + spanLat/2,
			config.CenterLon - spanLon/2, config.CenterLon + spanLon/2
	}

	if len(markers) == 0 {
		// Default view over India, matching the web map's initial center
		return 6, 36, 68, 98
	}

	minLat, maxLat = markers[0].Lat, markers[0].Lat
	minLon, maxLon = markers[0].Lon, markers[0].Lon
	for _, m := range markers {
		if m.Lat < minLat {
			minLat = m.Lat
		}
		if m.Lat > maxLat {
			maxLat = m.Lat
		}
		if m.Lon < minLon {
			minLon = m.Lon
		}
		if m.Lon > maxLon {
			maxLon = m.Lon
		}
	}

	// Pad degenerate bounds so single markers still land mid-grid
	if maxLat-minLat < 0.02 {
		minLat -= 0.01
		maxLat += 0.01
	}
	if maxLon-minLon < 0.02 {
		minLon -= 0.01
		maxLon += 0.01
	}
	return minLat, maxLat, minLon, maxLon
}
