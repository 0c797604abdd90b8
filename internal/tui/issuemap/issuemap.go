// ABOUTME: Public issue map with filters and location search
// ABOUTME: Plots fetched issues on a coordinate grid; newest fetch wins

package issuemap

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/locsearch"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
	"github.com/civicfix/civicfix-cli/internal/tui/widgets"
)

// IssueChosenMsg is sent when the user opens an issue from the map list
type IssueChosenMsg struct {
	ID int
}

// BackMsg is sent when the user leaves the map
type BackMsg struct{}

// issuesLoadedMsg carries one page of map issues; stale sequences are dropped
type issuesLoadedMsg struct {
	seq  int
	list *client.IssueList
	err  error
}

// typesLoadedMsg carries the issue type vocabulary for the filter
type typesLoadedMsg struct {
	types []string
	err   error
}

// statusFilters cycles with the s key; empty means all
var statusFilters = []string{
	"",
	client.StatusSubmitted,
	client.StatusVerified,
	client.StatusInProgress,
	client.StatusResolved,
	client.StatusClosed,
}

// Map is the issue map screen
type Map struct {
	api    *client.Client
	search locsearch.Model

	seq         int
	list        *client.IssueList
	issueTypes  []string
	statusIdx   int
	typeIdx     int // index into issueTypes+1; 0 means all
	page        int
	cursor      int
	loading     bool
	err         error
	width       int
	centered    bool
	centerLat   float64
	centerLon   float64
	highlighted *widgets.MapMarker
}

// New creates the issue map screen
func New(api *client.Client, width int) *Map {
	return &Map{
		api:    api,
		search: locsearch.New(api),
		page:   1,
		width:  width,
	}
}

// Init fetches the first page and the type vocabulary
func (m *Map) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.loadTypes())
}

// SetWidth adjusts the layout width
func (m *Map) SetWidth(width int) {
	m.width = width
}

func (m *Map) filter() client.IssueFilter {
	f := client.IssueFilter{Page: m.page, PerPage: 50}
	f.Status = statusFilters[m.statusIdx]
	if m.typeIdx > 0 && m.typeIdx <= len(m.issueTypes) {
		f.IssueType = m.issueTypes[m.typeIdx-1]
	}
	return f
}

// fetch starts a new page load. Every call advances the sequence so a
// response from a superseded filter combination can never land.
func (m *Map) fetch() tea.Cmd {
	m.seq++
	m.loading = true
	seq, api, filter := m.seq, m.api, m.filter()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		list, err := api.ListIssues(ctx, filter)
		return issuesLoadedMsg{seq: seq, list: list, err: err}
	}
}

func (m *Map) loadTypes() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		types, err := api.IssueTypes(ctx)
		return typesLoadedMsg{types: types, err: err}
	}
}

// Update handles messages for the map screen
func (m *Map) Update(msg tea.Msg) (*Map, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.search.Focused() {
			return m.updateSearchKey(msg)
		}
		return m.updateKey(msg)

	case locsearch.LocationSelectedMsg:
		m.centered = true
		m.centerLat = msg.Lat
		m.centerLon = msg.Lon
		m.highlighted = &widgets.MapMarker{Lat: msg.Lat, Lon: msg.Lon, Highlight: true}
		m.search.Blur()
		return m, nil

	case issuesLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.list = msg.list
		if m.cursor >= len(m.list.Issues) {
			m.cursor = len(m.list.Issues) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case typesLoadedMsg:
		if msg.err == nil {
			m.issueTypes = msg.types
		}
		return m, nil
	}

	// Debounce ticks and search results flow through to the component
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Map) updateSearchKey(msg tea.KeyMsg) (*Map, tea.Cmd) {
	if msg.String() == "esc" && m.search.Value() == "" {
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Map) updateKey(msg tea.KeyMsg) (*Map, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		return m, func() tea.Msg { return BackMsg{} }
	case "/":
		return m, m.search.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.list != nil && m.cursor < len(m.list.Issues)-1 {
			m.cursor++
		}
	case "enter":
		if m.list != nil && m.cursor < len(m.list.Issues) {
			id := m.list.Issues[m.cursor].ID
			return m, func() tea.Msg { return IssueChosenMsg{ID: id} }
		}
	case "s":
		m.statusIdx = (m.statusIdx + 1) % len(statusFilters)
		m.page = 1
		return m, m.fetch()
	case "t":
		m.typeIdx = (m.typeIdx + 1) % (len(m.issueTypes) + 1)
		m.page = 1
		return m, m.fetch()
	case "c":
		// Clear recenter and highlight
		m.centered = false
		m.highlighted = nil
	case "n":
		if m.list != nil && m.list.Pagination.HasNext {
			m.page++
			return m, m.fetch()
		}
	case "p":
		if m.list != nil && m.list.Pagination.HasPrev {
			m.page--
			return m, m.fetch()
		}
	case "r":
		return m, m.fetch()
	}
	return m, nil
}

// View renders the map screen
func (m *Map) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(icons.Map.String() + " Issue Map"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.StatusCritical.Render("Error: " + m.err.Error()))
		b.WriteString("\n" + styles.Help.Render("r retry"))
		return b.String()
	}

	if m.loading && m.list == nil {
		b.WriteString(styles.Subtitle.Render("Loading issues..."))
		return b.String()
	}

	if m.list == nil {
		return b.String()
	}

	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(widgets.Legend())
	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n\n")
	b.WriteString(m.renderList())

	return b.String()
}

func (m *Map) renderGrid() string {
	gridWidth := m.width - 6
	if gridWidth < 40 {
		gridWidth = 40
	}
	config := widgets.DefaultMapGridConfig(gridWidth, 12)
	if m.centered {
		config.CenterLat = m.centerLat
		config.CenterLon = m.centerLon
	}

	markers := make([]widgets.MapMarker, 0, len(m.list.Issues)+1)
	for _, issue := range m.list.Issues {
		markers = append(markers, widgets.MapMarker{
			Lat:    issue.Latitude,
			Lon:    issue.Longitude,
			Status: issue.Status,
		})
	}
	if m.highlighted != nil {
		markers = append(markers, *m.highlighted)
	}

	return widgets.MapGrid(markers, config)
}

func (m *Map) renderFilters() string {
	status := "all"
	if statusFilters[m.statusIdx] != "" {
		status = statusFilters[m.statusIdx]
	}
	issueType := "all"
	if m.typeIdx > 0 && m.typeIdx <= len(m.issueTypes) {
		issueType = m.issueTypes[m.typeIdx-1]
	}
	return styles.Help.Render(fmt.Sprintf("%s status: %s  type: %s  (%d shown)",
		icons.Filter.String(), status, issueType, len(m.list.Issues)))
}

func (m *Map) renderList() string {
	if len(m.list.Issues) == 0 {
		return styles.Subtitle.Render("No issues match the current filters.")
	}

	var b strings.Builder
	limit := len(m.list.Issues)
	if limit > 8 {
		limit = 8
	}

	// Keep the cursor row inside the visible window
	start := 0
	if m.cursor >= limit {
		start = m.cursor - limit + 1
	}

	for i := start; i < start+limit && i < len(m.list.Issues); i++ {
		issue := m.list.Issues[i]
		cursor := "  "
		style := styles.NormalRow
		if i == m.cursor {
			cursor = "> "
			style = styles.SelectedRow
		}

		title := issue.Title
		if len(title) > 44 {
			title = title[:41] + "..."
		}

		b.WriteString(fmt.Sprintf("%s%s  %s  %s\n",
			cursor,
			widgets.StatusText(issue.Status),
			style.Render(title),
			widgets.UpvoteCount(issue.UpvoteCount, issue.HasUpvoted)))
	}

	p := m.list.Pagination
	if p.Pages > 1 {
		b.WriteString(styles.Help.Render(fmt.Sprintf("Page %d of %d  n next  p prev", p.Page, p.Pages)))
	}

	return b.String()
}
