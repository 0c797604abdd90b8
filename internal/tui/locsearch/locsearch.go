// ABOUTME: Debounced location search box backed by the geocoding proxy
// ABOUTME: Text input plus suggestion dropdown with keyboard navigation

package locsearch

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
)

// DebounceInterval is how long typing must pause before a search fires
const DebounceInterval = 500 * time.Millisecond

// LocationSelectedMsg is sent when the user commits a suggestion
type LocationSelectedMsg struct {
	Result client.SearchResult
	Lat    float64
	Lon    float64
}

// debounceMsg fires after the typing pause; stale sequences are ignored
type debounceMsg struct {
	seq int
}

// resultsMsg carries search results back from the API
type resultsMsg struct {
	seq     int
	results []client.SearchResult
	err     error
}

// Model is the location search component
type Model struct {
	api       *client.Client
	textInput textinput.Model

	// seq increments on every keystroke; only the matching debounce
	// tick and the matching response are honored
	seq     int
	results []client.SearchResult
	cursor  int
	open    bool
	loading bool
	err     string
}

var (
	resultStyle   = lipgloss.NewStyle().Foreground(styles.Text)
	selectedStyle = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(styles.Muted).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(styles.Danger)
)

// New creates a location search model
func New(api *client.Client) Model {
	ti := textinput.New()
	ti.Placeholder = "Search for a location..."
	ti.CharLimit = 128
	ti.Width = 48
	ti.Prompt = icons.Search.String() + " "

	return Model{
		api:       api,
		textInput: ti,
		cursor:    -1,
	}
}

// Focus gives keyboard focus to the input
func (m *Model) Focus() tea.Cmd {
	m.textInput.Focus()
	return textinput.Blink
}

// Blur removes focus and closes the dropdown
func (m *Model) Blur() {
	m.textInput.Blur()
	m.open = false
	m.cursor = -1
}

// Focused reports whether the input has keyboard focus
func (m Model) Focused() bool {
	return m.textInput.Focused()
}

// Value returns the current query text
func (m Model) Value() string {
	return m.textInput.Value()
}

// SetValue replaces the query text without triggering a search
func (m *Model) SetValue(value string) {
	m.textInput.SetValue(value)
}

// Update implements the bubbletea update contract for the component
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case debounceMsg:
		// A newer keystroke restarted the timer
		if msg.seq != m.seq {
			return m, nil
		}
		query := m.textInput.Value()
		if len([]rune(query)) < client.MinSearchLength {
			return m, nil
		}
		m.loading = true
		return m, m.searchCmd(m.seq, query)

	case resultsMsg:
		// Out-of-order response for an abandoned query
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = "Location search failed"
			m.results = nil
			m.open = true
			return m, nil
		}
		m.err = ""
		m.results = msg.results
		m.open = true
		m.cursor = clampCursor(m.cursor, len(m.results))
		return m, nil
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.textInput.Focused() {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.open = false
		m.cursor = -1
		return m, nil

	case "down":
		if m.open {
			m.cursor = clampCursor(m.cursor+1, len(m.results))
		}
		return m, nil

	case "up":
		if m.open {
			m.cursor = clampCursor(m.cursor-1, len(m.results))
		}
		return m, nil

	case "enter":
		// Enter only commits a highlighted result; with no highlight it
		// does nothing
		if !m.open || m.cursor < 0 || m.cursor >= len(m.results) {
			return m, nil
		}
		return m.commit(m.results[m.cursor])
	}

	before := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	after := m.textInput.Value()

	if before == after {
		return m, cmd
	}

	// Text changed: invalidate any in-flight search and restart the timer
	m.seq++
	m.err = ""
	m.cursor = -1

	if len([]rune(after)) < client.MinSearchLength {
		m.results = nil
		m.open = false
		m.loading = false
		return m, cmd
	}

	seq := m.seq
	tick := tea.Tick(DebounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
	return m, tea.Batch(cmd, tick)
}

func (m Model) commit(result client.SearchResult) (Model, tea.Cmd) {
	lat, lon, err := result.Coordinates()
	if err != nil {
		m.err = "Invalid coordinates in search result"
		return m, nil
	}

	m.textInput.SetValue(result.DisplayName)
	m.open = false
	m.cursor = -1
	m.results = nil

	return m, func() tea.Msg {
		return LocationSelectedMsg{Result: result, Lat: lat, Lon: lon}
	}
}

func (m Model) searchCmd(seq int, query string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		results, err := api.SearchPlaces(ctx, query)
		return resultsMsg{seq: seq, results: results, err: err}
	}
}

// clampCursor keeps the highlight inside [-1, count-1]
func clampCursor(cursor, count int) int {
	if cursor < -1 {
		return -1
	}
	if cursor >= count {
		return count - 1
	}
	return cursor
}

// View renders the input and, when open, the suggestion dropdown
func (m Model) View() string {
	out := m.textInput.View()

	if m.loading {
		out += "\n" + emptyStyle.Render("Searching...")
		return out
	}

	if !m.open {
		return out
	}

	if m.err != "" {
		out += "\n" + errorStyle.Render(m.err)
		return out
	}

	if len(m.results) == 0 {
		out += "\n" + emptyStyle.Render("No locations found")
		return out
	}

	for i, r := range m.results {
		cursor := "  "
		style := resultStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		name := r.DisplayName
		if len(name) > 70 {
			name = name[:67] + "..."
		}
		out += "\n" + cursor + style.Render(name)
	}

	return out
}
