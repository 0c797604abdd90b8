// ABOUTME: Tests for the debounced location search component
// ABOUTME: Covers debounce sequencing, short-query suppression, and selection

package locsearch

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/civicfix/civicfix-cli/internal/client"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestShortQueryDoesNotOpenDropdown(t *testing.T) {
	m := New(nil)
	m.Focus()

	m = typeString(t, m, "Mu")

	if m.open {
		t.Error("dropdown should stay closed below the minimum query length")
	}
	if m.results != nil {
		t.Errorf("expected no results, got %d", len(m.results))
	}
}

func TestShortQueryDebounceTickIsIgnored(t *testing.T) {
	m := New(nil)
	m.Focus()
	m = typeString(t, m, "Mu")

	// Even if a stale tick arrives with the right sequence, a query
	// below the minimum length must not trigger a search
	m, cmd := m.Update(debounceMsg{seq: m.seq})
	if cmd != nil {
		t.Error("expected no search command for a short query")
	}
	if m.loading {
		t.Error("short query must not enter loading state")
	}
}

func TestTypingRestartsDebounce(t *testing.T) {
	m := New(nil)
	m.Focus()
	m = typeString(t, m, "Mum")
	firstSeq := m.seq

	m = typeString(t, m, "b")
	if m.seq == firstSeq {
		t.Fatal("sequence should advance on every keystroke")
	}

	// The tick for the abandoned query arrives late and must be a no-op
	m, cmd := m.Update(debounceMsg{seq: firstSeq})
	if cmd != nil {
		t.Error("stale debounce tick should not fire a search")
	}
	if m.loading {
		t.Error("stale debounce tick should not enter loading state")
	}

	// The current tick does fire
	m, cmd = m.Update(debounceMsg{seq: m.seq})
	if cmd == nil {
		t.Error("current debounce tick should fire a search")
	}
	if !m.loading {
		t.Error("expected loading state after the search fires")
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	m := New(nil)
	m.Focus()
	m = typeString(t, m, "Mumb")
	staleSeq := m.seq

	m = typeString(t, m, "a")

	m, _ = m.Update(resultsMsg{
		seq:     staleSeq,
		results: []client.SearchResult{{DisplayName: "Stale"}},
	})

	if m.open {
		t.Error("stale results must not open the dropdown")
	}
	if len(m.results) != 0 {
		t.Errorf("stale results must be dropped, got %d", len(m.results))
	}
}

func TestNavigateAndSelect(t *testing.T) {
	m := New(nil)
	m.Focus()
	m = typeString(t, m, "Mumb")

	results := []client.SearchResult{
		{DisplayName: "Mumbai, Maharashtra, India", Lat: "19.0760", Lon: "72.8777"},
		{DisplayName: "Mumbai Suburban, Maharashtra, India", Lat: "19.1136", Lon: "72.8697"},
		{DisplayName: "Mumbra, Thane, Maharashtra, India", Lat: "19.1864", Lon: "73.0190"},
	}
	m, _ = m.Update(resultsMsg{seq: m.seq, results: results})

	if !m.open {
		t.Fatal("dropdown should open when results arrive")
	}
	if m.cursor != -1 {
		t.Fatalf("cursor should start at -1, got %d", m.cursor)
	}

	m, _ = m.Update(keyMsg("down"))
	m, _ = m.Update(keyMsg("down"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter on a highlighted result should emit a selection")
	}

	msg, ok := cmd().(LocationSelectedMsg)
	if !ok {
		t.Fatalf("expected LocationSelectedMsg, got %T", cmd())
	}
	if msg.Result.DisplayName != results[1].DisplayName {
		t.Errorf("selected %q, want %q", msg.Result.DisplayName, results[1].DisplayName)
	}
	if msg.Lat != 19.1136 || msg.Lon != 72.8697 {
		t.Errorf("coordinates = (%v, %v), want (19.1136, 72.8697)", msg.Lat, msg.Lon)
	}

	if m.open {
		t.Error("dropdown should close after selection")
	}
	if m.Value() != results[1].DisplayName {
		t.Errorf("input value = %q, want the selected display name", m.Value())
	}
}

func TestEnterWithoutHighlightDoesNothing(t *testing.T) {
	m := New(nil)
	m.Focus()
	m = typeString(t, m, "Delhi")

	results := []client.SearchResult{
		{DisplayName: "Delhi, India", Lat: "28.6139", Lon: "77.2090"},
		{DisplayName: "Delhi Cantonment, Delhi, India", Lat: "28.5965", Lon: "77.1360"},
	}
	m, _ = m.Update(resultsMsg{seq: m.seq, results: results})

	if m.cursor != -1 {
		t.Fatalf("cursor = %d, want -1 before any arrow key", m.cursor)
	}

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatalf("enter with no highlighted result must do nothing, got %T", cmd())
	}
	if !m.open {
		t.Error("dropdown should stay open")
	}
}

func TestCursorClamp(t *testing.T) {
	tests := []struct {
		name   string
		cursor int
		count  int
		want   int
	}{
		{"below lower bound", -2, 3, -1},
		{"at lower bound", -1, 3, -1},
		{"in range", 1, 3, 1},
		{"at upper bound", 2, 3, 2},
		{"past upper bound", 3, 3, 2},
		{"empty results", 0, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampCursor(tt.cursor, tt.count); got != tt.want {
				t.Errorf("clampCursor(%d, %d) = %d, want %d", tt.cursor, tt.count, got, tt.want)
			}
		})
	}
}

func TestUpFromTopReleasesHighlight(t *testing.T) {
	m := New(nil)
	m.Focus()
	m = typeString(t, m, "Pune")
	m, _ = m.Update(resultsMsg{seq: m.seq, results: []client.SearchResult{
		{DisplayName: "Pune, Maharashtra, India", Lat: "18.5204", Lon: "73.8567"},
	}})

	m, _ = m.Update(keyMsg("down"))
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}
	m, _ = m.Update(keyMsg("up"))
	if m.cursor != -1 {
		t.Errorf("cursor = %d, want -1 after moving above the first result", m.cursor)
	}
}

func TestEscClosesDropdown(t *testing.T) {
	m := New(nil)
	m.Focus()
	m = typeString(t, m, "Goa")
	m, _ = m.Update(resultsMsg{seq: m.seq, results: []client.SearchResult{
		{DisplayName: "Goa, India", Lat: "15.2993", Lon: "74.1240"},
	}})

	m, _ = m.Update(keyMsg("esc"))
	if m.open {
		t.Error("esc should close the dropdown")
	}
	if m.cursor != -1 {
		t.Errorf("cursor = %d, want -1 after esc", m.cursor)
	}
}

func TestClearingToShortQueryClosesDropdown(t *testing.T) {
	m := New(nil)
	m.Focus()
	m = typeString(t, m, "Mumb")
	m, _ = m.Update(resultsMsg{seq: m.seq, results: []client.SearchResult{
		{DisplayName: "Mumbai, Maharashtra, India", Lat: "19.0760", Lon: "72.8777"},
	}})

	// Deleting back below the minimum length clears everything
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	if m.open {
		t.Error("dropdown should close when query drops below minimum length")
	}
	if len(m.results) != 0 {
		t.Error("results should be cleared when query drops below minimum length")
	}
}

func TestErrorStateShownInView(t *testing.T) {
	m := New(nil)
	m.Focus()
	m = typeString(t, m, "Mumb")
	m, _ = m.Update(resultsMsg{seq: m.seq, err: errFake})

	view := m.View()
	if !strings.Contains(view, "Location search failed") {
		t.Error("view should show the search failure message")
	}
}

func TestEmptyResultsShowNoLocations(t *testing.T) {
	m := New(nil)
	m.Focus()
	m = typeString(t, m, "zzzzzz")
	m, _ = m.Update(resultsMsg{seq: m.seq, results: []client.SearchResult{}})

	view := m.View()
	if !strings.Contains(view, "No locations found") {
		t.Error("view should show the empty-results message")
	}
}

var errFake = &client.APIError{StatusCode: 502, Message: "upstream error"}
