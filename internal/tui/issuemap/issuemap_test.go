// ABOUTME: Tests for the public issue map screen
// ABOUTME: Filter cycling, recentering, and stale fetch handling

package issuemap

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/tui/locsearch"
)

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func loadedMap(t *testing.T, issues []client.Issue) *Map {
	t.Helper()
	m := New(client.New("http://localhost:99999", nil), 80)
	m.seq = 1
	m, _ = m.Update(issuesLoadedMsg{seq: 1, list: &client.IssueList{
		Issues:     issues,
		Pagination: client.Pagination{Page: 1, Pages: 1, Total: len(issues)},
	}})
	return m
}

func TestStatusFilterCycleRefetches(t *testing.T) {
	m := loadedMap(t, nil)
	before := m.seq

	m, cmd := m.Update(keyMsg("s"))
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}
	if m.seq != before+1 {
		t.Errorf("expected the sequence to advance, got %d", m.seq)
	}
	if got := m.filter().Status; got != client.StatusSubmitted {
		t.Errorf("expected the first status filter, got %q", got)
	}

	// Cycling past the last status wraps back to all
	for i := 0; i < len(statusFilters)-1; i++ {
		m, _ = m.Update(keyMsg("s"))
	}
	if got := m.filter().Status; got != "" {
		t.Errorf("expected the filter to wrap to all, got %q", got)
	}
}

func TestTypeFilterUsesVocabulary(t *testing.T) {
	m := loadedMap(t, nil)
	m, _ = m.Update(typesLoadedMsg{types: []string{"pothole", "garbage"}})

	m, cmd := m.Update(keyMsg("t"))
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}
	if got := m.filter().IssueType; got != "pothole" {
		t.Errorf("expected the first type, got %q", got)
	}

	m, _ = m.Update(keyMsg("t"))
	m, _ = m.Update(keyMsg("t"))
	if got := m.filter().IssueType; got != "" {
		t.Errorf("expected the type filter to wrap to all, got %q", got)
	}
}

func TestLocationSelectionRecenters(t *testing.T) {
	m := loadedMap(t, nil)

	m, _ = m.Update(locsearch.LocationSelectedMsg{Lat: 19.076, Lon: 72.8777})

	if !m.centered {
		t.Fatal("expected the map to recenter")
	}
	if m.centerLat != 19.076 || m.centerLon != 72.8777 {
		t.Errorf("unexpected center %f,%f", m.centerLat, m.centerLon)
	}
	if m.highlighted == nil || !m.highlighted.Highlight {
		t.Error("expected a highlighted marker at the selection")
	}

	m, _ = m.Update(keyMsg("c"))
	if m.centered || m.highlighted != nil {
		t.Error("expected c to clear the recenter and highlight")
	}
}

func TestStaleMapFetchDropped(t *testing.T) {
	m := New(client.New("http://localhost:99999", nil), 80)
	m.seq = 2

	m, _ = m.Update(issuesLoadedMsg{seq: 1, list: &client.IssueList{}})
	if m.list != nil {
		t.Error("expected the stale page to be dropped")
	}
}

func TestEnterOpensIssueFromList(t *testing.T) {
	m := loadedMap(t, []client.Issue{
		{ID: 4, Title: "Pothole", Latitude: 18.52, Longitude: 73.85},
		{ID: 8, Title: "Garbage dump", Latitude: 18.53, Longitude: 73.86},
	})

	m, _ = m.Update(keyMsg("down"))
	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected a selection command")
	}
	msg, ok := cmd().(IssueChosenMsg)
	if !ok {
		t.Fatalf("expected IssueChosenMsg, got %T", cmd())
	}
	if msg.ID != 8 {
		t.Errorf("expected issue 8, got %d", msg.ID)
	}
}

func TestSlashFocusesSearch(t *testing.T) {
	m := loadedMap(t, nil)

	m, _ = m.Update(keyMsg("/"))
	if !m.search.Focused() {
		t.Fatal("expected the search box to take focus")
	}

	// Esc on an empty box drops focus back to the list
	m, _ = m.Update(keyMsg("esc"))
	if m.search.Focused() {
		t.Error("expected esc to blur the empty search box")
	}
}

func TestEscLeavesMap(t *testing.T) {
	m := loadedMap(t, nil)

	_, cmd := m.Update(keyMsg("esc"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Errorf("expected BackMsg, got %T", cmd())
	}
}

func TestMapViewShowsFiltersAndLegend(t *testing.T) {
	m := loadedMap(t, []client.Issue{
		{ID: 1, Title: "Pothole", Status: client.StatusSubmitted, Latitude: 18.52, Longitude: 73.85},
	})

	view := m.View()
	if !strings.Contains(view, "status: all") {
		t.Error("expected the status filter in the view")
	}
	if !strings.Contains(view, "Pothole") {
		t.Error("expected the issue title in the list")
	}
}
