// ABOUTME: Tests for the personal dashboard screen
// ABOUTME: List navigation, stale fetch handling, and quick-jump keys

package dashboard

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/civicfix/civicfix-cli/internal/client"
)

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func loadedDashboard(t *testing.T, issues []client.Issue) *Dashboard {
	t.Helper()
	d := New(client.New("http://localhost:99999", nil), 1, 80)
	d.seq = 1
	d, _ = d.Update(issuesLoadedMsg{seq: 1, list: &client.IssueList{
		Issues:     issues,
		Pagination: client.Pagination{Page: 1, Pages: 1, Total: len(issues)},
	}})
	return d
}

func TestStaleFetchIsDropped(t *testing.T) {
	d := New(client.New("http://localhost:99999", nil), 1, 80)
	d.seq = 2

	d, _ = d.Update(issuesLoadedMsg{seq: 1, list: &client.IssueList{}})
	if d.list != nil {
		t.Error("expected the stale page to be dropped")
	}
}

func TestEnterOpensHighlightedIssue(t *testing.T) {
	d := loadedDashboard(t, []client.Issue{
		{ID: 7, Title: "Pothole"},
		{ID: 9, Title: "Street light"},
	})

	d, _ = d.Update(keyMsg("down"))
	d, cmd := d.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected a selection command")
	}

	msg, ok := cmd().(IssueChosenMsg)
	if !ok {
		t.Fatalf("expected IssueChosenMsg, got %T", cmd())
	}
	if msg.ID != 9 {
		t.Errorf("expected issue 9, got %d", msg.ID)
	}
}

func TestQuickJumpKeys(t *testing.T) {
	d := loadedDashboard(t, nil)

	_, cmd := d.Update(keyMsg("w"))
	if cmd == nil {
		t.Fatal("expected a command for w")
	}
	if _, ok := cmd().(GoReportMsg); !ok {
		t.Errorf("expected GoReportMsg, got %T", cmd())
	}

	_, cmd = d.Update(keyMsg("m"))
	if cmd == nil {
		t.Fatal("expected a command for m")
	}
	if _, ok := cmd().(GoMapMsg); !ok {
		t.Errorf("expected GoMapMsg, got %T", cmd())
	}
}

func TestSessionExpiryEscalated(t *testing.T) {
	d := New(client.New("http://localhost:99999", nil), 1, 80)
	d.seq = 1

	_, cmd := d.Update(issuesLoadedMsg{seq: 1, err: client.ErrSessionExpired})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(SessionExpiredMsg); !ok {
		t.Errorf("expected SessionExpiredMsg, got %T", cmd())
	}
}

func TestStatsCountOpenAndResolved(t *testing.T) {
	d := loadedDashboard(t, []client.Issue{
		{ID: 1, Title: "A", Status: client.StatusSubmitted},
		{ID: 2, Title: "B", Status: client.StatusInProgress},
		{ID: 3, Title: "C", Status: client.StatusResolved},
	})

	view := d.View()
	for _, want := range []string{"Reported", "Open", "Resolved"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in the stats row", want)
		}
	}
}

func TestEmptyDashboardMessage(t *testing.T) {
	d := loadedDashboard(t, nil)
	if !strings.Contains(d.View(), "not reported any issues") {
		t.Error("expected the empty-state message")
	}
}
