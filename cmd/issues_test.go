// ABOUTME: Tests for the issues listing command
// ABOUTME: Verifies filters, output formatting, and the --mine shortcut

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/testutil"
)

func resetIssuesFlags() {
	issuesStatus = ""
	issuesType = ""
	issuesPriority = ""
	issuesPage = 1
	issuesPerPage = 20
	issuesMine = false
}

func TestIssues_ListsResults(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	backend.AddIssue(client.Issue{Title: "Deep pothole", Status: "submitted", Priority: "high", UpvoteCount: 4})
	backend.AddIssue(client.Issue{Title: "Broken street light", Status: "resolved", Priority: "low"})

	useTempConfig(t)
	resetIssuesFlags()
	apiURL = backend.URL()
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runIssues(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d (output %q)", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Deep pothole")) {
		t.Errorf("expected the issue title, got %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("4 upvotes")) {
		t.Errorf("expected the upvote count, got %q", buf.String())
	}
}

func TestIssues_StatusFilter(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	backend.AddIssue(client.Issue{Title: "Deep pothole", Status: "submitted"})
	backend.AddIssue(client.Issue{Title: "Broken street light", Status: "resolved"})

	useTempConfig(t)
	resetIssuesFlags()
	issuesStatus = "resolved"
	apiURL = backend.URL()
	defer func() { apiURL = ""; resetIssuesFlags() }()

	var buf bytes.Buffer
	if exitCode := runIssues(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if bytes.Contains(buf.Bytes(), []byte("Deep pothole")) {
		t.Errorf("expected the submitted issue to be filtered out, got %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Broken street light")) {
		t.Errorf("expected the resolved issue, got %q", buf.String())
	}
}

func TestIssues_EmptyResult(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	useTempConfig(t)
	resetIssuesFlags()
	apiURL = backend.URL()
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	if exitCode := runIssues(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("No issues match.")) {
		t.Errorf("expected the empty message, got %q", buf.String())
	}
}

func TestIssues_JSONOutput(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	backend.AddIssue(client.Issue{Title: "Deep pothole", Status: "submitted"})

	useTempConfig(t)
	resetIssuesFlags()
	jsonOutput = true
	apiURL = backend.URL()
	defer func() { apiURL = ""; jsonOutput = false }()

	var buf bytes.Buffer
	if exitCode := runIssues(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}

	var parsed client.IssueList
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(parsed.Issues) != 1 || parsed.Issues[0].Title != "Deep pothole" {
		t.Errorf("unexpected JSON payload: %+v", parsed)
	}
}

func TestIssues_MineWithoutSession(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	useTempConfig(t)
	resetIssuesFlags()
	issuesMine = true
	apiURL = backend.URL()
	defer func() { apiURL = ""; resetIssuesFlags() }()

	var buf bytes.Buffer
	exitCode := runIssues(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Not logged in")) {
		t.Errorf("expected the login hint, got %q", buf.String())
	}
}

func TestIssues_ConnectionError(t *testing.T) {
	useTempConfig(t)
	resetIssuesFlags()
	apiURL = "http://localhost:99999"
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	if exitCode := runIssues(context.Background(), &buf); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}
