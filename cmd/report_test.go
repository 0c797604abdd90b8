// ABOUTME: Tests for the report command's flag validation and submission
// ABOUTME: Verifies no request leaves until the local checks pass

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/testutil"
)

func setReportFlags(t *testing.T) string {
	t.Helper()
	imagePath := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(imagePath, []byte("jpeg bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	reportInput = client.ReportInput{
		Title:       "Deep pothole on MG Road",
		Description: "Front axle deep, near the bus stop",
		IssueType:   "pothole",
		Priority:    "high",
		Address:     "MG Road, Pune",
		Latitude:    18.5204,
		Longitude:   73.8567,
		ImagePath:   imagePath,
	}
	return imagePath
}

func TestValidateReportFlags(t *testing.T) {
	setReportFlags(t)
	if err := validateReportFlags(); err != nil {
		t.Errorf("expected complete flags to pass, got %v", err)
	}

	setReportFlags(t)
	reportInput.Title = ""
	if err := validateReportFlags(); err == nil {
		t.Error("expected a missing title to fail")
	}

	setReportFlags(t)
	reportInput.Latitude, reportInput.Longitude = 0, 0
	if err := validateReportFlags(); err == nil {
		t.Error("expected missing coordinates to fail")
	}

	setReportFlags(t)
	reportInput.ImagePath = filepath.Join(t.TempDir(), "missing.jpg")
	if err := validateReportFlags(); err == nil {
		t.Error("expected a missing image to fail")
	}

	setReportFlags(t)
	notes := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(notes, []byte("not a photo"), 0644); err != nil {
		t.Fatal(err)
	}
	reportInput.ImagePath = notes
	if err := validateReportFlags(); err == nil {
		t.Error("expected a non-image extension to fail")
	}
}

func TestReport_ValidationFailureStaysLocal(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	useTempConfig(t)
	setReportFlags(t)
	reportInput.Description = ""
	apiURL = backend.URL()
	defer func() { apiURL = "" }()

	before := backend.Requests

	var buf bytes.Buffer
	exitCode := runReport(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if backend.Requests != before {
		t.Error("a validation failure must not reach the backend")
	}
}

func TestReport_Success(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	useTempConfig(t)
	loginAs(t, backend, 1, client.User{ID: 1, Role: "user"})
	setReportFlags(t)
	apiURL = backend.URL()
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runReport(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d (output %q)", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Deep pothole on MG Road")) {
		t.Errorf("expected the issue title, got %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("status: submitted")) {
		t.Errorf("expected the initial status, got %q", buf.String())
	}
}

func TestReport_NotLoggedIn(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	useTempConfig(t)
	setReportFlags(t)
	apiURL = backend.URL()
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runReport(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Not logged in")) {
		t.Errorf("expected the login hint, got %q", buf.String())
	}
}
