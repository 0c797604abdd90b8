// ABOUTME: Tests for the root model's routing, guard redirects, and auth flow
// ABOUTME: Drives the App through messages the way the runtime would

package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/guard"
	"github.com/civicfix/civicfix-cli/internal/session"
	"github.com/civicfix/civicfix-cli/internal/testutil"
	"github.com/civicfix/civicfix-cli/internal/tui/detail"
	"github.com/civicfix/civicfix-cli/internal/tui/home"
	"github.com/civicfix/civicfix-cli/internal/tui/issuemap"
)

func newTestApp(t *testing.T, backend *testutil.Backend) (*App, *session.Holder) {
	t.Helper()
	store := session.NewStore(t.TempDir())
	api := client.New(backend.URL(), store)
	holder := session.NewHolder(store, api)
	return New(api, holder), holder
}

func asApp(t *testing.T, model tea.Model) *App {
	t.Helper()
	a, ok := model.(*App)
	if !ok {
		t.Fatalf("expected *App, got %T", model)
	}
	return a
}

func TestScreenCapabilities(t *testing.T) {
	tests := []struct {
		screen Screen
		want   guard.Capability
	}{
		{ScreenHome, guard.Public},
		{ScreenMap, guard.Public},
		{ScreenDetail, guard.Public},
		{ScreenLogin, guard.AnonymousOnly},
		{ScreenRegister, guard.AnonymousOnly},
		{ScreenAdminLogin, guard.AnonymousOnly},
		{ScreenDashboard, guard.RequiresUser},
		{ScreenReport, guard.RequiresUser},
		{ScreenProfile, guard.RequiresUser},
		{ScreenAdmin, guard.RequiresAdmin},
		{ScreenAnalytics, guard.RequiresAdmin},
	}
	for _, tt := range tests {
		if got := screenCapability(tt.screen); got != tt.want {
			t.Errorf("screenCapability(%d) = %v, want %v", tt.screen, got, tt.want)
		}
	}
}

func TestGuestDashboardRedirectsToLogin(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	app, _ := newTestApp(t, backend)

	model, _ := app.Update(home.SelectedMsg{Target: home.TargetDashboard})
	app = asApp(t, model)

	if app.screen != ScreenLogin {
		t.Errorf("expected the login screen, got %d", app.screen)
	}
	if app.pending != ScreenDashboard {
		t.Errorf("expected the dashboard held as pending, got %d", app.pending)
	}
	if !strings.Contains(app.View(), "Please log in first") {
		t.Error("expected the redirect notice in the view")
	}
}

func TestLoginResumesPendingNavigation(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	app, holder := newTestApp(t, backend)

	// Guard bounce on the way to the dashboard
	model, _ := app.Update(home.SelectedMsg{Target: home.TargetDashboard})
	app = asApp(t, model)

	// Auth succeeds out of band, then the result message arrives
	if err := holder.Login(context.Background(), "asha@example.com", testutil.Password); err != nil {
		t.Fatal(err)
	}
	model, _ = app.Update(authResultMsg{})
	app = asApp(t, model)

	if app.screen != ScreenDashboard {
		t.Errorf("expected the dashboard after login, got %d", app.screen)
	}
	if app.pending != ScreenHome {
		t.Errorf("expected pending reset, got %d", app.pending)
	}
}

func TestAuthenticatedLoginBouncesToDashboard(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	app, holder := newTestApp(t, backend)
	if err := holder.Login(context.Background(), "asha@example.com", testutil.Password); err != nil {
		t.Fatal(err)
	}

	model, _ := app.Update(home.SelectedMsg{Target: home.TargetLogin})
	app = asApp(t, model)

	if app.screen != ScreenDashboard {
		t.Errorf("expected the dashboard, got screen %d", app.screen)
	}
}

func TestUserCannotOpenAdminConsole(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	app, holder := newTestApp(t, backend)
	if err := holder.Login(context.Background(), "asha@example.com", testutil.Password); err != nil {
		t.Fatal(err)
	}

	model, _ := app.Update(home.SelectedMsg{Target: home.TargetAdmin})
	app = asApp(t, model)

	if app.screen != ScreenDashboard {
		t.Errorf("expected a redirect to the dashboard, got %d", app.screen)
	}
}

func TestAdminOpensAdminConsole(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	app, holder := newTestApp(t, backend)
	if err := holder.LoginAdmin(context.Background(), "admin", testutil.Password); err != nil {
		t.Fatal(err)
	}

	model, _ := app.Update(home.SelectedMsg{Target: home.TargetAdmin})
	app = asApp(t, model)

	if app.screen != ScreenAdmin {
		t.Errorf("expected the admin console, got %d", app.screen)
	}
}

func TestSessionExpiryBouncesToLogin(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	app, holder := newTestApp(t, backend)
	if err := holder.Login(context.Background(), "asha@example.com", testutil.Password); err != nil {
		t.Fatal(err)
	}

	model, _ := app.Update(home.SelectedMsg{Target: home.TargetDashboard})
	app = asApp(t, model)
	if app.screen != ScreenDashboard {
		t.Fatalf("expected the dashboard first, got %d", app.screen)
	}

	// The client has already dropped the token by the time screens report
	// expiry; mimic that before delivering the message
	holder.Logout()
	model, _ = app.Update(detail.SessionExpiredMsg{})
	app = asApp(t, model)

	if app.screen != ScreenLogin {
		t.Errorf("expected the login screen, got %d", app.screen)
	}
	if app.pending != ScreenDashboard {
		t.Errorf("expected the dashboard held as pending, got %d", app.pending)
	}
	if !strings.Contains(app.View(), "session expired") {
		t.Error("expected the expiry notice in the view")
	}
}

func TestOpenDetailFromMapReturnsToMap(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	id := backend.AddIssue(client.Issue{Title: "Pothole"})
	app, _ := newTestApp(t, backend)

	model, _ := app.Update(home.SelectedMsg{Target: home.TargetMap})
	app = asApp(t, model)

	model, _ = app.Update(issuemap.IssueChosenMsg{ID: id})
	app = asApp(t, model)
	if app.screen != ScreenDetail {
		t.Fatalf("expected the detail screen, got %d", app.screen)
	}

	model, _ = app.Update(detail.BackMsg{})
	app = asApp(t, model)
	if app.screen != ScreenMap {
		t.Errorf("expected to return to the map, got %d", app.screen)
	}
}

func TestLogoutRebuildsHome(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	app, holder := newTestApp(t, backend)
	if err := holder.Login(context.Background(), "asha@example.com", testutil.Password); err != nil {
		t.Fatal(err)
	}

	model, _ := app.Update(home.SelectedMsg{Target: home.TargetLogout})
	app = asApp(t, model)

	if holder.IsAuthenticated() {
		t.Error("expected the holder logged out")
	}
	if app.screen != ScreenHome {
		t.Errorf("expected the home screen, got %d", app.screen)
	}
	if !strings.Contains(app.View(), "Browsing as guest") {
		t.Error("expected the guest greeting after logout")
	}
}

func TestQuitFromHome(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	app, _ := newTestApp(t, backend)

	_, cmd := app.Update(home.SelectedMsg{Target: home.TargetQuit})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestFrameShowsUserContext(t *testing.T) {
	backend := testutil.NewBackend()
	defer backend.Close()

	app, holder := newTestApp(t, backend)
	if err := holder.Login(context.Background(), "asha@example.com", testutil.Password); err != nil {
		t.Fatal(err)
	}
	app.homeScreen = app.buildHome()

	view := app.View()
	if !strings.Contains(view, "CivicFix") {
		t.Error("expected the app name in the header")
	}
	if !strings.Contains(view, "Asha Patel") {
		t.Error("expected the user name in the frame")
	}
}
