// ABOUTME: Root bubbletea model routing between screens through the guard
// ABOUTME: Owns the frame chrome, auth flows, and session-expiry redirects

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/guard"
	"github.com/civicfix/civicfix-cli/internal/session"
	"github.com/civicfix/civicfix-cli/internal/tui/admin"
	"github.com/civicfix/civicfix-cli/internal/tui/analytics"
	"github.com/civicfix/civicfix-cli/internal/tui/authview"
	"github.com/civicfix/civicfix-cli/internal/tui/dashboard"
	"github.com/civicfix/civicfix-cli/internal/tui/debuglog"
	"github.com/civicfix/civicfix-cli/internal/tui/detail"
	"github.com/civicfix/civicfix-cli/internal/tui/home"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/issuemap"
	"github.com/civicfix/civicfix-cli/internal/tui/profile"
	"github.com/civicfix/civicfix-cli/internal/tui/report"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenHome Screen = iota
	ScreenLogin
	ScreenRegister
	ScreenAdminLogin
	ScreenMap
	ScreenDashboard
	ScreenReport
	ScreenDetail
	ScreenAdmin
	ScreenAnalytics
	ScreenProfile
)

// Layout constants
const (
	minTerminalWidth = 80
	frameOverhead    = 4
)

// screenCapability maps each screen to what it demands of the session
func screenCapability(s Screen) guard.Capability {
	switch s {
	case ScreenLogin, ScreenRegister, ScreenAdminLogin:
		return guard.AnonymousOnly
	case ScreenDashboard, ScreenReport, ScreenProfile:
		return guard.RequiresUser
	case ScreenAdmin, ScreenAnalytics:
		return guard.RequiresAdmin
	default:
		return guard.Public
	}
}

// authResultMsg reports the outcome of a login, register, or admin login
type authResultMsg struct {
	err error
}

// App is the root model for the TUI
type App struct {
	api    *client.Client
	holder *session.Holder

	screen  Screen
	pending Screen // where to go after a guard-forced login
	width   int
	height  int
	notice  string

	homeScreen      *home.Menu
	authScreen      *authview.View
	mapScreen       *issuemap.Map
	dashboardScreen *dashboard.Dashboard
	reportScreen    *report.Report
	detailScreen    *detail.Detail
	adminScreen     *admin.Console
	analyticsScreen *analytics.Analytics
	profileScreen   *profile.Profile

	// where the detail screen returns to
	detailOrigin Screen
}

// New creates the root TUI application
func New(api *client.Client, holder *session.Holder) *App {
	a := &App{api: api, holder: holder, screen: ScreenHome, pending: ScreenHome}
	a.homeScreen = a.buildHome()
	return a
}

func (a *App) buildHome() *home.Menu {
	name := ""
	if user := a.holder.User(); user != nil {
		name = user.FullName()
	}
	return home.New(a.holder.Snapshot(), name)
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// contentWidth is the width available inside the frame
func (a *App) contentWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth - frameOverhead
	}
	return a.width - frameOverhead
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		w := a.contentWidth()
		if a.mapScreen != nil {
			a.mapScreen.SetWidth(w)
		}
		if a.dashboardScreen != nil {
			a.dashboardScreen.SetWidth(w)
		}
		if a.reportScreen != nil {
			a.reportScreen.SetWidth(w)
		}
		if a.detailScreen != nil {
			a.detailScreen.SetWidth(w)
		}
		if a.adminScreen != nil {
			a.adminScreen.SetWidth(w)
		}
		if a.analyticsScreen != nil {
			a.analyticsScreen.SetWidth(w)
		}
		if a.profileScreen != nil {
			a.profileScreen.SetWidth(w)
		}
		// huh forms need the size message too
		if a.isAuthScreen() && a.authScreen != nil {
			return a.updateAuth(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.routeKey(msg)

	case home.SelectedMsg:
		return a.handleHomeSelection(msg)

	case authview.LoginSubmittedMsg:
		holder := a.holder
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return authResultMsg{err: holder.Login(ctx, msg.Email, msg.Password)}
		}

	case authview.AdminLoginSubmittedMsg:
		holder := a.holder
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return authResultMsg{err: holder.LoginAdmin(ctx, msg.Username, msg.Password)}
		}

	case authview.RegisterSubmittedMsg:
		holder := a.holder
		return a, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return authResultMsg{err: holder.Register(ctx, msg.Input)}
		}

	case authview.CancelledMsg:
		return a.goHome()

	case authResultMsg:
		return a.handleAuthResult(msg)

	case issuemap.IssueChosenMsg:
		return a.openDetail(msg.ID, ScreenMap)

	case dashboard.IssueChosenMsg:
		return a.openDetail(msg.ID, ScreenDashboard)

	case dashboard.GoReportMsg:
		return a.navigate(ScreenReport)

	case dashboard.GoMapMsg:
		return a.navigate(ScreenMap)

	case detail.BackMsg:
		a.detailScreen = nil
		return a.navigate(a.detailOrigin)

	case report.SubmittedMsg:
		a.reportScreen = nil
		if msg.Issue != nil {
			return a.openDetail(msg.Issue.ID, ScreenDashboard)
		}
		return a.navigate(ScreenDashboard)

	case report.CancelledMsg:
		a.reportScreen = nil
		return a.goHome()

	case issuemap.BackMsg, admin.BackMsg, analytics.BackMsg, profile.BackMsg:
		return a.goHome()

	case dashboard.SessionExpiredMsg, report.SessionExpiredMsg,
		detail.SessionExpiredMsg, admin.SessionExpiredMsg,
		analytics.SessionExpiredMsg, profile.SessionExpiredMsg:
		return a.handleSessionExpired()
	}

	return a.routeOther(msg)
}

func (a *App) isAuthScreen() bool {
	return a.screen == ScreenLogin || a.screen == ScreenRegister || a.screen == ScreenAdminLogin
}

// routeKey sends key input to the active screen
func (a *App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenHome:
		var cmd tea.Cmd
		a.homeScreen, cmd = a.homeScreen.Update(msg)
		return a, cmd
	case ScreenLogin, ScreenRegister, ScreenAdminLogin:
		return a.updateAuth(msg)
	case ScreenMap:
		var cmd tea.Cmd
		a.mapScreen, cmd = a.mapScreen.Update(msg)
		return a, cmd
	case ScreenDashboard:
		if msg.String() == "esc" || msg.String() == "b" {
			return a.goHome()
		}
		var cmd tea.Cmd
		a.dashboardScreen, cmd = a.dashboardScreen.Update(msg)
		return a, cmd
	case ScreenReport:
		var cmd tea.Cmd
		a.reportScreen, cmd = a.reportScreen.Update(msg)
		return a, cmd
	case ScreenDetail:
		var cmd tea.Cmd
		a.detailScreen, cmd = a.detailScreen.Update(msg)
		return a, cmd
	case ScreenAdmin:
		var cmd tea.Cmd
		a.adminScreen, cmd = a.adminScreen.Update(msg)
		return a, cmd
	case ScreenAnalytics:
		var cmd tea.Cmd
		a.analyticsScreen, cmd = a.analyticsScreen.Update(msg)
		return a, cmd
	case ScreenProfile:
		var cmd tea.Cmd
		a.profileScreen, cmd = a.profileScreen.Update(msg)
		return a, cmd
	}
	return a, nil
}

// routeOther forwards non-key messages (ticks, fetch results, huh internals)
// to the screen that owns them
func (a *App) routeOther(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin, ScreenRegister, ScreenAdminLogin:
		return a.updateAuth(msg)
	case ScreenMap:
		if a.mapScreen != nil {
			a.mapScreen, cmd = a.mapScreen.Update(msg)
		}
	case ScreenDashboard:
		if a.dashboardScreen != nil {
			a.dashboardScreen, cmd = a.dashboardScreen.Update(msg)
		}
	case ScreenReport:
		if a.reportScreen != nil {
			a.reportScreen, cmd = a.reportScreen.Update(msg)
		}
	case ScreenDetail:
		if a.detailScreen != nil {
			a.detailScreen, cmd = a.detailScreen.Update(msg)
		}
	case ScreenAdmin:
		if a.adminScreen != nil {
			a.adminScreen, cmd = a.adminScreen.Update(msg)
		}
	case ScreenAnalytics:
		if a.analyticsScreen != nil {
			a.analyticsScreen, cmd = a.analyticsScreen.Update(msg)
		}
	case ScreenProfile:
		if a.profileScreen != nil {
			a.profileScreen, cmd = a.profileScreen.Update(msg)
		}
	}
	return a, cmd
}

func (a *App) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.authScreen == nil {
		return a, nil
	}
	model, cmd := a.authScreen.Update(msg)
	a.authScreen = model.(*authview.View)
	return a, cmd
}

func (a *App) handleHomeSelection(msg home.SelectedMsg) (tea.Model, tea.Cmd) {
	switch msg.Target {
	case home.TargetQuit:
		return a, tea.Quit
	case home.TargetLogout:
		a.holder.Logout()
		a.notice = "Logged out"
		return a.goHome()
	case home.TargetMap:
		return a.navigate(ScreenMap)
	case home.TargetDashboard:
		return a.navigate(ScreenDashboard)
	case home.TargetReport:
		return a.navigate(ScreenReport)
	case home.TargetProfile:
		return a.navigate(ScreenProfile)
	case home.TargetAdmin:
		return a.navigate(ScreenAdmin)
	case home.TargetAnalytics:
		return a.navigate(ScreenAnalytics)
	case home.TargetLogin:
		return a.navigate(ScreenLogin)
	case home.TargetRegister:
		return a.navigate(ScreenRegister)
	case home.TargetAdminLogin:
		return a.navigate(ScreenAdminLogin)
	}
	return a, nil
}

// navigate runs the guard and opens the target screen, or the redirect
// the guard demands instead
func (a *App) navigate(target Screen) (tea.Model, tea.Cmd) {
	switch guard.Decide(a.holder.Snapshot(), screenCapability(target)) {
	case guard.RedirectLogin:
		debuglog.Log("guard: %v requires login", target)
		a.pending = target
		a.notice = "Please log in first"
		return a.open(ScreenLogin)
	case guard.RedirectDashboard:
		debuglog.Log("guard: %v redirected to dashboard", target)
		return a.open(ScreenDashboard)
	default:
		return a.open(target)
	}
}

// open constructs the target screen fresh and switches to it
func (a *App) open(target Screen) (tea.Model, tea.Cmd) {
	a.screen = target
	w := a.contentWidth()

	switch target {
	case ScreenHome:
		a.homeScreen = a.buildHome()
		return a, nil
	case ScreenLogin:
		a.authScreen = authview.New(authview.ModeLogin)
		return a, a.authScreen.Init()
	case ScreenRegister:
		a.authScreen = authview.New(authview.ModeRegister)
		return a, a.authScreen.Init()
	case ScreenAdminLogin:
		a.authScreen = authview.New(authview.ModeAdminLogin)
		return a, a.authScreen.Init()
	case ScreenMap:
		a.mapScreen = issuemap.New(a.api, w)
		return a, a.mapScreen.Init()
	case ScreenDashboard:
		user := a.holder.User()
		if user == nil {
			return a.goHome()
		}
		a.dashboardScreen = dashboard.New(a.api, user.ID, w)
		return a, a.dashboardScreen.Init()
	case ScreenReport:
		a.reportScreen = report.New(a.api, w)
		return a, a.reportScreen.Init()
	case ScreenAdmin:
		a.adminScreen = admin.New(a.api, w)
		return a, a.adminScreen.Init()
	case ScreenAnalytics:
		a.analyticsScreen = analytics.New(a.api, w)
		return a, a.analyticsScreen.Init()
	case ScreenProfile:
		a.profileScreen = profile.New(a.holder, w)
		return a, a.profileScreen.Init()
	}
	return a, nil
}

func (a *App) openDetail(issueID int, origin Screen) (tea.Model, tea.Cmd) {
	a.detailOrigin = origin
	a.screen = ScreenDetail
	a.detailScreen = detail.New(a.api, issueID, a.holder.IsAuthenticated(), a.contentWidth())
	return a, a.detailScreen.Init()
}

func (a *App) goHome() (tea.Model, tea.Cmd) {
	a.screen = ScreenHome
	a.pending = ScreenHome
	a.homeScreen = a.buildHome()
	return a, nil
}

func (a *App) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		debuglog.Error("auth", msg.err)
		text := msg.err.Error()
		if apiErr, ok := client.AsAPIError(msg.err); ok {
			text = apiErr.Message
		}
		if a.authScreen != nil {
			return a, a.authScreen.SetError(text)
		}
		return a, nil
	}

	a.authScreen = nil
	a.notice = ""

	// Resume whatever navigation the guard interrupted
	target := a.pending
	a.pending = ScreenHome
	if target == ScreenHome || a.isAuthTarget(target) {
		return a.goHome()
	}
	return a.navigate(target)
}

func (a *App) isAuthTarget(s Screen) bool {
	return s == ScreenLogin || s == ScreenRegister || s == ScreenAdminLogin
}

// handleSessionExpired reacts to the backend killing the token mid-session.
// The client already cleared the stored token; reconcile memory and bounce
// to the login form.
func (a *App) handleSessionExpired() (tea.Model, tea.Cmd) {
	a.holder.CheckAuth()
	a.notice = "Your session expired, please log in again"
	a.pending = a.screen
	return a.open(ScreenLogin)
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenHome:
		content = a.homeScreen.View()
	case ScreenLogin, ScreenRegister, ScreenAdminLogin:
		if a.authScreen != nil {
			content = a.authScreen.View()
		}
	case ScreenMap:
		content = a.mapScreen.View()
	case ScreenDashboard:
		content = a.dashboardScreen.View()
	case ScreenReport:
		content = a.reportScreen.View()
	case ScreenDetail:
		content = a.detailScreen.View()
	case ScreenAdmin:
		content = a.adminScreen.View()
	case ScreenAnalytics:
		content = a.analyticsScreen.View()
	case ScreenProfile:
		content = a.profileScreen.View()
	}

	if a.notice != "" && (a.screen == ScreenHome || a.isAuthScreen()) {
		content = styles.StatusWarning.Render(a.notice) + "\n\n" + content
	}

	return a.wrapWithFrame(content)
}

// renderHeader creates the header bar with app branding and session context
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("CivicFix"))

	rightText := ""
	if user := a.holder.User(); user != nil {
		label := user.FullName()
		if user.Role == "admin" {
			label += " " + icons.Shield.String()
		}
		rightText = contextStyle.Render(label) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts per screen
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	switch a.screen {
	case ScreenHome:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "ctrl+c Quit"}
	case ScreenLogin, ScreenRegister, ScreenAdminLogin:
		shortcuts = []string{"Tab Next field", "Enter Submit", "Esc Back"}
	case ScreenMap:
		shortcuts = []string{"/ Search", "s Status", "t Type", "Enter Open", "Esc Back"}
	case ScreenDashboard:
		shortcuts = []string{"Enter Open", "w Report", "m Map", "x Delete", "Esc Back"}
	case ScreenReport:
		shortcuts = []string{"Enter Confirm", "Esc Back"}
	case ScreenDetail:
		shortcuts = []string{"u Upvote", "c Comment", "r Refresh", "Esc Back"}
	case ScreenAdmin:
		shortcuts = []string{"Space Select", "Tab Pane", "a Assign", "Esc Back"}
	case ScreenAnalytics:
		shortcuts = []string{"r Refresh", "Esc Back"}
	case ScreenProfile:
		shortcuts = []string{"e Edit", "w Password", "Esc Back"}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ")
	leftPlain := " " + strings.Join(shortcuts, "  ")

	fillWidth := width - 4 - lipgloss.Width(leftPlain)
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run resumes any persisted session and starts the TUI
func Run(api *client.Client, holder *session.Holder) error {
	debuglog.Init(session.DefaultConfigDir())
	defer debuglog.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := holder.Resume(ctx); err != nil {
		debuglog.Error("resume", err)
	}

	app := New(api, holder)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
