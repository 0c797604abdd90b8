// ABOUTME: Landing menu listing the destinations available to the current user
// ABOUTME: Options depend on authentication state and role

package home

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/civicfix/civicfix-cli/internal/session"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
)

// Target identifies a destination chosen from the menu
type Target int

const (
	TargetMap Target = iota
	TargetDashboard
	TargetReport
	TargetProfile
	TargetAdmin
	TargetAnalytics
	TargetLogin
	TargetRegister
	TargetAdminLogin
	TargetLogout
	TargetQuit
)

// SelectedMsg is sent when the user picks a destination
type SelectedMsg struct {
	Target Target
}

type item struct {
	label  string
	icon   icons.Icon
	target Target
}

// Menu is the home screen component
type Menu struct {
	items  []item
	cursor int
	user   string
}

var (
	selectedStyle = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)
	normalStyle   = lipgloss.NewStyle().Foreground(styles.Text)
	greetStyle    = lipgloss.NewStyle().Foreground(styles.Muted)
)

// New builds the menu for the given session state
func New(state session.State, userName string) *Menu {
	var items []item

	items = append(items, item{"Issue map", icons.Map, TargetMap})

	if state.Authenticated {
		items = append(items,
			item{"My dashboard", icons.User, TargetDashboard},
			item{"Report an issue", icons.Report, TargetReport},
			item{"Profile & settings", icons.Settings, TargetProfile},
		)
		if state.Admin {
			items = append(items,
				item{"Admin console", icons.Shield, TargetAdmin},
				item{"Analytics", icons.Chart, TargetAnalytics},
			)
		}
		items = append(items, item{"Log out", icons.Quit, TargetLogout})
	} else {
		items = append(items,
			item{"Log in", icons.User, TargetLogin},
			item{"Create an account", icons.Users, TargetRegister},
			item{"Admin login", icons.Shield, TargetAdminLogin},
		)
	}

	items = append(items, item{"Quit", icons.Quit, TargetQuit})

	return &Menu{items: items, user: userName}
}

// Update handles key input for the menu
func (m *Menu) Update(msg tea.KeyMsg) (*Menu, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		target := m.items[m.cursor].target
		return m, func() tea.Msg { return SelectedMsg{Target: target} }
	}
	return m, nil
}

// View renders the menu
func (m *Menu) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(icons.App.String() + " CivicFix"))
	b.WriteString("\n")
	if m.user != "" {
		b.WriteString(greetStyle.Render("Signed in as " + m.user))
	} else {
		b.WriteString(greetStyle.Render("Browsing as guest"))
	}
	b.WriteString("\n\n")

	for i, it := range m.items {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		b.WriteString(cursor + it.icon.String() + " " + style.Render(it.label) + "\n")
	}

	return b.String()
}
