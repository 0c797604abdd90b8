// ABOUTME: Profile screen for editing account details and changing the password
// ABOUTME: Writes go through the session holder so persisted state stays current

package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/session"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
)

// mode selects which form is open
type mode int

const (
	modeView mode = iota
	modeEdit
	modePassword
)

// BackMsg is sent when the user leaves the profile screen
type BackMsg struct{}

// SessionExpiredMsg is sent when the backend invalidated the stored token
type SessionExpiredMsg struct{}

// savedMsg reports the outcome of a profile or password change
type savedMsg struct {
	what string
	err  error
}

// Profile is the account settings screen
type Profile struct {
	holder *session.Holder

	mode   mode
	form   *huh.Form
	busy   bool
	err    string
	notice string
	width  int

	firstName string
	lastName  string
	phone     string
	address   string

	currentPassword string
	newPassword     string
	confirmPassword string
}

// New creates the profile screen
func New(holder *session.Holder, width int) *Profile {
	return &Profile{holder: holder, width: width}
}

// Init implements tea.Model
func (p *Profile) Init() tea.Cmd {
	return nil
}

// SetWidth adjusts the layout width
func (p *Profile) SetWidth(width int) {
	p.width = width
}

func (p *Profile) buildEditForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First name").
				Value(&p.firstName).
				Validate(required("first name")),
			huh.NewInput().
				Title("Last name").
				Value(&p.lastName).
				Validate(required("last name")),
			huh.NewInput().
				Title("Phone").
				Value(&p.phone),
			huh.NewInput().
				Title("Address").
				Value(&p.address),
		).Title("Edit profile"),
	).WithTheme(styles.FormTheme())
}

func (p *Profile) buildPasswordForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current password").
				EchoMode(huh.EchoModePassword).
				Value(&p.currentPassword).
				Validate(required("current password")),
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&p.newPassword).
				Validate(func(s string) error {
					if len(s) < 8 {
						return fmt.Errorf("password must be at least 8 characters")
					}
					return nil
				}),
			huh.NewInput().
				Title("Confirm new password").
				EchoMode(huh.EchoModePassword).
				Value(&p.confirmPassword).
				Validate(required("confirmation")),
		).Title("Change password"),
	).WithTheme(styles.FormTheme())
}

// Update handles messages for the profile screen
func (p *Profile) Update(msg tea.Msg) (*Profile, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.mode == modeView {
			return p.updateViewKey(msg)
		}
		if msg.String() == "esc" {
			p.mode = modeView
			p.form = nil
			p.err = ""
			return p, nil
		}
		return p.updateForm(msg)

	case savedMsg:
		p.busy = false
		if msg.err != nil {
			if client.IsSessionExpired(msg.err) {
				return p, func() tea.Msg { return SessionExpiredMsg{} }
			}
			if apiErr, ok := client.AsAPIError(msg.err); ok {
				p.err = apiErr.Message
			} else {
				p.err = msg.err.Error()
			}
			return p, nil
		}
		p.mode = modeView
		p.form = nil
		p.err = ""
		p.notice = msg.what
		return p, nil
	}

	if p.mode != modeView && p.form != nil {
		return p.updateForm(msg)
	}
	return p, nil
}

func (p *Profile) updateViewKey(msg tea.KeyMsg) (*Profile, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		return p, func() tea.Msg { return BackMsg{} }
	case "e":
		user := p.holder.User()
		if user == nil {
			return p, func() tea.Msg { return SessionExpiredMsg{} }
		}
		p.firstName = user.FirstName
		p.lastName = user.LastName
		p.phone = user.Phone
		p.address = user.Address
		p.mode = modeEdit
		p.notice = ""
		p.form = p.buildEditForm()
		return p, p.form.Init()
	case "w":
		p.currentPassword = ""
		p.newPassword = ""
		p.confirmPassword = ""
		p.mode = modePassword
		p.notice = ""
		p.form = p.buildPasswordForm()
		return p, p.form.Init()
	}
	return p, nil
}

func (p *Profile) updateForm(msg tea.Msg) (*Profile, tea.Cmd) {
	if p.busy {
		return p, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		return p.save()
	}

	return p, cmd
}

func (p *Profile) save() (*Profile, tea.Cmd) {
	switch p.mode {
	case modeEdit:
		p.busy = true
		holder := p.holder
		update := client.ProfileUpdate{
			FirstName: strings.TrimSpace(p.firstName),
			LastName:  strings.TrimSpace(p.lastName),
			Phone:     strings.TrimSpace(p.phone),
			Address:   strings.TrimSpace(p.address),
		}
		return p, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return savedMsg{what: "Profile updated", err: holder.UpdateProfile(ctx, update)}
		}

	case modePassword:
		if p.newPassword != p.confirmPassword {
			p.err = "passwords do not match"
			p.form = p.buildPasswordForm()
			return p, p.form.Init()
		}
		p.busy = true
		holder, current, next := p.holder, p.currentPassword, p.newPassword
		return p, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return savedMsg{what: "Password changed", err: holder.ChangePassword(ctx, current, next)}
		}
	}

	return p, nil
}

// View renders the profile screen
func (p *Profile) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(icons.Settings.String() + " Profile"))
	b.WriteString("\n")

	if p.mode != modeView && p.form != nil {
		if p.busy {
			b.WriteString(styles.Subtitle.Render("Saving..."))
			return b.String()
		}
		b.WriteString(p.form.View())
		if p.err != "" {
			b.WriteString("\n")
			b.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + p.err))
		}
		return b.String()
	}

	user := p.holder.User()
	if user == nil {
		b.WriteString(styles.Subtitle.Render("Not signed in."))
		return b.String()
	}

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(fmt.Sprintf("%s %s\n",
			styles.Help.Render(fmt.Sprintf("%-10s", label)),
			styles.ValueStyle.Render(value)))
	}

	row("Name", user.FullName())
	row("Email", user.Email)
	row("Phone", user.Phone)
	row("Address", user.Address)
	row("Role", user.Role)

	if p.notice != "" {
		b.WriteString("\n")
		b.WriteString(styles.StatusOK.Render(icons.CheckOK.String() + " " + p.notice))
	}
	if p.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + p.err))
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render("e edit profile  w change password  esc back"))

	return b.String()
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
