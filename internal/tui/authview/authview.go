// ABOUTME: Login, registration, and admin login forms as bubbletea models
// ABOUTME: Collects credentials and emits them; the caller performs the request

package authview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
)

// Mode selects which form the view shows
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
	ModeAdminLogin
)

// LoginSubmittedMsg carries login credentials to the caller
type LoginSubmittedMsg struct {
	Email    string
	Password string
}

// AdminLoginSubmittedMsg carries admin credentials to the caller
type AdminLoginSubmittedMsg struct {
	Username string
	Password string
}

// RegisterSubmittedMsg carries a completed registration form
type RegisterSubmittedMsg struct {
	Input client.RegisterInput
}

// CancelledMsg is sent when the user backs out
type CancelledMsg struct{}

// View is the authentication screen component
type View struct {
	mode Mode
	form *huh.Form
	err  string
	busy bool

	email     string
	password  string
	username  string
	firstName string
	lastName  string
	phone     string
	address   string
}

// New creates an authentication view in the given mode
func New(mode Mode) *View {
	v := &View{mode: mode}
	v.form = v.buildForm()
	return v
}

func (v *View) buildForm() *huh.Form {
	switch v.mode {
	case ModeRegister:
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Placeholder("you@example.com").
					Value(&v.email).
					Validate(validateEmail),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&v.password).
					Validate(validatePassword),
				huh.NewInput().
					Title("First name").
					Value(&v.firstName).
					Validate(validateRequired("first name")),
				huh.NewInput().
					Title("Last name").
					Value(&v.lastName).
					Validate(validateRequired("last name")),
				huh.NewInput().
					Title("Phone (optional)").
					Value(&v.phone),
				huh.NewInput().
					Title("Address (optional)").
					Value(&v.address),
			).Title("Create an account").
				Description("Report and track civic issues in your area"),
		).WithTheme(styles.FormTheme())

	case ModeAdminLogin:
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Username").
					Value(&v.username).
					Validate(validateRequired("username")),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&v.password).
					Validate(validateRequired("password")),
			).Title("Admin login").
				Description("Municipal staff access"),
		).WithTheme(styles.FormTheme())

	default:
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Placeholder("you@example.com").
					Value(&v.email).
					Validate(validateEmail),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&v.password).
					Validate(validateRequired("password")),
			).Title("Log in").
				Description("Welcome back"),
		).WithTheme(styles.FormTheme())
	}
}

// Init implements tea.Model
func (v *View) Init() tea.Cmd {
	return v.form.Init()
}

// SetError shows a failure from the caller and reopens the form with the
// entered values preserved
func (v *View) SetError(msg string) tea.Cmd {
	v.err = msg
	v.busy = false
	v.form = v.buildForm()
	return v.form.Init()
}

// Update implements tea.Model
func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "esc" {
			return v, func() tea.Msg { return CancelledMsg{} }
		}
		v.err = ""
	}

	if v.busy {
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		v.busy = true
		return v, v.submitCmd()
	}

	return v, cmd
}

func (v *View) submitCmd() tea.Cmd {
	switch v.mode {
	case ModeRegister:
		input := client.RegisterInput{
			Email:     strings.TrimSpace(v.email),
			Password:  v.password,
			FirstName: strings.TrimSpace(v.firstName),
			LastName:  strings.TrimSpace(v.lastName),
			Phone:     strings.TrimSpace(v.phone),
			Address:   strings.TrimSpace(v.address),
		}
		return func() tea.Msg { return RegisterSubmittedMsg{Input: input} }

	case ModeAdminLogin:
		username, password := strings.TrimSpace(v.username), v.password
		return func() tea.Msg { return AdminLoginSubmittedMsg{Username: username, Password: password} }

	default:
		email, password := strings.TrimSpace(v.email), v.password
		return func() tea.Msg { return LoginSubmittedMsg{Email: email, Password: password} }
	}
}

// View implements tea.Model
func (v *View) View() string {
	var b strings.Builder

	icon := icons.User
	if v.mode == ModeAdminLogin {
		icon = icons.Shield
	}
	b.WriteString(styles.Title.Render(icon.String() + " " + v.title()))
	b.WriteString("\n\n")

	if v.busy {
		b.WriteString(styles.Subtitle.Render("Signing in..."))
		return b.String()
	}

	b.WriteString(v.form.View())

	if v.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + v.err))
	}

	return b.String()
}

func (v *View) title() string {
	switch v.mode {
	case ModeRegister:
		return "Register"
	case ModeAdminLogin:
		return "Admin Login"
	default:
		return "Login"
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	at := strings.Index(s, "@")
	if at < 1 || !strings.Contains(s[at:], ".") {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
