// ABOUTME: Admin console with the pending triage queue and user management
// ABOUTME: Supports multi-select bulk status updates and issue assignment

package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
	"github.com/civicfix/civicfix-cli/internal/tui/widgets"
)

// tab selects which admin pane is active
type tab int

const (
	tabPending tab = iota
	tabUsers
)

// SessionExpiredMsg is sent when the backend invalidated the stored token
type SessionExpiredMsg struct{}

// BackMsg is sent when the admin leaves the console
type BackMsg struct{}

// pendingLoadedMsg carries the triage queue
type pendingLoadedMsg struct {
	seq  int
	list *client.IssueList
	err  error
}

// usersLoadedMsg carries the account list
type usersLoadedMsg struct {
	seq   int
	users []client.User
	err   error
}

// actionDoneMsg reports a bulk update, assignment, or user change
type actionDoneMsg struct {
	what string
	err  error
}

// Console is the admin screen
type Console struct {
	api *client.Client

	tab      tab
	seq      int
	pending  *client.IssueList
	users    []client.User
	cursor   int
	selected map[int]bool
	loading  bool
	err      error
	notice   string
	width    int

	assigning  bool
	assignForm *huh.Form
	assignee   string
	estimated  string
	assignID   int
}

// New creates the admin console
func New(api *client.Client, width int) *Console {
	return &Console{
		api:      api,
		selected: make(map[int]bool),
		width:    width,
	}
}

// Init loads both panes
func (c *Console) Init() tea.Cmd {
	return tea.Batch(c.fetchPending(), c.fetchUsers())
}

// SetWidth adjusts the layout width
func (c *Console) SetWidth(width int) {
	c.width = width
}

func (c *Console) fetchPending() tea.Cmd {
	c.seq++
	c.loading = true
	seq, api := c.seq, c.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		list, err := api.PendingIssues(ctx)
		return pendingLoadedMsg{seq: seq, list: list, err: err}
	}
}

func (c *Console) fetchUsers() tea.Cmd {
	seq, api := c.seq, c.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		users, err := api.ListUsers(ctx)
		return usersLoadedMsg{seq: seq, users: users, err: err}
	}
}

// Update handles messages for the admin console
func (c *Console) Update(msg tea.Msg) (*Console, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if c.assigning {
			return c.updateAssignForm(msg)
		}
		return c.updateKey(msg)

	case pendingLoadedMsg:
		c.loading = false
		if msg.err != nil {
			return c.fail(msg.err)
		}
		c.err = nil
		c.pending = msg.list
		c.clampCursor()
		return c, nil

	case usersLoadedMsg:
		if msg.err != nil {
			return c.fail(msg.err)
		}
		c.users = msg.users
		c.clampCursor()
		return c, nil

	case actionDoneMsg:
		if msg.err != nil {
			return c.fail(msg.err)
		}
		c.notice = msg.what
		c.selected = make(map[int]bool)
		// Reload both panes so counts stay honest
		return c, tea.Batch(c.fetchPending(), c.fetchUsers())
	}

	if c.assigning && c.assignForm != nil {
		return c.updateAssignForm(msg)
	}
	return c, nil
}

func (c *Console) fail(err error) (*Console, tea.Cmd) {
	if client.IsSessionExpired(err) {
		return c, func() tea.Msg { return SessionExpiredMsg{} }
	}
	c.err = err
	return c, nil
}

func (c *Console) updateKey(msg tea.KeyMsg) (*Console, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		return c, func() tea.Msg { return BackMsg{} }
	case "tab":
		if c.tab == tabPending {
			c.tab = tabUsers
		} else {
			c.tab = tabPending
		}
		c.cursor = 0
		c.notice = ""
		return c, nil
	case "r":
		return c, tea.Batch(c.fetchPending(), c.fetchUsers())
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < c.rowCount()-1 {
			c.cursor++
		}
	}

	if c.tab == tabPending {
		return c.updatePendingKey(msg)
	}
	return c.updateUsersKey(msg)
}

func (c *Console) updatePendingKey(msg tea.KeyMsg) (*Console, tea.Cmd) {
	issue, ok := c.currentIssue()

	switch msg.String() {
	case " ":
		if ok {
			c.selected[issue.ID] = !c.selected[issue.ID]
		}
	case "v":
		return c, c.bulkUpdate(client.StatusVerified)
	case "i":
		return c, c.bulkUpdate(client.StatusInProgress)
	case "x":
		return c, c.bulkUpdate(client.StatusClosed)
	case "a":
		if ok {
			c.assigning = true
			c.assignID = issue.ID
			c.assignee = ""
			c.estimated = ""
			c.assignForm = c.buildAssignForm()
			return c, c.assignForm.Init()
		}
	}
	return c, nil
}

func (c *Console) updateUsersKey(msg tea.KeyMsg) (*Console, tea.Cmd) {
	if c.cursor >= len(c.users) {
		return c, nil
	}
	user := c.users[c.cursor]

	switch msg.String() {
	case "m":
		return c, c.setRole(user, "admin")
	case "u":
		return c, c.setRole(user, "user")
	case "x":
		api, id := c.api, user.ID
		return c, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			err := api.DeleteUser(ctx, id)
			return actionDoneMsg{what: fmt.Sprintf("Deleted user #%d", id), err: err}
		}
	}
	return c, nil
}

func (c *Console) setRole(user client.User, role string) tea.Cmd {
	if user.Role == role {
		return nil
	}
	api, id := c.api, user.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_, err := api.UpdateUser(ctx, id, client.UserUpdate{Role: role})
		return actionDoneMsg{what: fmt.Sprintf("Set user #%d role to %s", id, role), err: err}
	}
}

// bulkUpdate applies the status to every selected issue, or to the
// highlighted one when nothing is selected
func (c *Console) bulkUpdate(status string) tea.Cmd {
	ids := c.selectedIDs()
	if len(ids) == 0 {
		if issue, ok := c.currentIssue(); ok {
			ids = []int{issue.ID}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	api := c.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := api.BulkUpdateIssues(ctx, ids, client.IssueUpdate{Status: status})
		return actionDoneMsg{what: fmt.Sprintf("Marked %d issue(s) %s", len(ids), status), err: err}
	}
}

func (c *Console) buildAssignForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Assign to").
				Placeholder("Department or crew name").
				Value(&c.assignee).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("assignee is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Estimated resolution date (optional)").
				Placeholder("2026-09-15").
				Value(&c.estimated).
				Validate(validateDate),
		).Title(fmt.Sprintf("Assign issue #%d", c.assignID)),
	).WithTheme(styles.FormTheme())
}

func (c *Console) updateAssignForm(msg tea.Msg) (*Console, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		c.assigning = false
		c.assignForm = nil
		return c, nil
	}

	form, cmd := c.assignForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.assignForm = f
	}

	if c.assignForm.State == huh.StateCompleted {
		c.assigning = false
		c.assignForm = nil
		api, id := c.api, c.assignID
		input := client.AssignInput{
			AssignedTo:              strings.TrimSpace(c.assignee),
			EstimatedResolutionDate: strings.TrimSpace(c.estimated),
		}
		return c, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			err := api.AssignIssue(ctx, id, input)
			return actionDoneMsg{what: fmt.Sprintf("Assigned issue #%d to %s", id, input.AssignedTo), err: err}
		}
	}

	return c, cmd
}

func (c *Console) rowCount() int {
	if c.tab == tabPending {
		if c.pending == nil {
			return 0
		}
		return len(c.pending.Issues)
	}
	return len(c.users)
}

func (c *Console) clampCursor() {
	if c.cursor >= c.rowCount() {
		c.cursor = c.rowCount() - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

func (c *Console) currentIssue() (client.Issue, bool) {
	if c.tab != tabPending || c.pending == nil || c.cursor >= len(c.pending.Issues) {
		return client.Issue{}, false
	}
	return c.pending.Issues[c.cursor], true
}

func (c *Console) selectedIDs() []int {
	var ids []int
	for id, on := range c.selected {
		if on {
			ids = append(ids, id)
		}
	}
	return ids
}

// View renders the admin console
func (c *Console) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(icons.Shield.String() + " Admin Console"))
	b.WriteString("\n")
	b.WriteString(c.renderTabs())
	b.WriteString("\n\n")

	if c.err != nil {
		b.WriteString(styles.StatusCritical.Render("Error: " + c.err.Error()))
		b.WriteString("\n" + styles.Help.Render("r retry  esc back"))
		return b.String()
	}

	if c.assigning && c.assignForm != nil {
		b.WriteString(c.assignForm.View())
		return b.String()
	}

	if c.tab == tabPending {
		b.WriteString(c.renderPending())
	} else {
		b.WriteString(c.renderUsers())
	}

	if c.notice != "" {
		b.WriteString("\n")
		b.WriteString(styles.StatusOK.Render(icons.CheckOK.String() + " " + c.notice))
	}

	return b.String()
}

func (c *Console) renderTabs() string {
	pending := "Pending queue"
	users := "Users"
	active := styles.SelectedRow
	inactive := styles.Help
	if c.tab == tabPending {
		return active.Render(pending) + "   " + inactive.Render(users)
	}
	return inactive.Render(pending) + "   " + active.Render(users)
}

func (c *Console) renderPending() string {
	if c.loading && c.pending == nil {
		return styles.Subtitle.Render("Loading pending issues...")
	}
	if c.pending == nil || len(c.pending.Issues) == 0 {
		return styles.Subtitle.Render("Nothing waiting for triage.")
	}

	var b strings.Builder
	for i, issue := range c.pending.Issues {
		cursor := "  "
		style := styles.NormalRow
		if i == c.cursor {
			cursor = "> "
			style = styles.SelectedRow
		}
		check := "[ ]"
		if c.selected[issue.ID] {
			check = "[x]"
		}

		title := issue.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}

		b.WriteString(fmt.Sprintf("%s%s %s #%d %s  %s\n",
			cursor, check,
			widgets.StatusText(issue.Status),
			issue.ID,
			style.Render(title),
			widgets.PriorityBadge(issue.Priority)))
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render("space select  v verify  i in progress  x close  a assign  tab users  esc back"))
	return b.String()
}

func (c *Console) renderUsers() string {
	if len(c.users) == 0 {
		return styles.Subtitle.Render("No users found.")
	}

	var b strings.Builder
	for i, user := range c.users {
		cursor := "  "
		style := styles.NormalRow
		if i == c.cursor {
			cursor = "> "
			style = styles.SelectedRow
		}

		role := styles.Help.Render(user.Role)
		if user.Role == "admin" {
			role = widgets.Badge("ADMIN", styles.Primary)
		}

		b.WriteString(fmt.Sprintf("%s#%-4d %s  %s  %s\n",
			cursor, user.ID,
			style.Render(user.FullName()),
			styles.Help.Render(user.Email),
			role))
	}

	b.WriteString("\n")
	b.WriteString(styles.Help.Render("m make admin  u make user  x delete  tab pending  esc back"))
	return b.String()
}

// validateDate accepts an empty value or a YYYY-MM-DD date
func validateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}
