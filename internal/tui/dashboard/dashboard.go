// ABOUTME: Personal dashboard showing the signed-in user's reported issues
// ABOUTME: Count blocks up top, paginated issue list below

package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
	"github.com/civicfix/civicfix-cli/internal/tui/widgets"
	"github.com/dustin/go-humanize"
)

// IssueChosenMsg is sent when the user opens one of their issues
type IssueChosenMsg struct {
	ID int
}

// SessionExpiredMsg is sent when the backend invalidated the stored token
type SessionExpiredMsg struct{}

// GoReportMsg is sent when the user jumps to the report flow
type GoReportMsg struct{}

// GoMapMsg is sent when the user jumps to the issue map
type GoMapMsg struct{}

// issuesLoadedMsg carries a fetched page; stale sequences are dropped
type issuesLoadedMsg struct {
	seq  int
	list *client.IssueList
	err  error
}

// deletedMsg reports the outcome of deleting one of the user's issues
type deletedMsg struct {
	id  int
	err error
}

// Dashboard is the personal issue overview screen
type Dashboard struct {
	api    *client.Client
	userID int

	seq     int
	list    *client.IssueList
	page    int
	cursor  int
	loading bool
	err     error
	width   int
}

// New creates a dashboard for the given user
func New(api *client.Client, userID int, width int) *Dashboard {
	return &Dashboard{api: api, userID: userID, page: 1, width: width}
}

// Init kicks off the first fetch
func (d *Dashboard) Init() tea.Cmd {
	return d.fetch()
}

// SetWidth adjusts the layout width
func (d *Dashboard) SetWidth(width int) {
	d.width = width
}

func (d *Dashboard) fetch() tea.Cmd {
	d.seq++
	d.loading = true
	seq, api, userID, page := d.seq, d.api, d.userID, d.page
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		list, err := api.ListIssues(ctx, client.IssueFilter{UserID: userID, Page: page, PerPage: 10})
		return issuesLoadedMsg{seq: seq, list: list, err: err}
	}
}

// Update handles messages for the dashboard
func (d *Dashboard) Update(msg tea.Msg) (*Dashboard, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d.updateKey(msg)

	case issuesLoadedMsg:
		if msg.seq != d.seq {
			return d, nil
		}
		d.loading = false
		if msg.err != nil {
			if client.IsSessionExpired(msg.err) {
				return d, func() tea.Msg { return SessionExpiredMsg{} }
			}
			d.err = msg.err
			return d, nil
		}
		d.err = nil
		d.list = msg.list
		if d.cursor >= len(d.list.Issues) {
			d.cursor = len(d.list.Issues) - 1
		}
		if d.cursor < 0 {
			d.cursor = 0
		}
		return d, nil

	case deletedMsg:
		if msg.err != nil {
			if client.IsSessionExpired(msg.err) {
				return d, func() tea.Msg { return SessionExpiredMsg{} }
			}
			d.err = msg.err
			return d, nil
		}
		// Refetch to restore the page after removal
		return d, d.fetch()
	}

	return d, nil
}

func (d *Dashboard) updateKey(msg tea.KeyMsg) (*Dashboard, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.list != nil && d.cursor < len(d.list.Issues)-1 {
			d.cursor++
		}
	case "enter":
		if d.list != nil && d.cursor < len(d.list.Issues) {
			id := d.list.Issues[d.cursor].ID
			return d, func() tea.Msg { return IssueChosenMsg{ID: id} }
		}
	case "n":
		if d.list != nil && d.list.Pagination.HasNext {
			d.page++
			return d, d.fetch()
		}
	case "p":
		if d.list != nil && d.list.Pagination.HasPrev {
			d.page--
			return d, d.fetch()
		}
	case "x":
		if d.list != nil && d.cursor < len(d.list.Issues) {
			return d, d.deleteIssue(d.list.Issues[d.cursor].ID)
		}
	case "r":
		return d, d.fetch()
	case "w":
		return d, func() tea.Msg { return GoReportMsg{} }
	case "m":
		return d, func() tea.Msg { return GoMapMsg{} }
	}
	return d, nil
}

func (d *Dashboard) deleteIssue(id int) tea.Cmd {
	api := d.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return deletedMsg{id: id, err: api.DeleteIssue(ctx, id)}
	}
}

// View renders the dashboard
func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(icons.User.String() + " My Reports"))
	b.WriteString("\n")

	if d.err != nil {
		b.WriteString(styles.StatusCritical.Render("Error: " + d.err.Error()))
		b.WriteString("\n" + styles.Help.Render("r retry"))
		return b.String()
	}

	if d.loading && d.list == nil {
		b.WriteString(styles.Subtitle.Render("Loading your reports..."))
		return b.String()
	}

	if d.list == nil {
		return b.String()
	}

	b.WriteString(d.renderStats())
	b.WriteString("\n\n")

	if len(d.list.Issues) == 0 {
		b.WriteString(styles.Subtitle.Render("You have not reported any issues yet."))
		return b.String()
	}

	for i, issue := range d.list.Issues {
		b.WriteString(d.renderRow(i, issue))
		b.WriteString("\n")
	}

	p := d.list.Pagination
	if p.Pages > 1 {
		b.WriteString("\n")
		b.WriteString(styles.Help.Render(fmt.Sprintf("Page %d of %d (%d total)  n next  p prev", p.Page, p.Pages, p.Total)))
	}
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("w report an issue  m issue map"))

	return b.String()
}

func (d *Dashboard) renderStats() string {
	counts := map[string]int{}
	for _, issue := range d.list.Issues {
		counts[issue.Status]++
	}
	open := counts[client.StatusSubmitted] + counts[client.StatusVerified] + counts[client.StatusInProgress]
	resolved := counts[client.StatusResolved] + counts[client.StatusClosed]

	config := widgets.DefaultMetricBlockConfig()
	total := widgets.CountBlock(icons.Issue, "Reported", d.list.Pagination.Total, "all time", config)
	openBlock := widgets.CountBlock(icons.Warning, "Open", open, "this page", config)
	resolvedBlock := widgets.CountBlock(icons.CheckOK, "Resolved", resolved, "this page", config)

	return lipgloss.JoinHorizontal(lipgloss.Top, total, " ", openBlock, " ", resolvedBlock)
}

func (d *Dashboard) renderRow(i int, issue client.Issue) string {
	cursor := "  "
	titleStyle := styles.NormalRow
	if i == d.cursor {
		cursor = "> "
		titleStyle = styles.SelectedRow
	}

	title := issue.Title
	if len(title) > 40 {
		title = title[:37] + "..."
	}

	age := ""
	if t, ok := client.ParseTimestamp(issue.CreatedAt); ok {
		age = humanize.Time(t)
	}

	return fmt.Sprintf("%s%s  %s  %s %s",
		cursor,
		widgets.StatusText(issue.Status),
		titleStyle.Render(title),
		widgets.UpvoteCount(issue.UpvoteCount, issue.HasUpvoted),
		styles.Help.Render(age))
}
