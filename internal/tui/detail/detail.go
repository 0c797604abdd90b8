// ABOUTME: Issue detail screen with discussion thread and upvoting
// ABOUTME: Fetches the issue and its comments in parallel; upvotes apply optimistically

package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
	"github.com/civicfix/civicfix-cli/internal/tui/widgets"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// BackMsg is sent when the user leaves the detail screen
type BackMsg struct{}

// SessionExpiredMsg is sent when the backend invalidated the stored token
type SessionExpiredMsg struct{}

// loadedMsg carries the parallel fetch result
type loadedMsg struct {
	seq      int
	issue    *client.Issue
	comments []client.Comment
	err      error
}

// upvoteResultMsg reports whether the optimistic toggle stuck
type upvoteResultMsg struct {
	wanted bool
	err    error
}

// commentPostedMsg carries a newly created comment
type commentPostedMsg struct {
	comment *client.Comment
	err     error
}

// Detail is the issue detail screen
type Detail struct {
	api      *client.Client
	issueID  int
	loggedIn bool

	seq      int
	issue    *client.Issue
	comments []client.Comment
	loading  bool
	err      error
	notice   string
	width    int

	composing bool
	composer  textinput.Model
}

// New creates a detail screen for one issue
func New(api *client.Client, issueID int, loggedIn bool, width int) *Detail {
	ti := textinput.New()
	ti.Placeholder = "Add a comment..."
	ti.CharLimit = 1000
	ti.Width = 60

	return &Detail{
		api:      api,
		issueID:  issueID,
		loggedIn: loggedIn,
		width:    width,
		composer: ti,
	}
}

// Init starts the parallel fetch
func (d *Detail) Init() tea.Cmd {
	return d.fetch()
}

// SetWidth adjusts the layout width
func (d *Detail) SetWidth(width int) {
	d.width = width
}

// fetch loads the issue and its comments concurrently. Either failure
// fails the whole load.
func (d *Detail) fetch() tea.Cmd {
	d.seq++
	d.loading = true
	seq, api, id := d.seq, d.api, d.issueID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var issue *client.Issue
		var comments []client.Comment

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			issue, err = api.GetIssue(gctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			comments, err = api.ListComments(gctx, id)
			return err
		})

		if err := g.Wait(); err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		return loadedMsg{seq: seq, issue: issue, comments: comments}
	}
}

// Update handles messages for the detail screen
func (d *Detail) Update(msg tea.Msg) (*Detail, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if d.composing {
			return d.updateComposer(msg)
		}
		return d.updateKey(msg)

	case loadedMsg:
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
		d.issue = msg.issue
		d.comments = msg.comments
		return d, nil

	case upvoteResultMsg:
		if msg.err != nil {
			if client.IsSessionExpired(msg.err) {
				return d, func() tea.Msg { return SessionExpiredMsg{} }
			}
			// Roll the optimistic toggle back
			d.applyUpvote(!msg.wanted)
			d.notice = "Upvote failed: " + msg.err.Error()
		}
		return d, nil

	case commentPostedMsg:
		if msg.err != nil {
			if client.IsSessionExpired(msg.err) {
				return d, func() tea.Msg { return SessionExpiredMsg{} }
			}
			d.notice = "Comment failed: " + msg.err.Error()
			return d, nil
		}
		d.comments = append(d.comments, *msg.comment)
		if d.issue != nil {
			d.issue.CommentCount++
		}
		d.notice = ""
		return d, nil
	}

	return d, nil
}

func (d *Detail) updateKey(msg tea.KeyMsg) (*Detail, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		return d, func() tea.Msg { return BackMsg{} }
	case "r":
		return d, d.fetch()
	case "u":
		if d.loggedIn && d.issue != nil {
			return d.toggleUpvote()
		}
	case "c":
		if d.loggedIn {
			d.composing = true
			d.notice = ""
			d.composer.Focus()
			return d, textinput.Blink
		}
	}
	return d, nil
}

func (d *Detail) updateComposer(msg tea.KeyMsg) (*Detail, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.composing = false
		d.composer.Blur()
		d.composer.SetValue("")
		return d, nil
	case "enter":
		content := strings.TrimSpace(d.composer.Value())
		if content == "" {
			return d, nil
		}
		d.composing = false
		d.composer.Blur()
		d.composer.SetValue("")
		api, id := d.api, d.issueID
		return d, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			comment, err := api.CreateComment(ctx, id, content)
			return commentPostedMsg{comment: comment, err: err}
		}
	}

	var cmd tea.Cmd
	d.composer, cmd = d.composer.Update(msg)
	return d, cmd
}

// toggleUpvote flips the local state immediately and reconciles with the
// backend afterwards
func (d *Detail) toggleUpvote() (*Detail, tea.Cmd) {
	wanted := !d.issue.HasUpvoted
	d.applyUpvote(wanted)

	api, id := d.api, d.issueID
	return d, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var err error
		if wanted {
			err = api.Upvote(ctx, id)
		} else {
			err = api.RemoveUpvote(ctx, id)
		}
		return upvoteResultMsg{wanted: wanted, err: err}
	}
}

func (d *Detail) applyUpvote(hasUpvoted bool) {
	if d.issue == nil || d.issue.HasUpvoted == hasUpvoted {
		return
	}
	d.issue.HasUpvoted = hasUpvoted
	if hasUpvoted {
		d.issue.UpvoteCount++
	} else if d.issue.UpvoteCount > 0 {
		d.issue.UpvoteCount--
	}
}

// View renders the detail screen
func (d *Detail) View() string {
	if d.err != nil {
		return styles.StatusCritical.Render("Error: "+d.err.Error()) + "\n" + styles.Help.Render("r retry  esc back")
	}

	if d.loading && d.issue == nil {
		return styles.Subtitle.Render("Loading issue...")
	}

	if d.issue == nil {
		return ""
	}

	var b strings.Builder
	issue := d.issue

	b.WriteString(styles.Title.Render(fmt.Sprintf("%s Issue #%d", icons.Issue.String(), issue.ID)))
	b.WriteString("\n")
	b.WriteString(styles.ValueStyle.Render(issue.Title))
	b.WriteString("\n")
	b.WriteString(widgets.StatusBadge(issue.Status))
	b.WriteString(" ")
	b.WriteString(widgets.PriorityBadge(issue.Priority))
	b.WriteString("  ")
	b.WriteString(widgets.UpvoteCount(issue.UpvoteCount, issue.HasUpvoted))
	b.WriteString("\n\n")

	b.WriteString(issue.Description)
	b.WriteString("\n\n")

	if issue.Address != "" {
		b.WriteString(styles.Help.Render(icons.MapPin.String() + " " + issue.Address))
		b.WriteString("\n")
	}
	if issue.Reporter != nil {
		line := "Reported by " + issue.Reporter.FullName()
		if t, ok := client.ParseTimestamp(issue.CreatedAt); ok {
			line += " " + humanize.Time(t)
		}
		b.WriteString(styles.Help.Render(line))
		b.WriteString("\n")
	}
	if issue.AssignedTo != "" {
		b.WriteString(styles.Help.Render("Assigned to " + issue.AssignedTo))
		b.WriteString("\n")
	}
	if issue.ImageURL != "" {
		b.WriteString(styles.Help.Render(icons.Camera.String() + " Photo: " + issue.ImageURL))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(d.renderComments())

	if d.notice != "" {
		b.WriteString("\n")
		b.WriteString(styles.StatusWarning.Render(d.notice))
	}

	b.WriteString("\n")
	if d.composing {
		b.WriteString("\n" + d.composer.View())
		b.WriteString("\n" + styles.Help.Render("enter post  esc discard"))
	} else if d.loggedIn {
		b.WriteString(styles.Help.Render("u upvote  c comment  r refresh  esc back"))
	} else {
		b.WriteString(styles.Help.Render("log in to upvote or comment  r refresh  esc back"))
	}

	return b.String()
}

func (d *Detail) renderComments() string {
	var b strings.Builder

	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s Comments (%d)", icons.Comment.String(), len(d.comments))))
	b.WriteString("\n")

	if len(d.comments) == 0 {
		b.WriteString(styles.Help.Render("No comments yet."))
		return b.String()
	}

	for _, comment := range d.comments {
		author := "Unknown"
		if comment.Author != nil {
			author = comment.Author.FullName()
		}
		header := styles.ValueStyle.Render(author)
		if comment.IsAdminComment {
			header += " " + widgets.Badge("STAFF", styles.Primary)
		}
		if t, ok := client.ParseTimestamp(comment.CreatedAt); ok {
			header += " " + styles.Help.Render(humanize.Time(t))
		}
		b.WriteString(header)
		b.WriteString("\n")
		b.WriteString("  " + comment.Content)
		b.WriteString("\n")
	}

	return b.String()
}
