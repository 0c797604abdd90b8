// ABOUTME: Analytics screen aggregating the six admin reporting endpoints
// ABOUTME: Fetches everything in parallel and renders charts in the terminal

package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/tui/icons"
	"github.com/civicfix/civicfix-cli/internal/tui/styles"
	"github.com/civicfix/civicfix-cli/internal/tui/widgets"
	"golang.org/x/sync/errgroup"
)

// BackMsg is sent when the user leaves the analytics screen
type BackMsg struct{}

// SessionExpiredMsg is sent when the backend invalidated the stored token
type SessionExpiredMsg struct{}

// bundle is everything the screen shows, fetched as one unit
type bundle struct {
	overview   *client.Overview
	byType     *client.ChartData
	byStatus   *client.ChartData
	trends     *client.ChartData
	resolution *client.ResolutionMetrics
	activity   *client.UserActivity
}

// loadedMsg carries the fan-out result
type loadedMsg struct {
	seq  int
	data *bundle
	err  error
}

// Analytics is the reporting screen
type Analytics struct {
	api *client.Client

	seq     int
	data    *bundle
	loading bool
	err     error
	width   int
}

// New creates the analytics screen
func New(api *client.Client, width int) *Analytics {
	return &Analytics{api: api, width: width}
}

// Init starts the parallel fetch
func (a *Analytics) Init() tea.Cmd {
	return a.fetch()
}

// SetWidth adjusts the layout width
func (a *Analytics) SetWidth(width int) {
	a.width = width
}

// fetch loads all six endpoints concurrently; one failure fails the screen
func (a *Analytics) fetch() tea.Cmd {
	a.seq++
	a.loading = true
	seq, api := a.seq, a.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		var data bundle
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { data.overview, err = api.AnalyticsOverview(gctx); return })
		g.Go(func() (err error) { data.byType, err = api.IssuesByType(gctx); return })
		g.Go(func() (err error) { data.byStatus, err = api.IssuesByStatus(gctx); return })
		g.Go(func() (err error) { data.trends, err = api.MonthlyTrends(gctx); return })
		g.Go(func() (err error) { data.resolution, err = api.ResolutionTime(gctx); return })
		g.Go(func() (err error) { data.activity, err = api.ActiveUsers(gctx); return })

		if err := g.Wait(); err != nil {
			return loadedMsg{seq: seq, err: err}
		}
		return loadedMsg{seq: seq, data: &data}
	}
}

// Update handles messages for the analytics screen
func (a *Analytics) Update(msg tea.Msg) (*Analytics, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "b":
			return a, func() tea.Msg { return BackMsg{} }
		case "r":
			return a, a.fetch()
		}

	case loadedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.loading = false
		if msg.err != nil {
			if client.IsSessionExpired(msg.err) {
				return a, func() tea.Msg { return SessionExpiredMsg{} }
			}
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.data = msg.data
		return a, nil
	}

	return a, nil
}

// View renders the analytics screen
func (a *Analytics) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(icons.Chart.String() + " Analytics"))
	b.WriteString("\n")

	if a.err != nil {
		b.WriteString(styles.StatusCritical.Render("Error: " + a.err.Error()))
		b.WriteString("\n" + styles.Help.Render("r retry  esc back"))
		return b.String()
	}

	if a.loading && a.data == nil {
		b.WriteString(styles.Subtitle.Render("Crunching numbers..."))
		return b.String()
	}

	if a.data == nil {
		return b.String()
	}

	b.WriteString(a.renderOverview())
	b.WriteString("\n\n")
	b.WriteString(a.renderCharts())
	b.WriteString("\n\n")
	b.WriteString(a.renderResolution())
	b.WriteString("\n\n")
	b.WriteString(a.renderActivity())
	b.WriteString("\n\n")
	b.WriteString(styles.Help.Render("r refresh  esc back"))

	return b.String()
}

func (a *Analytics) renderOverview() string {
	o := a.data.overview
	config := widgets.DefaultMetricBlockConfig()

	var trend []float64
	if a.data.trends != nil && len(a.data.trends.Datasets) > 0 {
		trend = a.data.trends.Datasets[0].Data
	}

	issues := widgets.MetricBlockWithSparkline(icons.Issue, "Issues",
		fmt.Sprintf("%d", o.TotalIssues), trend,
		fmt.Sprintf("%d this month", o.RecentIssues), config)
	users := widgets.CountBlock(icons.Users, "Users", o.TotalUsers, "registered", config)
	comments := widgets.CountBlock(icons.Comment, "Comments", o.TotalComments,
		fmt.Sprintf("%d recent", o.RecentComments), config)
	resolved := widgets.MetricBlock(icons.CheckOK, "Resolved",
		fmt.Sprintf("%.1f%%", o.ResolutionRate), "resolution rate", config)

	return lipgloss.JoinHorizontal(lipgloss.Top, issues, " ", users, " ", comments, " ", resolved)
}

func (a *Analytics) renderCharts() string {
	var b strings.Builder

	if chart := a.data.byStatus; chart != nil && len(chart.Datasets) > 0 {
		b.WriteString(styles.Subtitle.Render("Issues by status"))
		b.WriteString("\n")
		colors := make([]lipgloss.Color, len(chart.Labels))
		for i, label := range chart.Labels {
			colors[i] = styles.StatusColor(label)
		}
		b.WriteString(widgets.ColoredBarChart(chart.Labels, chart.Datasets[0].Data, colors, widgets.DefaultBarChartConfig()))
		b.WriteString("\n\n")
	}

	if chart := a.data.byType; chart != nil && len(chart.Datasets) > 0 {
		b.WriteString(styles.Subtitle.Render("Issues by type"))
		b.WriteString("\n")
		b.WriteString(widgets.BarChart(chart.Labels, chart.Datasets[0].Data, widgets.DefaultBarChartConfig()))
		b.WriteString("\n\n")
	}

	if chart := a.data.trends; chart != nil && len(chart.Datasets) > 0 {
		b.WriteString(styles.Subtitle.Render("Monthly trend"))
		b.WriteString("\n")
		data := chart.Datasets[0].Data
		b.WriteString(widgets.Sparkline(data, 36, styles.Primary))
		if len(chart.Labels) > 0 {
			first, last := chart.Labels[0], chart.Labels[len(chart.Labels)-1]
			b.WriteString("\n" + styles.Help.Render(first+" to "+last))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (a *Analytics) renderResolution() string {
	m := a.data.resolution
	if m == nil || m.TotalResolved == 0 {
		return styles.Help.Render("No resolved issues yet.")
	}

	var b strings.Builder
	b.WriteString(styles.Subtitle.Render("Resolution time"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Average %s  fastest %s  slowest %s  (%d resolved)",
		styles.ValueStyle.Render(fmt.Sprintf("%.1f days", m.AverageDays)),
		styles.ValueStyle.Render(fmt.Sprintf("%d days", m.MinDays)),
		styles.ValueStyle.Render(fmt.Sprintf("%d days", m.MaxDays)),
		m.TotalResolved))

	if len(m.TimeDistribution) > 0 {
		labels := make([]string, 0, len(m.TimeDistribution))
		for label := range m.TimeDistribution {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		values := make([]float64, len(labels))
		for i, label := range labels {
			values[i] = float64(m.TimeDistribution[label])
		}
		b.WriteString("\n")
		b.WriteString(widgets.BarChart(labels, values, widgets.DefaultBarChartConfig()))
	}

	return b.String()
}

func (a *Analytics) renderActivity() string {
	act := a.data.activity
	if act == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.Subtitle.Render("Most active users"))
	b.WriteString("\n")

	for i, entry := range act.MostActiveReporters {
		if i >= 5 {
			break
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			icons.Report.String(),
			styles.ValueStyle.Render(entry.Name),
			styles.Help.Render(fmt.Sprintf("%d issues", entry.IssueCount))))
	}
	for i, entry := range act.MostActiveCommenters {
		if i >= 5 {
			break
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			icons.Comment.String(),
			styles.ValueStyle.Render(entry.Name),
			styles.Help.Render(fmt.Sprintf("%d comments", entry.CommentCount))))
	}

	return strings.TrimRight(b.String(), "\n")
}
