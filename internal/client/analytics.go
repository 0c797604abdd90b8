// ABOUTME: Analytics endpoints for the admin reporting views
// ABOUTME: Typed mirrors of the backend's chart and metric payloads

package client

import (
	"context"
	"net/http"
)

// Overview summarizes platform-wide activity
type Overview struct {
	TotalIssues        int            `json:"total_issues"`
	TotalUsers         int            `json:"total_users"`
	TotalComments      int            `json:"total_comments"`
	TotalUpvotes       int            `json:"total_upvotes"`
	RecentIssues       int            `json:"recent_issues"`
	RecentComments     int            `json:"recent_comments"`
	ResolutionRate     float64        `json:"resolution_rate"`
	StatusDistribution map[string]int `json:"status_distribution"`
}

// Dataset is one series in a chart payload
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is the label/series shape the backend emits for charts
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// ResolutionMetrics summarizes how long issues take to resolve
type ResolutionMetrics struct {
	AverageDays      float64        `json:"average_days"`
	MinDays          int            `json:"min_days"`
	MaxDays          int            `json:"max_days"`
	TotalResolved    int            `json:"total_resolved"`
	TimeDistribution map[string]int `json:"time_distribution"`
}

// ActivityEntry names a user and an activity count
type ActivityEntry struct {
	Name         string `json:"name"`
	IssueCount   int    `json:"issue_count,omitempty"`
	CommentCount int    `json:"comment_count,omitempty"`
}

// UserActivity lists the most active reporters and commenters
type UserActivity struct {
	MostActiveReporters  []ActivityEntry `json:"most_active_reporters"`
	MostActiveCommenters []ActivityEntry `json:"most_active_commenters"`
}

type overviewResponse struct {
	Overview Overview `json:"overview"`
}

type chartResponse struct {
	ChartData ChartData `json:"chart_data"`
}

type resolutionResponse struct {
	ResolutionMetrics ResolutionMetrics `json:"resolution_metrics"`
}

type userActivityResponse struct {
	UserActivity UserActivity `json:"user_activity"`
}

// AnalyticsOverview calls GET /api/analytics/overview
func (c *Client) AnalyticsOverview(ctx context.Context) (*Overview, error) {
	var resp overviewResponse
	if err := c.do(ctx, http.MethodGet, "/analytics/overview", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Overview, nil
}

// IssuesByType calls GET /api/analytics/issues-by-type
func (c *Client) IssuesByType(ctx context.Context) (*ChartData, error) {
	return c.chart(ctx, "/analytics/issues-by-type")
}

// IssuesByStatus calls GET /api/analytics/issues-by-status
func (c *Client) IssuesByStatus(ctx context.Context) (*ChartData, error) {
	return c.chart(ctx, "/analytics/issues-by-status")
}

// MonthlyTrends calls GET /api/analytics/monthly-trends
func (c *Client) MonthlyTrends(ctx context.Context) (*ChartData, error) {
	return c.chart(ctx, "/analytics/monthly-trends")
}

func (c *Client) chart(ctx context.Context, path string) (*ChartData, error) {
	var resp chartResponse
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.ChartData, nil
}

// ResolutionTime calls GET /api/analytics/resolution-time
func (c *Client) ResolutionTime(ctx context.Context) (*ResolutionMetrics, error) {
	var resp resolutionResponse
	if err := c.do(ctx, http.MethodGet, "/analytics/resolution-time", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.ResolutionMetrics, nil
}

// ActiveUsers calls GET /api/analytics/user-activity
func (c *Client) ActiveUsers(ctx context.Context) (*UserActivity, error) {
	var resp userActivityResponse
	if err := c.do(ctx, http.MethodGet, "/analytics/user-activity", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.UserActivity, nil
}
