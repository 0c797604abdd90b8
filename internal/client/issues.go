// ABOUTME: Issue CRUD, filtering, and upvote endpoints
// ABOUTME: Includes the multipart report submission with photo upload

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// IssueFilter narrows an issue listing. Zero values mean "no constraint".
type IssueFilter struct {
	Page      int
	PerPage   int
	Status    string
	IssueType string
	Priority  string
	UserID    int
}

func (f IssueFilter) query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.IssueType != "" {
		q.Set("issue_type", f.IssueType)
	}
	if f.Priority != "" {
		q.Set("priority", f.Priority)
	}
	if f.UserID > 0 {
		q.Set("user_id", strconv.Itoa(f.UserID))
	}
	return q
}

// IssueList is one page of issues
type IssueList struct {
	Issues     []Issue    `json:"issues"`
	Pagination Pagination `json:"pagination"`
}

type issueResponse struct {
	Issue Issue `json:"issue"`
}

type typesResponse struct {
	IssueTypes []string `json:"issue_types"`
}

type statusesResponse struct {
	Statuses []string `json:"statuses"`
}

// IssueUpdate carries the fields an authorized caller may change
type IssueUpdate struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	AssignedTo  string `json:"assigned_to,omitempty"`
}

// ReportInput holds everything needed to submit a new issue
type ReportInput struct {
	Title       string
	Description string
	IssueType   string
	Priority    string
	Address     string
	Latitude    float64
	Longitude   float64
	ImagePath   string
}

// ListIssues calls GET /api/issues with the filter applied
func (c *Client) ListIssues(ctx context.Context, filter IssueFilter) (*IssueList, error) {
	var list IssueList
	if err := c.do(ctx, http.MethodGet, "/issues", filter.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetIssue calls GET /api/issues/{id}
func (c *Client) GetIssue(ctx context.Context, id int) (*Issue, error) {
	var resp issueResponse
	if err := c.do(ctx, http.MethodGet, "/issues/"+strconv.Itoa(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Issue, nil
}

// CreateIssue calls POST /api/issues as a multipart payload carrying the
// text fields plus the photo
func (c *Client) CreateIssue(ctx context.Context, input ReportInput) (*Issue, error) {
	file, err := os.Open(input.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open image: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"issue_type":  input.IssueType,
		"priority":    input.Priority,
		"address":     input.Address,
		"latitude":    strconv.FormatFloat(input.Latitude, 'f', -1, 64),
		"longitude":   strconv.FormatFloat(input.Longitude, 'f', -1, 64),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
	}

	part, err := writer.CreateFormFile("image", filepath.Base(input.ImagePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/issues", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp issueResponse
	if err := c.send(req, "/issues", &resp); err != nil {
		return nil, err
	}
	return &resp.Issue, nil
}

// UpdateIssue calls PUT /api/issues/{id}
func (c *Client) UpdateIssue(ctx context.Context, id int, update IssueUpdate) (*Issue, error) {
	var resp issueResponse
	if err := c.do(ctx, http.MethodPut, "/issues/"+strconv.Itoa(id), nil, update, &resp); err != nil {
		return nil, err
	}
	return &resp.Issue, nil
}

// DeleteIssue calls DELETE /api/issues/{id}
func (c *Client) DeleteIssue(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/issues/"+strconv.Itoa(id), nil, nil, nil)
}

// Upvote calls POST /api/issues/{id}/upvote
func (c *Client) Upvote(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, "/issues/"+strconv.Itoa(id)+"/upvote", nil, nil, nil)
}

// RemoveUpvote calls DELETE /api/issues/{id}/upvote
func (c *Client) RemoveUpvote(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/issues/"+strconv.Itoa(id)+"/upvote", nil, nil, nil)
}

// IssueTypes calls GET /api/issues/types
func (c *Client) IssueTypes(ctx context.Context) ([]string, error) {
	var resp typesResponse
	if err := c.do(ctx, http.MethodGet, "/issues/types", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.IssueTypes, nil
}

// IssueStatuses calls GET /api/issues/statuses
func (c *Client) IssueStatuses(ctx context.Context) ([]string, error) {
	var resp statusesResponse
	if err := c.do(ctx, http.MethodGet, "/issues/statuses", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Statuses, nil
}
