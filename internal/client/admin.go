// ABOUTME: Admin endpoints for triage and user management
// ABOUTME: Pending queue, bulk updates, assignment, and user CRUD

package client

import (
	"context"
	"net/http"
	"strconv"
)

type usersResponse struct {
	Users []User `json:"users"`
}

// UserUpdate carries the account fields an admin may change
type UserUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

type bulkUpdateRequest struct {
	IssueIDs []int       `json:"issue_ids"`
	Updates  IssueUpdate `json:"updates"`
}

// AssignInput names who takes over an issue
type AssignInput struct {
	AssignedTo              string `json:"assigned_to"`
	EstimatedResolutionDate string `json:"estimated_resolution_date,omitempty"`
}

// ListUsers calls GET /api/admin/users
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var resp usersResponse
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// GetUser calls GET /api/admin/users/{id}
func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/admin/users/"+strconv.Itoa(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateUser calls PUT /api/admin/users/{id}
func (c *Client) UpdateUser(ctx context.Context, id int, update UserUpdate) (*User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodPut, "/admin/users/"+strconv.Itoa(id), nil, update, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// DeleteUser calls DELETE /api/admin/users/{id}
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+strconv.Itoa(id), nil, nil, nil)
}

// PendingIssues calls GET /api/admin/issues/pending
func (c *Client) PendingIssues(ctx context.Context) (*IssueList, error) {
	var list IssueList
	if err := c.do(ctx, http.MethodGet, "/admin/issues/pending", nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// BulkUpdateIssues calls POST /api/admin/issues/bulk-update
func (c *Client) BulkUpdateIssues(ctx context.Context, issueIDs []int, updates IssueUpdate) error {
	return c.do(ctx, http.MethodPost, "/admin/issues/bulk-update", nil, bulkUpdateRequest{IssueIDs: issueIDs, Updates: updates}, nil)
}

// AssignIssue calls POST /api/admin/issues/{id}/assign
func (c *Client) AssignIssue(ctx context.Context, issueID int, input AssignInput) error {
	return c.do(ctx, http.MethodPost, "/admin/issues/"+strconv.Itoa(issueID)+"/assign", nil, input, nil)
}
