// ABOUTME: Comment endpoints for issue discussions
// ABOUTME: List, create, update, and delete comments on an issue

package client

import (
	"context"
	"net/http"
	"strconv"
)

type commentsResponse struct {
	Comments []Comment `json:"comments"`
}

type commentResponse struct {
	Comment Comment `json:"comment"`
}

type commentRequest struct {
	Content string `json:"content"`
}

// ListComments calls GET /api/comments/issues/{id}/comments
func (c *Client) ListComments(ctx context.Context, issueID int) ([]Comment, error) {
	var resp commentsResponse
	if err := c.do(ctx, http.MethodGet, "/comments/issues/"+strconv.Itoa(issueID)+"/comments", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

// CreateComment calls POST /api/comments/issues/{id}/comments
func (c *Client) CreateComment(ctx context.Context, issueID int, content string) (*Comment, error) {
	var resp commentResponse
	if err := c.do(ctx, http.MethodPost, "/comments/issues/"+strconv.Itoa(issueID)+"/comments", nil, commentRequest{Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp.Comment, nil
}

// UpdateComment calls PUT /api/comments/comments/{id}
func (c *Client) UpdateComment(ctx context.Context, commentID int, content string) (*Comment, error) {
	var resp commentResponse
	if err := c.do(ctx, http.MethodPut, "/comments/comments/"+strconv.Itoa(commentID), nil, commentRequest{Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp.Comment, nil
}

// DeleteComment calls DELETE /api/comments/comments/{id}
func (c *Client) DeleteComment(ctx context.Context, commentID int) error {
	return c.do(ctx, http.MethodDelete, "/comments/comments/"+strconv.Itoa(commentID), nil, nil, nil)
}
