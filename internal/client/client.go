// ABOUTME: HTTP client for the CivicFix issue-reporting API
// ABOUTME: Attaches bearer tokens and maps backend errors for CLI usage

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for outgoing requests and is told
// when the backend declares the token dead.
type TokenSource interface {
	Token() string
	ClearToken()
}

// Client is the API client for the CivicFix backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New creates a new API client with the given base URL. tokens may be nil
// for anonymous access.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
	}
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error string `json:"error"`
	Msg   string `json:"msg,omitempty"`
}

// do issues a JSON request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, path, out)
}

// newRequest builds a request against the API with the bearer token attached
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// send executes the request and decodes a 2xx body into out
func (c *Client) send(req *http.Request, path string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(req.Context(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses. A 401 from a non-auth
// endpoint whose body names an invalid or expired token kills the stored
// session; any other 401 (a failed login attempt, a permission refusal
// with a different body) leaves the token alone.
func (c *Client) handleErrorResponse(resp *http.Response, path string) error {
	var errResp ErrorResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&errResp)

	message := errResp.Error
	if message == "" {
		message = errResp.Msg
	}

	if resp.StatusCode == http.StatusUnauthorized && !isAuthEndpoint(path) {
		if c.tokens != nil && c.tokens.Token() != "" && isTokenDeadMessage(message) {
			c.tokens.ClearToken()
			return fmt.Errorf("%w: %s", ErrSessionExpired, message)
		}
	}

	if decodeErr != nil || message == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("backend returned status %d", resp.StatusCode)}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}

// isAuthEndpoint reports whether the path belongs to the login/register
// surface, where a 401 means bad credentials rather than a dead session
func isAuthEndpoint(path string) bool {
	return strings.Contains(path, "/auth/") || path == "/admin/login"
}

// isTokenDeadMessage matches the two backend bodies that mean the token
// itself is unusable
func isTokenDeadMessage(message string) bool {
	return message == "Invalid token" || message == "Token has expired"
}
