// ABOUTME: Tests for the core HTTP client behavior
// ABOUTME: Covers bearer attachment, the selective 401 rule, and error mapping

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeTokens is an in-memory TokenSource for tests
type fakeTokens struct {
	token   string
	cleared bool
}

func (f *fakeTokens) Token() string { return f.token }
func (f *fakeTokens) ClearToken()  { f.token = ""; f.cleared = true }

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/auth/verify" {
			t.Errorf("expected path /api/auth/verify, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user": {"id": 1, "email": "a@b.c", "first_name": "A", "role": "user"}}`))
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "tok-123"}
	c := New(server.URL, tokens)

	user, err := c.Verify(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected Authorization 'Bearer tok-123', got %q", gotAuth)
	}
	if user.ID != 1 {
		t.Errorf("expected user ID 1, got %d", user.ID)
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"issues": [], "pagination": {"page": 1, "pages": 0}}`))
	}))
	defer server.Close()

	c := New(server.URL, &fakeTokens{})

	if _, err := c.ListIssues(context.Background(), IssueFilter{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestExpiredTokenClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Token has expired"}`))
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "stale"}
	c := New(server.URL, tokens)

	_, err := c.ListIssues(context.Background(), IssueFilter{})
	if !IsSessionExpired(err) {
		t.Fatalf("expected session-expired error, got %v", err)
	}
	if !tokens.cleared {
		t.Error("expected the token to be cleared")
	}
}

func TestInvalidTokenClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid token"}`))
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "bogus"}
	c := New(server.URL, tokens)

	_, err := c.ListIssues(context.Background(), IssueFilter{})
	if !IsSessionExpired(err) {
		t.Fatalf("expected session-expired error, got %v", err)
	}
	if !tokens.cleared {
		t.Error("expected the token to be cleared")
	}
}

func TestLoginFailureKeepsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid email or password"}`))
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "still-good"}
	c := New(server.URL, tokens)

	_, err := c.Login(context.Background(), "a@b.c", "wrong")
	if IsSessionExpired(err) {
		t.Fatal("a failed login must not count as an expired session")
	}
	apiErr, ok := AsAPIError(err)
	if !ok || !apiErr.IsAuth() {
		t.Fatalf("expected auth APIError, got %v", err)
	}
	if apiErr.Message != "Invalid email or password" {
		t.Errorf("expected the backend message verbatim, got %q", apiErr.Message)
	}
	if tokens.cleared {
		t.Error("a login 401 must leave the stored token alone")
	}
}

func TestPermission401KeepsToken(t *testing.T) {
	// A 401 with an unrecognized body is a refusal, not a dead token
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Admin access required"}`))
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "user-token"}
	c := New(server.URL, tokens)

	_, err := c.ListIssues(context.Background(), IssueFilter{})
	if IsSessionExpired(err) {
		t.Fatal("a permission refusal must not count as an expired session")
	}
	if tokens.cleared {
		t.Error("expected the token to survive")
	}
}

func TestAuthEndpoint401KeepsToken(t *testing.T) {
	// Only a 401 outside the auth routes proves the stored token is dead;
	// verify itself is an auth route and must never clear
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid token"}`))
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "bogus"}
	c := New(server.URL, tokens)

	_, err := c.Verify(context.Background())
	if IsSessionExpired(err) {
		t.Fatal("a verify 401 must not count as an expired session")
	}
	if tokens.cleared {
		t.Error("a verify 401 must leave the stored token alone")
	}
}

func TestValidationErrorVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": "Title must be at least 5 characters"}`))
	}))
	defer server.Close()

	c := New(server.URL, nil)

	_, err := c.Login(context.Background(), "a@b.c", "password")
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.IsValidation() {
		t.Error("expected a validation error")
	}
	if apiErr.Message != "Title must be at least 5 characters" {
		t.Errorf("expected the backend message verbatim, got %q", apiErr.Message)
	}
}

func TestErrorBodyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := New(server.URL, nil)

	_, err := c.ListIssues(context.Background(), IssueFilter{})
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "backend returned status 500" {
		t.Errorf("expected the fallback message, got %q", apiErr.Message)
	}
}

func TestMsgFieldFallback(t *testing.T) {
	// flask-jwt-extended writes "msg" instead of "error" on some 401s
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg": "Token has expired"}`))
	}))
	defer server.Close()

	tokens := &fakeTokens{token: "stale"}
	c := New(server.URL, tokens)

	_, err := c.ListIssues(context.Background(), IssueFilter{})
	if !IsSessionExpired(err) {
		t.Fatalf("expected session-expired error, got %v", err)
	}
}

func TestConnectionError(t *testing.T) {
	c := New("http://localhost:99999", nil)

	_, err := c.ListIssues(context.Background(), IssueFilter{})
	if err == nil {
		t.Fatal("expected a connection error")
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := New(server.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListIssues(ctx, IssueFilter{})
	if err == nil {
		t.Fatal("expected an error from the canceled context")
	}
	if err.Error() != "request canceled" {
		t.Errorf("expected 'request canceled', got %q", err.Error())
	}
}
