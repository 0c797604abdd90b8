// ABOUTME: In-memory fake of the CivicFix backend for tests
// ABOUTME: Issues uuid bearer tokens and mimics the real error bodies

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/google/uuid"
)

// Password accepted for every fake account
const Password = "password123"

// Backend is a fake CivicFix API bound to an httptest server
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	tokens   map[string]int // token -> user ID
	expired  map[string]bool
	users    map[int]client.User
	issues   map[int]*client.Issue
	comments map[int][]client.Comment
	upvotes  map[string]bool // "userID/issueID"
	nextID   int

	// Requests counts every request that reached the fake
	Requests int
}

// NewBackend starts a fake backend with one regular user and one admin
func NewBackend() *Backend {
	b := &Backend{
		tokens:   make(map[string]int),
		expired:  make(map[string]bool),
		users:    make(map[int]client.User),
		issues:   make(map[int]*client.Issue),
		comments: make(map[int][]client.Comment),
		upvotes:  make(map[string]bool),
		nextID:   1,
	}

	b.users[1] = client.User{ID: 1, Email: "asha@example.com", FirstName: "Asha", LastName: "Patel", Role: "user"}
	b.users[2] = client.User{ID: 2, Email: "admin@example.com", FirstName: "Site", LastName: "Admin", Role: "admin"}
	b.nextID = 3

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", b.handleLogin)
	mux.HandleFunc("/api/admin/login", b.handleAdminLogin)
	mux.HandleFunc("/api/auth/verify", b.handleVerify)
	mux.HandleFunc("/api/issues", b.handleIssues)
	mux.HandleFunc("/api/issues/", b.handleIssueByID)
	mux.HandleFunc("/api/nominatim-search", b.handleSearch)
	mux.HandleFunc("/api/comments/issues/", b.handleComments)

	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.Requests++
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	return b
}

// Close shuts the fake down
func (b *Backend) Close() {
	b.Server.Close()
}

// URL returns the fake's base URL
func (b *Backend) URL() string {
	return b.Server.URL
}

// IssueToken mints a valid token for the given user
func (b *Backend) IssueToken(userID int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := uuid.NewString()
	b.tokens[token] = userID
	return token
}

// ExpireToken makes a previously valid token answer with the expired body
func (b *Backend) ExpireToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expired[token] = true
}

// AddIssue seeds an issue and returns its ID
func (b *Backend) AddIssue(issue client.Issue) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	issue.ID = b.nextID
	b.nextID++
	if issue.Status == "" {
		issue.Status = client.StatusSubmitted
	}
	b.issues[issue.ID] = &issue
	return issue.ID
}

// authenticate resolves the bearer token; it writes the appropriate 401
// body and returns false when the token is missing, unknown, or expired
func (b *Backend) authenticate(w http.ResponseWriter, r *http.Request) (int, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "Missing token")
		return 0, false
	}
	token := strings.TrimPrefix(header, "Bearer ")

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.expired[token] {
		writeError(w, http.StatusUnauthorized, "Token has expired")
		return 0, false
	}
	userID, ok := b.tokens[token]
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return 0, false
	}
	return userID, true
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	var found *client.User
	for _, u := range b.users {
		if u.Email == req.Email && u.Role != "admin" {
			user := u
			found = &user
			break
		}
	}
	b.mu.Unlock()

	if found == nil || req.Password != Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token := b.IssueToken(found.ID)
	writeJSON(w, map[string]any{"access_token": token, "user": found})
}

func (b *Backend) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if req.Username != "admin" || req.Password != Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	b.mu.Lock()
	admin := b.users[2]
	b.mu.Unlock()

	token := b.IssueToken(admin.ID)
	writeJSON(w, map[string]any{"access_token": token, "admin": admin})
}

func (b *Backend) handleVerify(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.authenticate(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	user := b.users[userID]
	b.mu.Unlock()
	writeJSON(w, map[string]any{"user": user})
}

func (b *Backend) handleIssues(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		b.mu.Lock()
		issues := make([]client.Issue, 0, len(b.issues))
		status := r.URL.Query().Get("status")
		for _, issue := range b.issues {
			if status != "" && issue.Status != status {
				continue
			}
			issues = append(issues, *issue)
		}
		b.mu.Unlock()
		writeJSON(w, map[string]any{
			"issues": issues,
			"pagination": client.Pagination{
				Page: 1, PerPage: 50, Total: len(issues), Pages: 1,
			},
		})

	case http.MethodPost:
		userID, ok := b.authenticate(w, r)
		if !ok {
			return
		}
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid form data")
			return
		}
		if r.FormValue("title") == "" {
			writeError(w, http.StatusUnprocessableEntity, "Title is required")
			return
		}
		if _, _, err := r.FormFile("image"); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Image is required")
			return
		}

		b.mu.Lock()
		reporter := b.users[userID]
		issue := client.Issue{
			ID:          b.nextID,
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			IssueType:   r.FormValue("issue_type"),
			Priority:    r.FormValue("priority"),
			Address:     r.FormValue("address"),
			Status:      client.StatusSubmitted,
			Reporter:    &reporter,
		}
		issue.Latitude, _ = strconv.ParseFloat(r.FormValue("latitude"), 64)
		issue.Longitude, _ = strconv.ParseFloat(r.FormValue("longitude"), 64)
		b.nextID++
		b.issues[issue.ID] = &issue
		b.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"issue": issue})

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (b *Backend) handleIssueByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/issues/")

	if strings.HasSuffix(rest, "/upvote") {
		b.handleUpvote(w, r, strings.TrimSuffix(rest, "/upvote"))
		return
	}

	id, err := strconv.Atoi(rest)
	if err != nil {
		writeError(w, http.StatusNotFound, "Issue not found")
		return
	}

	b.mu.Lock()
	issue, ok := b.issues[id]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Issue not found")
		return
	}
	writeJSON(w, map[string]any{"issue": issue})
}

func (b *Backend) handleUpvote(w http.ResponseWriter, r *http.Request, idStr string) {
	userID, ok := b.authenticate(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, http.StatusNotFound, "Issue not found")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	issue, found := b.issues[id]
	if !found {
		writeError(w, http.StatusNotFound, "Issue not found")
		return
	}

	key := fmt.Sprintf("%d/%d", userID, id)
	switch r.Method {
	case http.MethodPost:
		if b.upvotes[key] {
			writeError(w, http.StatusConflict, "Already upvoted")
			return
		}
		b.upvotes[key] = true
		issue.UpvoteCount++
	case http.MethodDelete:
		if !b.upvotes[key] {
			writeError(w, http.StatusNotFound, "Upvote not found")
			return
		}
		delete(b.upvotes, key)
		issue.UpvoteCount--
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, map[string]any{"message": "ok"})
}

func (b *Backend) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.Contains(strings.ToLower(q), "mumbai") || strings.Contains(strings.ToLower(q), "mumb") {
		writeJSON(w, map[string]any{"results": []client.SearchResult{
			{DisplayName: "Mumbai, Maharashtra, India", Lat: "19.0760", Lon: "72.8777"},
			{DisplayName: "Mumbai Suburban, Maharashtra, India", Lat: "19.1136", Lon: "72.8697"},
		}})
		return
	}
	writeJSON(w, map[string]any{"results": []client.SearchResult{}})
}

func (b *Backend) handleComments(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/comments/issues/")
	idStr := strings.TrimSuffix(rest, "/comments")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, http.StatusNotFound, "Issue not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		b.mu.Lock()
		comments := b.comments[id]
		b.mu.Unlock()
		writeJSON(w, map[string]any{"comments": comments})

	case http.MethodPost:
		userID, ok := b.authenticate(w, r)
		if !ok {
			return
		}
		var req struct {
			Content string `json:"content"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Content == "" {
			writeError(w, http.StatusUnprocessableEntity, "Content is required")
			return
		}

		b.mu.Lock()
		author := b.users[userID]
		comment := client.Comment{
			ID:             b.nextID,
			Content:        req.Content,
			IssueID:        id,
			Author:         &author,
			IsAdminComment: author.Role == "admin",
		}
		b.nextID++
		b.comments[id] = append(b.comments[id], comment)
		b.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"comment": comment})

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
