// ABOUTME: Data types exchanged with the CivicFix backend
// ABOUTME: Client-side copies only; the backend owns the records

package client

import (
	"strconv"
	"time"
)

// Issue status progression as reported by the backend
const (
	StatusSubmitted  = "submitted"
	StatusVerified   = "verified"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Priority levels accepted by the backend
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// User represents an account on the backend
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// FullName returns the display name for a user
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Issue represents a reported community problem
type Issue struct {
	ID                      int     `json:"id"`
	Title                   string  `json:"title"`
	Description             string  `json:"description"`
	IssueType               string  `json:"issue_type"`
	Status                  string  `json:"status"`
	Priority                string  `json:"priority"`
	Latitude                float64 `json:"latitude"`
	Longitude               float64 `json:"longitude"`
	Address                 string  `json:"address,omitempty"`
	ImageURL                string  `json:"image_url,omitempty"`
	Reporter                *User   `json:"reporter,omitempty"`
	AssignedTo              string  `json:"assigned_to,omitempty"`
	EstimatedResolutionDate string  `json:"estimated_resolution_date,omitempty"`
	ActualResolutionDate    string  `json:"actual_resolution_date,omitempty"`
	CreatedAt               string  `json:"created_at,omitempty"`
	UpdatedAt               string  `json:"updated_at,omitempty"`
	CommentCount            int     `json:"comment_count"`
	UpvoteCount             int     `json:"upvote_count"`
	HasUpvoted              bool    `json:"has_upvoted"`
}

// Comment represents a discussion entry on an issue
type Comment struct {
	ID             int    `json:"id"`
	Content        string `json:"content"`
	IssueID        int    `json:"issue_id"`
	Author         *User  `json:"author,omitempty"`
	IsAdminComment bool   `json:"is_admin_comment"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// Pagination describes a page of list results
type Pagination struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// SearchResult is an ephemeral place-autocomplete hit. Nominatim reports
// coordinates as strings.
type SearchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Coordinates parses the result's latitude and longitude
func (r SearchResult) Coordinates() (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return 0, 0, err
	}
	lon, err = strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// timestampLayouts covers the backend's isoformat() variants
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a backend timestamp string. The zero time and false
// are returned for empty or unparseable input.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
