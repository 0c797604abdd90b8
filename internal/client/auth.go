// ABOUTME: Authentication and profile endpoints
// ABOUTME: Login, registration, verification, and account updates

package client

import (
	"context"
	"net/http"
)

// AuthResult is the outcome of a successful login or registration
type AuthResult struct {
	Token string
	User  User
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type adminAuthResponse struct {
	AccessToken string `json:"access_token"`
	Admin       User   `json:"admin"`
}

type userResponse struct {
	User User `json:"user"`
}

// RegisterInput holds the profile fields for a new account
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// ProfileUpdate holds the mutable profile fields
type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login calls POST /api/auth/login
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &AuthResult{Token: resp.AccessToken, User: resp.User}, nil
}

// Register calls POST /api/auth/register
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, input, &resp); err != nil {
		return nil, err
	}
	return &AuthResult{Token: resp.AccessToken, User: resp.User}, nil
}

// AdminLogin calls POST /api/admin/login. The admin record doubles as a
// regular user with the admin role so one session representation serves
// both surfaces.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (*AuthResult, error) {
	var resp adminAuthResponse
	if err := c.do(ctx, http.MethodPost, "/admin/login", nil, adminLoginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	admin := resp.Admin
	admin.Role = "admin"
	return &AuthResult{Token: resp.AccessToken, User: admin}, nil
}

// Verify calls GET /api/auth/verify with the current bearer token
func (c *Client) Verify(ctx context.Context) (*User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateProfile calls PUT /api/auth/profile
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodPut, "/auth/profile", nil, update, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ChangePassword calls POST /api/auth/change-password
func (c *Client) ChangePassword(ctx context.Context, current, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/auth/change-password", nil, changePasswordRequest{
		CurrentPassword: current,
		NewPassword:     newPassword,
	}, nil)
}
