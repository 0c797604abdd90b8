// ABOUTME: Process-wide authentication state holder
// ABOUTME: Login/logout/profile operations with a disk-reconciled invariant

package session

import (
	"context"
	"sync"

	"github.com/civicfix/civicfix-cli/internal/client"
)

// State is a read-only snapshot of the session for guard decisions
type State struct {
	Authenticated bool
	Admin         bool
}

// Holder owns in-memory session state. All views read it; only the
// operations below mutate it. Invariant: a user is held in memory only
// while a token is persisted on disk (CheckAuth enforces this).
type Holder struct {
	store *Store
	api   *client.Client

	mu    sync.RWMutex
	user  *client.User
	token string
}

// NewHolder wires the holder to its store and API client
func NewHolder(store *Store, api *client.Client) *Holder {
	return &Holder{store: store, api: api}
}

// Resume restores a persisted session at startup. Every persisted session
// is re-validated against the backend, admin or not; a failed verify
// clears the session rather than trusting the stored record.
func (h *Holder) Resume(ctx context.Context) error {
	rec, err := h.store.Load()
	if err != nil || rec == nil {
		return err
	}

	user, err := h.api.Verify(ctx)
	if err != nil {
		_ = h.store.Clear()
		h.set(nil, "")
		return nil
	}

	h.set(user, rec.Token)
	return nil
}

// Login authenticates with email and password. On failure nothing changes.
func (h *Holder) Login(ctx context.Context, email, password string) error {
	result, err := h.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return h.adopt(result)
}

// LoginAdmin authenticates against the admin endpoint. The resulting
// session carries the admin role in the one shared representation.
func (h *Holder) LoginAdmin(ctx context.Context, username, password string) error {
	result, err := h.api.AdminLogin(ctx, username, password)
	if err != nil {
		return err
	}
	return h.adopt(result)
}

// Register creates an account and starts a session for it
func (h *Holder) Register(ctx context.Context, input client.RegisterInput) error {
	result, err := h.api.Register(ctx, input)
	if err != nil {
		return err
	}
	return h.adopt(result)
}

// adopt persists a fresh auth result and updates memory
func (h *Holder) adopt(result *client.AuthResult) error {
	if err := h.store.Save(Record{Token: result.Token, User: result.User}); err != nil {
		return err
	}
	user := result.User
	h.set(&user, result.Token)
	return nil
}

// Logout unconditionally clears every persisted session key and resets
// in-memory state
func (h *Holder) Logout() {
	_ = h.store.Clear()
	h.set(nil, "")
}

// UpdateProfile changes profile fields and refreshes the stored user
func (h *Holder) UpdateProfile(ctx context.Context, update client.ProfileUpdate) error {
	user, err := h.api.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}

	h.mu.Lock()
	token := h.token
	h.mu.Unlock()

	if err := h.store.Save(Record{Token: token, User: *user}); err != nil {
		return err
	}
	h.set(user, token)
	return nil
}

// ChangePassword swaps the account password. The token stays valid.
func (h *Holder) ChangePassword(ctx context.Context, current, newPassword string) error {
	if err := h.api.ChangePassword(ctx, current, newPassword); err != nil {
		return err
	}
	h.CheckAuth()
	return nil
}

// set updates memory then reconciles against disk
func (h *Holder) set(user *client.User, token string) {
	h.mu.Lock()
	h.user = user
	h.token = token
	h.mu.Unlock()
	h.CheckAuth()
}

// CheckAuth re-validates the token/user consistency invariant: if the
// persisted token vanished (expiry sweep, another process logging out),
// in-memory state is forced empty. Returns whether a user remains.
func (h *Holder) CheckAuth() bool {
	persisted := h.store.Token()

	h.mu.Lock()
	defer h.mu.Unlock()

	if persisted == "" {
		h.user = nil
		h.token = ""
		return false
	}
	return h.user != nil
}

// User returns a copy of the current user, or nil when logged out
func (h *Holder) User() *client.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return nil
	}
	u := *h.user
	return &u
}

// IsAuthenticated reports whether a user is logged in
func (h *Holder) IsAuthenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.user != nil
}

// IsAdmin reports whether the current user carries the admin role
func (h *Holder) IsAdmin() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.user != nil && h.user.Role == "admin"
}

// Snapshot captures the session state for route-guard decisions
func (h *Holder) Snapshot() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return State{
		Authenticated: h.user != nil,
		Admin:         h.user != nil && h.user.Role == "admin",
	}
}
