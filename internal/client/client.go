// Package client is a Go client for the TaskFlow REST API. It holds session
// state: a bearer token persisted in a durable store and a cached user kept
// in memory.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// tokenValidity mirrors the server-side token lifetime. A stored token older
// than this is discarded without being sent.
const tokenValidity = 7 * 24 * time.Hour

// ErrUnavailable signals that the service reported its persistence backend
// as unreachable. Callers typically present this differently from a plain
// request failure.
var ErrUnavailable = errors.New("service unavailable")

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// User is the API representation of a user account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileUpdate carries optional profile fields for UpdateProfile.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Bio    *string `json:"bio,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Client talks to the TaskFlow API on behalf of a single session.
// Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	mu    sync.Mutex
	token string
	user  *User
}

// New creates a Client for the API at baseURL. If the store holds an
// unexpired token, the client resolves the current identity with it; when
// that fails the stale token is cleared silently and the client starts
// logged out.
func New(ctx context.Context, baseURL string, store TokenStore) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		store:      store,
	}

	token, ok, err := store.Load()
	if err != nil || !ok {
		return c
	}

	c.token = token
	user, err := c.fetchMe(ctx)
	if err != nil {
		c.token = ""
		_ = store.Clear()
		return c
	}
	c.user = user
	return c
}

// Login authenticates with the API, persists the returned token, and caches
// the user.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register creates an account, persists the returned token, and caches the
// user.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

// Logout clears the stored token and the cached user. Tokens are stateless,
// so there is no server-side call.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()
	return c.store.Clear()
}

// UpdateProfile applies a partial profile update and refreshes the cached
// user on success.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", update, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.user = &resp.User
	c.mu.Unlock()
	return &resp.User, nil
}

// CurrentUser returns the cached user, or nil when logged out.
func (c *Client) CurrentUser() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (*User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.user = &resp.User
	c.mu.Unlock()

	if err := c.store.Save(resp.Token, time.Now().Add(tokenValidity)); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	return &resp.User, nil
}

func (c *Client) fetchMe(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// do performs a JSON request with the session token attached, mapping 503
// onto ErrUnavailable and other non-2xx responses onto *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiResp)

		if resp.StatusCode == http.StatusServiceUnavailable {
			return fmt.Errorf("%w: %s", ErrUnavailable, apiResp.Message)
		}
		return &APIError{Status: resp.StatusCode, Message: apiResp.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
