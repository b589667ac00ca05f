// Package client is the Go consumer of the users API: a thin HTTP client plus
// a ListView that filters, sorts, and caps the fetched user list locally.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is the API's sanitized user representation
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client talks to the users API. After Register or Login it holds the bearer
// token and attaches it to every subsequent request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the API at baseURL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Token returns the bearer token captured by the last Register or Login
func (c *Client) Token() string {
	return c.token
}

// SetToken installs an externally obtained bearer token
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func decodeError(resp *http.Response) error {
	var apiErr errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case apiErr.Error == "invalid_credentials":
		return ErrInvalidCredentials
	case apiErr.Message != "":
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Message)
	default:
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
}

// Register creates an account and captures the returned bearer token
func (c *Client) Register(ctx context.Context, name, email, secret string) error {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name":   name,
		"email":  email,
		"secret": secret,
	}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// Login authenticates and captures the returned bearer token
func (c *Client) Login(ctx context.Context, email, secret string) error {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":  email,
		"secret": secret,
	}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// ListUsers fetches all users
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a single user by id
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user through the admin endpoint
func (c *Client) CreateUser(ctx context.Context, name, email, secret, role string) (*User, error) {
	body := map[string]string{
		"name":   name,
		"email":  email,
		"secret": secret,
	}
	if role != "" {
		body["role"] = role
	}

	var user User
	if err := c.do(ctx, http.MethodPost, "/api/users", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies the non-empty fields to an existing user
func (c *Client) UpdateUser(ctx context.Context, id int64, name, email, role string) (*User, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if email != "" {
		body["email"] = email
	}
	if role != "" {
		body["role"] = role
	}

	var user User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes a user by id
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil)
}
