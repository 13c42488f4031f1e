package api

import (
	"context"
	"fmt"
)

// AccountInfo is the user record the auth endpoints return.
type AccountInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// LoginResult is a successful authentication response.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	User        AccountInfo `json:"user"`
}

// Login exchanges credentials for a bearer token. A 401 here is a
// credential failure, not an expired session, so it surfaces as a
// *StatusError with the server's message.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}
	resp, err := c.postJSON(ctx, "/auth/login", payload, false)
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var result LoginResult
	if err := decodeJSON(resp, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, &ErrInvalidPayload{Err: fmt.Errorf("login response missing access_token")}
	}
	return &result, nil
}

// Register creates a new account. Backends without self-registration
// answer with a non-2xx status, which surfaces as a *StatusError.
func (c *Client) Register(ctx context.Context, username, password string) (*LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}
	resp, err := c.postJSON(ctx, "/auth/register", payload, false)
	if err != nil {
		return nil, fmt.Errorf("register request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	var result LoginResult
	if err := decodeJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
