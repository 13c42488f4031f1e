package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Client talks to the lesson/quiz backend. The credential source is a
// function so that the client always attaches whatever session is current;
// it returns "" when logged out.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   func() string
}

// New creates a Client for the given base URL. No client-side timeout is
// enforced; a hung request settles only when the transport errors or
// responds.
func New(baseURL string, token func() string) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		token:   token,
	}
}

// newRequest builds a request with a correlation id and, when authed is
// set, the bearer credential.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, authed bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token())
	}
	return req, nil
}

// postJSON issues a JSON POST.
func (c *Client) postJSON(ctx context.Context, path string, payload any, authed bool) (*http.Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(raw), authed)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpc.Do(req)
}

// decodeError turns a non-2xx response into a *StatusError, extracting the
// server's detail field when present and falling back to the raw body.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var body struct {
		Detail string `json:"detail"`
	}
	detail := ""
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		detail = body.Detail
	} else if len(raw) > 0 {
		detail = string(raw)
	}
	return &StatusError{StatusCode: resp.StatusCode, Detail: detail}
}

// decodeJSON decodes a 2xx response body.
func decodeJSON(resp *http.Response, v any) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkAuthed maps a 401 on an authenticated call to ErrUnauthorized and
// any other non-2xx status to a *StatusError. A nil return means 2xx.
func checkAuthed(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	return nil
}
