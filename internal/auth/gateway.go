package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrMissingCredentials is returned when a sign-in or sign-up field is
// empty or whitespace-only. No network call is made in that case.
var ErrMissingCredentials = errors.New("username and password are required")

// Provider abstracts an identity backend. Two models hide behind it: a
// direct login endpoint that issues bearer tokens, and a delegated identity
// service that pushes session changes (sign-in, sign-out, token refresh)
// through OnSessionChange. Both produce the same normalized Session shape.
type Provider interface {
	SignIn(ctx context.Context, username, password string) (*Session, error)
	SignUp(ctx context.Context, username, password string) (*Session, error)
	SignOut(ctx context.Context) error

	// OnSessionChange registers a callback for asynchronous session events.
	// Events may arrive at any time, in no particular order, and each one
	// is a full replacement of the session (nil means signed out).
	OnSessionChange(fn func(*Session))
}

// Gateway drives a Provider and funnels every outcome through the Manager,
// so the rest of the client only ever sees Manager state.
type Gateway struct {
	provider Provider
	manager  *Manager
}

// NewGateway wires a provider to the session manager and subscribes once to
// the provider's event channel. Each inbound event fully replaces the
// session; the Manager makes repeated identical events a no-op.
func NewGateway(provider Provider, manager *Manager) *Gateway {
	g := &Gateway{provider: provider, manager: manager}
	provider.OnSessionChange(func(s *Session) {
		_ = manager.Replace(s)
	})
	return g
}

// SignIn validates inputs locally, then authenticates. On success the
// session is persisted and subscribers are notified; on failure the caller
// shows the error inline and the view stays where it is.
func (g *Gateway) SignIn(ctx context.Context, username, password string) (*Session, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingCredentials
	}

	s, err := g.provider.SignIn(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := g.manager.Replace(s); err != nil {
		return nil, err
	}
	return s, nil
}

// SignUp registers a new account, establishing a session when the provider
// issues one immediately.
func (g *Gateway) SignUp(ctx context.Context, username, password string) (*Session, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingCredentials
	}

	s, err := g.provider.SignUp(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if s != nil {
		if err := g.manager.Replace(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SignOut tears down the session on both sides. Provider errors are
// secondary; the local session is cleared regardless.
func (g *Gateway) SignOut(ctx context.Context) error {
	err := g.provider.SignOut(ctx)
	if cerr := g.manager.Clear(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
