package auth

import (
	"context"
	"sync"

	"zrozum/internal/api"
)

// BackendProvider implements Provider on top of the backend's own auth
// endpoints (model (a): bearer token from a direct login endpoint). It
// still exposes the session-change channel so that callers are written
// once against the delegated-provider model too.
type BackendProvider struct {
	client *api.Client

	mu       sync.Mutex
	onChange []func(*Session)
}

var _ Provider = (*BackendProvider)(nil)

// NewBackendProvider creates a provider using the given API client.
func NewBackendProvider(client *api.Client) *BackendProvider {
	return &BackendProvider{client: client}
}

func (p *BackendProvider) SignIn(ctx context.Context, username, password string) (*Session, error) {
	result, err := p.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s := sessionFromLogin(result)
	p.notify(s)
	return s, nil
}

func (p *BackendProvider) SignUp(ctx context.Context, username, password string) (*Session, error) {
	result, err := p.client.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}
	// Registration does not always log the account in; only a token makes
	// a session.
	if result.AccessToken == "" {
		return nil, nil
	}
	s := sessionFromLogin(result)
	p.notify(s)
	return s, nil
}

func (p *BackendProvider) SignOut(ctx context.Context) error {
	// Bearer tokens are stateless on this backend; signing out is purely
	// a client-side teardown.
	p.notify(nil)
	return nil
}

func (p *BackendProvider) OnSessionChange(fn func(*Session)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, fn)
}

func (p *BackendProvider) notify(s *Session) {
	p.mu.Lock()
	subs := make([]func(*Session), len(p.onChange))
	copy(subs, p.onChange)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

func sessionFromLogin(result *api.LoginResult) *Session {
	return &Session{
		AccessToken: result.AccessToken,
		User: User{
			ID:       result.User.ID,
			Username: result.User.Username,
			Role:     result.User.Role,
		},
	}
}
