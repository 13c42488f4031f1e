package auth

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Storage is the durable mirror of the in-memory session: two string
// entries (credential token + serialized user record) written together and
// cleared together.
type Storage interface {
	SaveSession(token string, user []byte) error
	LoadSession() (token string, user []byte, ok bool, err error)
	ClearSession() error
}

// Manager owns the current Session. It is the single write path for session
// state: every mutation is mirrored write-through to Storage, and
// subscribers are notified so that components reacting to login/logout
// (view routing, header) never poll. Session-change notifications from a
// delegated identity provider are funneled through Replace, which is
// idempotent with respect to repeated identical events.
type Manager struct {
	mu      sync.Mutex
	storage Storage
	current *Session
	subs    []func(*Session)
}

// NewManager creates a Manager backed by the given durable storage.
func NewManager(storage Storage) *Manager {
	return &Manager{storage: storage}
}

// Restore reconstructs the session from durable storage without any network
// I/O. It returns nil when no complete session was persisted. A stale token
// is only discovered later, when a backend call rejects it.
func (m *Manager) Restore() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, raw, ok, err := m.storage.LoadSession()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		// A torn record violates the all-or-nothing invariant; drop it.
		_ = m.storage.ClearSession()
		return nil, nil
	}

	s := &Session{AccessToken: token, User: user}
	if !s.Valid() {
		_ = m.storage.ClearSession()
		return nil, nil
	}

	m.current = s
	return s, nil
}

// Current returns the in-memory session, or nil when logged out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Token returns the bearer credential of the current session, or "".
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.AccessToken
}

// Replace installs a new session (or nil for logout), persisting
// write-through before notifying subscribers. An event identical to the
// current state is a no-op, so repeated notifications from the identity
// provider converge to processing the event once.
func (m *Manager) Replace(s *Session) error {
	m.mu.Lock()
	if m.current.Equal(s) {
		m.mu.Unlock()
		return nil
	}

	if s == nil {
		if err := m.storage.ClearSession(); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("clear session: %w", err)
		}
	} else {
		raw, err := json.Marshal(s.User)
		if err != nil {
			m.mu.Unlock()
			return fmt.Errorf("encode user: %w", err)
		}
		if err := m.storage.SaveSession(s.AccessToken, raw); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("persist session: %w", err)
		}
	}

	m.current = s
	subs := make([]func(*Session), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
	return nil
}

// Clear removes both the in-memory session and the durable copy. It is the
// shared logout routine invoked on explicit sign-out and on authorization
// rejection from any backend call.
func (m *Manager) Clear() error {
	return m.Replace(nil)
}

// Subscribe registers a callback invoked after every effective session
// change. Callbacks run outside the manager lock.
func (m *Manager) Subscribe(fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}
