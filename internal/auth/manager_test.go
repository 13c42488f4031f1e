package auth

import (
	"context"
	"testing"
)

// memStorage is an in-memory Storage double.
type memStorage struct {
	token string
	user  []byte
	saves int
}

func (m *memStorage) SaveSession(token string, user []byte) error {
	m.token = token
	m.user = append([]byte(nil), user...)
	m.saves++
	return nil
}

func (m *memStorage) LoadSession() (string, []byte, bool, error) {
	if m.token == "" || len(m.user) == 0 {
		return "", nil, false, nil
	}
	return m.token, m.user, true, nil
}

func (m *memStorage) ClearSession() error {
	m.token = ""
	m.user = nil
	return nil
}

func sampleSession() *Session {
	return &Session{
		AccessToken: "T",
		User:        User{ID: "u-1", Username: "ann", Role: "student"},
	}
}

func TestManagerReplaceWritesThrough(t *testing.T) {
	st := &memStorage{}
	m := NewManager(st)

	if err := m.Replace(sampleSession()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if st.token != "T" {
		t.Errorf("durable token = %q, want %q", st.token, "T")
	}
	if got := m.Token(); got != "T" {
		t.Errorf("Token() = %q, want %q", got, "T")
	}
}

func TestManagerRestoreRoundTrip(t *testing.T) {
	st := &memStorage{}
	m := NewManager(st)
	if err := m.Replace(sampleSession()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	// Fresh manager over the same storage, as after a restart.
	m2 := NewManager(st)
	restored, err := m2.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored.Equal(sampleSession()) {
		t.Errorf("restored session = %+v, want %+v", restored, sampleSession())
	}
}

func TestManagerRestoreTornRecord(t *testing.T) {
	st := &memStorage{token: "T", user: []byte("{not json")}
	m := NewManager(st)

	restored, err := m.Restore()
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored != nil {
		t.Errorf("expected nil session for a torn record, got %+v", restored)
	}
	if st.token != "" {
		t.Error("torn record should be cleared from storage")
	}
}

func TestManagerIdempotentReplace(t *testing.T) {
	st := &memStorage{}
	m := NewManager(st)

	var notifications int
	m.Subscribe(func(*Session) { notifications++ })

	// Same event delivered repeatedly, as the identity provider may do.
	for range 3 {
		if err := m.Replace(sampleSession()); err != nil {
			t.Fatalf("replace: %v", err)
		}
	}

	if notifications != 1 {
		t.Errorf("notifications = %d, want 1", notifications)
	}
	if st.saves != 1 {
		t.Errorf("durable writes = %d, want 1", st.saves)
	}
}

func TestManagerClear(t *testing.T) {
	st := &memStorage{}
	m := NewManager(st)
	if err := m.Replace(sampleSession()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	var lastEvent *Session = sampleSession()
	m.Subscribe(func(s *Session) { lastEvent = s })

	if err := m.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m.Current() != nil {
		t.Error("expected no in-memory session after clear")
	}
	if st.token != "" || st.user != nil {
		t.Error("expected durable storage cleared")
	}
	if lastEvent != nil {
		t.Error("expected nil session notification on clear")
	}

	// Clearing twice is a no-op, not a second notification.
	cleared := 0
	m.Subscribe(func(s *Session) {
		if s == nil {
			cleared++
		}
	})
	if err := m.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if cleared != 0 {
		t.Errorf("duplicate clear notified %d times, want 0", cleared)
	}
}

// fakeProvider counts network-shaped calls so validation tests can assert
// zero I/O.
type fakeProvider struct {
	signIns int
	signUps int
	session *Session
	err     error
	subs    []func(*Session)
}

func (f *fakeProvider) SignIn(ctx context.Context, username, password string) (*Session, error) {
	f.signIns++
	return f.session, f.err
}

func (f *fakeProvider) SignUp(ctx context.Context, username, password string) (*Session, error) {
	f.signUps++
	return f.session, f.err
}

func (f *fakeProvider) SignOut(ctx context.Context) error { return nil }

func (f *fakeProvider) OnSessionChange(fn func(*Session)) {
	f.subs = append(f.subs, fn)
}

func (f *fakeProvider) push(s *Session) {
	for _, fn := range f.subs {
		fn(s)
	}
}

func TestGatewayValidatesBeforeIO(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"both empty", "", ""},
		{"empty password", "ann", ""},
		{"empty username", "", "x"},
		{"whitespace username", "   ", "x"},
		{"whitespace password", "ann", "\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{}
			g := NewGateway(p, NewManager(&memStorage{}))

			if _, err := g.SignIn(context.Background(), tt.username, tt.password); err != ErrMissingCredentials {
				t.Errorf("SignIn error = %v, want ErrMissingCredentials", err)
			}
			if _, err := g.SignUp(context.Background(), tt.username, tt.password); err != ErrMissingCredentials {
				t.Errorf("SignUp error = %v, want ErrMissingCredentials", err)
			}
			if p.signIns != 0 || p.signUps != 0 {
				t.Errorf("provider called %d+%d times, want zero", p.signIns, p.signUps)
			}
		})
	}
}

func TestGatewaySignInEstablishesSession(t *testing.T) {
	p := &fakeProvider{session: sampleSession()}
	st := &memStorage{}
	m := NewManager(st)
	g := NewGateway(p, m)

	s, err := g.SignIn(context.Background(), "ann", "x")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !s.Valid() {
		t.Fatal("expected a valid session")
	}
	if !m.Current().Equal(s) {
		t.Error("manager should hold the new session")
	}
	if st.token != "T" {
		t.Error("session should be persisted write-through")
	}
}

func TestGatewayProviderEventsReplaceSession(t *testing.T) {
	p := &fakeProvider{}
	m := NewManager(&memStorage{})
	NewGateway(p, m)

	// Event arriving out of band, before any explicit sign-in.
	p.push(sampleSession())
	if !m.Current().Equal(sampleSession()) {
		t.Error("session-change event should replace the session")
	}

	// Sign-out event.
	p.push(nil)
	if m.Current() != nil {
		t.Error("nil event should sign the user out")
	}
}
