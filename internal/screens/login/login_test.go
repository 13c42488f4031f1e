package login

import (
	"context"
	"strings"
	"testing"

	"zrozum/internal/auth"
)

type stubStorage struct {
	token string
	user  []byte
}

func (s *stubStorage) SaveSession(token string, user []byte) error {
	s.token, s.user = token, user
	return nil
}
func (s *stubStorage) LoadSession() (string, []byte, bool, error) {
	return s.token, s.user, s.token != "", nil
}
func (s *stubStorage) ClearSession() error {
	s.token, s.user = "", nil
	return nil
}

type stubProvider struct {
	calls int
}

func (p *stubProvider) SignIn(ctx context.Context, username, password string) (*auth.Session, error) {
	p.calls++
	return &auth.Session{AccessToken: "T", User: auth.User{Username: username}}, nil
}
func (p *stubProvider) SignUp(ctx context.Context, username, password string) (*auth.Session, error) {
	p.calls++
	return nil, nil
}
func (p *stubProvider) SignOut(ctx context.Context) error { return nil }
func (p *stubProvider) OnSessionChange(fn func(*auth.Session)) {}

func newTestScreen() (*LoginScreen, *stubProvider) {
	p := &stubProvider{}
	g := auth.NewGateway(p, auth.NewManager(&stubStorage{}))
	return New(g), p
}

func TestEmptyInputShortCircuits(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"both empty", "", ""},
		{"whitespace only", "  ", "\t"},
		{"missing password", "ann", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, p := newTestScreen()
			s.username.SetValue(tt.username)
			s.password.SetValue(tt.password)

			cmd := s.submitAction()
			if cmd != nil {
				t.Error("expected no command for invalid input")
			}
			if s.busy {
				t.Error("busy state must not engage for invalid input")
			}
			if s.message == "" {
				t.Error("expected a validation message")
			}
			if p.calls != 0 {
				t.Errorf("provider called %d times, want 0", p.calls)
			}
		})
	}
}

func TestSubmitEngagesBusyState(t *testing.T) {
	s, _ := newTestScreen()
	s.username.SetValue("ann")
	s.password.SetValue("x")

	cmd := s.submitAction()
	if cmd == nil {
		t.Fatal("expected a command for valid input")
	}
	if !s.busy {
		t.Error("expected busy state while the request is in flight")
	}
	if !s.submit.Disabled {
		t.Error("expected the submit button disabled while in flight")
	}
}

func TestAuthDoneRestoresForm(t *testing.T) {
	s, _ := newTestScreen()
	s.busy = true
	s.submit.Disabled = true

	updated, _ := s.Update(authDoneMsg{err: auth.ErrMissingCredentials})
	got := updated.(*LoginScreen)

	if got.busy {
		t.Error("busy state must be restored on settlement")
	}
	if got.submit.Disabled {
		t.Error("submit button must be restored on settlement")
	}
	if got.message == "" {
		t.Error("expected an inline error message")
	}
}

func TestAuthDoneSuccessStaysQuiet(t *testing.T) {
	s, _ := newTestScreen()
	s.busy = true

	updated, cmd := s.Update(authDoneMsg{})
	got := updated.(*LoginScreen)

	// Navigation happens via the session-change event, not here.
	if cmd != nil {
		t.Error("expected no command; routing is the root model's job")
	}
	if got.message != "" {
		t.Errorf("unexpected message %q", got.message)
	}
}

func TestSignupToggle(t *testing.T) {
	s, _ := newTestScreen()
	if s.Title() != "Sign in" {
		t.Errorf("Title = %q, want %q", s.Title(), "Sign in")
	}
	s.signup = true
	if s.Title() != "Create account" {
		t.Errorf("Title = %q, want %q", s.Title(), "Create account")
	}
}

func TestViewShowsMessage(t *testing.T) {
	s, _ := newTestScreen()
	s.message = "Enter your username and password."
	view := s.View(80, 24)
	if !strings.Contains(view, "Enter your username and password.") {
		t.Error("expected the validation message in the view")
	}
}
