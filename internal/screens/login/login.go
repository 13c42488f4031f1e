package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"zrozum/internal/api"
	"zrozum/internal/auth"
	"zrozum/internal/screen"
	"zrozum/internal/ui/components"
	"zrozum/internal/ui/layout"
	"zrozum/internal/ui/theme"
)

const (
	focusUsername = iota
	focusPassword
	focusSubmit
)

// authDoneMsg settles a sign-in or sign-up attempt. Session state itself
// travels through the Manager's subscription channel, not through this
// message; this only restores the form.
type authDoneMsg struct {
	err error
}

// LoginScreen is the credential form. It never leaves the screen on
// failure; a successful sign-in is routed away by the root model when the
// session-change event arrives.
type LoginScreen struct {
	gateway *auth.Gateway

	username components.TextInput
	password components.TextInput
	submit   components.Button

	focus   int
	busy    bool
	signup  bool
	message string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login screen.
func New(gateway *auth.Gateway) *LoginScreen {
	s := &LoginScreen{
		gateway:  gateway,
		username: components.NewTextInput("Username", "your username", false),
		password: components.NewTextInput("Password", "", true),
	}
	s.submit = components.NewButton("Sign in", s.submitAction)
	return s
}

func (s *LoginScreen) Title() string {
	if s.signup {
		return "Create account"
	}
	return "Sign in"
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.username.Focus()
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+N", Description: "Sign in/up"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		// Restore the form unconditionally, whatever happened.
		s.busy = false
		s.submit.Disabled = false
		if msg.err != nil {
			s.message = describeError(msg.err)
		}
		return s, nil

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus(s.focus + 1)
		case "shift+tab", "up":
			return s, s.setFocus(s.focus - 1)
		case "ctrl+n":
			s.signup = !s.signup
			if s.signup {
				s.submit.Label = "Create account"
			} else {
				s.submit.Label = "Sign in"
			}
			s.message = ""
			return s, nil
		case "enter":
			if s.focus != focusSubmit {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submitAction()
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusUsername:
		s.username, cmd = s.username.Update(msg)
	case focusPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) setFocus(focus int) tea.Cmd {
	if focus < focusUsername {
		focus = focusSubmit
	}
	if focus > focusSubmit {
		focus = focusUsername
	}
	s.focus = focus

	s.username.Blur()
	s.password.Blur()
	s.submit.Focused = false

	switch focus {
	case focusUsername:
		return s.username.Focus()
	case focusPassword:
		return s.password.Focus()
	default:
		s.submit.Focused = true
		return nil
	}
}

// submitAction kicks off the authentication request. Input validation
// happens inside the gateway before any I/O, so an empty form settles
// immediately without the busy state ever engaging the network.
func (s *LoginScreen) submitAction() tea.Cmd {
	username := s.username.Value()
	password := s.password.Value()

	// Fail fast locally so the button is never disabled for a request
	// that will not be issued.
	if err := s.validate(username, password); err != nil {
		s.message = describeError(err)
		return nil
	}

	s.busy = true
	s.submit.Disabled = true
	s.message = ""

	signup := s.signup
	return func() tea.Msg {
		var err error
		if signup {
			_, err = s.gateway.SignUp(context.Background(), username, password)
		} else {
			_, err = s.gateway.SignIn(context.Background(), username, password)
		}
		return authDoneMsg{err: err}
	}
}

func (s *LoginScreen) validate(username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return auth.ErrMissingCredentials
	}
	return nil
}

func describeError(err error) string {
	if errors.Is(err, auth.ErrMissingCredentials) {
		return "Enter your username and password."
	}
	return api.UserMessage(err)
}

func (s *LoginScreen) View(width, height int) string {
	var b []string

	b = append(b, theme.Title.Render("Zrozum"))
	b = append(b, theme.Subtitle.Render("lessons & quizzes"))
	b = append(b, "")
	b = append(b, s.username.View())
	b = append(b, "")
	b = append(b, s.password.View())
	b = append(b, "")

	if s.busy {
		b = append(b, theme.Hint.Render("Signing in..."))
	} else {
		b = append(b, s.submit.View())
	}

	if s.message != "" {
		b = append(b, "")
		b = append(b, theme.ErrorText.Render(s.message))
	}

	form := theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, b...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}
