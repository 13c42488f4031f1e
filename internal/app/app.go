package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"zrozum/internal/api"
	"zrozum/internal/auth"
	"zrozum/internal/router"
	"zrozum/internal/screen"
	"zrozum/internal/screens/dashboard"
	"zrozum/internal/screens/login"
	"zrozum/internal/ui/layout"
)

// Options carries the wired dependencies for the TUI.
type Options struct {
	Manager *auth.Manager
	Gateway *auth.Gateway
	Client  *api.Client

	// Initial is the session restored from durable storage, nil when the
	// user must sign in first.
	Initial *auth.Session
}

// AppModel is the root Bubble Tea model. It owns global concerns: window
// size, quit, back navigation, and the session lifecycle. Session events
// arrive on a channel the model subscribes to once at startup; each event
// is a full replacement, and handling is idempotent, so repeated or
// out-of-order deliveries converge to the same view.
type AppModel struct {
	opts   Options
	router *router.Router
	events chan *auth.Session
	width  int
	height int
}

func newAppModel(opts Options) *AppModel {
	m := &AppModel{
		opts:   opts,
		events: make(chan *auth.Session, 16),
	}

	opts.Manager.Subscribe(func(s *auth.Session) {
		m.events <- s
	})

	var initial screen.Screen
	if opts.Initial.Valid() {
		initial = dashboard.New(opts.Client)
	} else {
		initial = login.New(opts.Gateway)
	}
	m.router = router.New(initial)
	return m
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.nextSessionEvent())
}

// nextSessionEvent waits for one session change. It is re-armed after
// every delivery so the channel stays drained for the lifetime of the
// program.
func (m *AppModel) nextSessionEvent() tea.Cmd {
	return func() tea.Msg {
		return auth.SessionChangedMsg{Session: <-m.events}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case auth.SessionChangedMsg:
		return m, tea.Batch(m.routeForSession(msg.Session), m.nextSessionEvent())

	case auth.ExpiredMsg:
		// Shared logout routine for authorization rejection from any
		// call: tear the session down; the resulting change event
		// resets the view to login.
		return m, func() tea.Msg {
			_ = m.opts.Manager.Clear()
			return nil
		}

	case auth.SignOutMsg:
		return m, func() tea.Msg {
			_ = m.opts.Gateway.SignOut(context.Background())
			return nil
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			if m.opts.Manager.Current() != nil {
				return m, func() tea.Msg { return auth.SignOutMsg{} }
			}
			return m, nil
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			// At the bottom of the stack esc still reaches the screen;
			// modal forms (new-lesson) use it to cancel.
		}
	}

	return m, m.router.Update(msg)
}

// routeForSession realigns the visible screen with the session state. It
// is a no-op when the view already matches, which is what makes repeated
// identical session events harmless.
func (m *AppModel) routeForSession(s *auth.Session) tea.Cmd {
	_, onLogin := m.router.Active().(*login.LoginScreen)
	if s.Valid() {
		if onLogin {
			return m.router.Reset(dashboard.New(m.opts.Client))
		}
		return nil
	}
	if !onLogin {
		return m.router.Reset(login.New(m.opts.Gateway))
	}
	return nil
}

func (m *AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.opts.Manager.Current().DisplayName(), m.width)

	var hints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
