package lesson

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"zrozum/internal/api"
	"zrozum/internal/auth"
	"zrozum/internal/lessons"
	"zrozum/internal/screen"
	"zrozum/internal/ui/components"
	"zrozum/internal/ui/layout"
	"zrozum/internal/ui/theme"
)

// quizLoadedMsg settles the initial quiz fetch. quiz is nil when the
// lesson has no quiz yet.
type quizLoadedMsg struct {
	quiz *lessons.Quiz
	err  error
}

// generateDoneMsg settles an upload-generate call.
type generateDoneMsg struct {
	quiz *lessons.Quiz
	err  error
}

// LessonScreen shows one lesson: its quiz when one exists, and the
// upload-generate flow to produce one from an audio file.
type LessonScreen struct {
	client *api.Client
	lesson lessons.Lesson

	fileInput components.TextInput
	spin      spinner.Model

	quiz    *lessons.Quiz
	cards   []components.AnswerList
	focus   int // 0 = file input, 1..len(cards) = question cards
	loading bool
	busy    bool // an upload-generate call is in flight
	errMsg  string
	notice  string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates the lesson screen for one lesson snapshot.
func New(client *api.Client, l lessons.Lesson) *LessonScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	return &LessonScreen{
		client:    client,
		lesson:    l,
		fileInput: components.NewTextInput("Audio file", "path/to/lecture.mp3", false),
		spin:      sp,
		loading:   true,
	}
}

func (s *LessonScreen) Title() string { return s.lesson.Title }

func (s *LessonScreen) Init() tea.Cmd {
	return tea.Batch(s.loadQuiz(), s.fileInput.Focus())
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.busy {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Ctrl+G", Description: "Generate quiz"},
		{Key: "Esc", Description: "Back"},
	}
	if len(s.cards) > 0 {
		hints = append([]layout.KeyHint{{Key: "Enter", Description: "Answer"}}, hints...)
	}
	return hints
}

// loadQuiz fetches the quiz for this lesson.
func (s *LessonScreen) loadQuiz() tea.Cmd {
	return func() tea.Msg {
		quiz, err := s.client.Quiz(context.Background(), s.lesson.ID)
		return quizLoadedMsg{quiz: quiz, err: err}
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizLoadedMsg:
		s.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return s, func() tea.Msg { return auth.ExpiredMsg{} }
			}
			s.errMsg = api.UserMessage(msg.err)
			return s, nil
		}
		s.setQuiz(msg.quiz)
		return s, nil

	case generateDoneMsg:
		// The trigger and the indicator are restored on every settlement
		// arm so the screen can never be left stuck busy.
		s.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return s, func() tea.Msg { return auth.ExpiredMsg{} }
			}
			s.errMsg = api.UserMessage(msg.err)
			return s, nil
		}
		s.setQuiz(msg.quiz)
		s.notice = "Quiz generated."
		return s, nil

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+g":
			return s, s.generate()
		case "tab":
			s.cycleFocus(1)
			return s, nil
		case "shift+tab":
			s.cycleFocus(-1)
			return s, nil
		}
	}

	if s.busy {
		return s, nil
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.fileInput, cmd = s.fileInput.Update(msg)
	} else if i := s.focus - 1; i < len(s.cards) {
		s.cards[i], cmd = s.cards[i].Update(msg)
	}
	return s, cmd
}

// generate starts the upload-generate pipeline. Missing or unreadable
// files fail here, locally: no request is issued and the busy indicator is
// never engaged.
func (s *LessonScreen) generate() tea.Cmd {
	if s.busy {
		return nil
	}

	path := strings.TrimSpace(s.fileInput.Value())
	if path == "" {
		s.errMsg = "Choose an audio file first."
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		s.errMsg = fmt.Sprintf("Cannot read %s.", path)
		return nil
	}

	s.busy = true
	s.errMsg = ""
	s.notice = ""

	lessonID := s.lesson.ID
	upload := func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return generateDoneMsg{err: err}
		}
		defer func() { _ = f.Close() }()

		quiz, err := s.client.Generate(context.Background(), lessonID, filepath.Base(path), f)
		return generateDoneMsg{quiz: quiz, err: err}
	}
	return tea.Batch(upload, s.spin.Tick)
}

// setQuiz swaps in a quiz (or absence of one) and rebuilds the cards.
func (s *LessonScreen) setQuiz(quiz *lessons.Quiz) {
	s.quiz = quiz
	s.cards = nil
	if quiz.Empty() {
		return
	}
	for i, q := range quiz.Questions {
		s.cards = append(s.cards, components.NewAnswerList(q, i))
	}
	s.setFocus(1)
}

func (s *LessonScreen) cycleFocus(delta int) {
	next := s.focus + delta
	if next < 0 {
		next = len(s.cards)
	}
	if next > len(s.cards) {
		next = 0
	}
	s.setFocus(next)
}

func (s *LessonScreen) setFocus(focus int) {
	s.focus = focus
	if focus == 0 {
		s.fileInput.Focus()
	} else {
		s.fileInput.Blur()
	}
	for i := range s.cards {
		s.cards[i].Focused = i == focus-1
	}
}

func (s *LessonScreen) View(width, height int) string {
	var b []string

	desc := s.lesson.Description
	if desc == "" {
		desc = "No description"
	}
	b = append(b, theme.Subtitle.Render(desc))
	b = append(b, "")
	b = append(b, s.fileInput.View())

	if s.busy {
		b = append(b, "")
		b = append(b, s.spin.View()+theme.Hint.Render(" Generating quiz, this can take a while..."))
	}

	if s.errMsg != "" {
		b = append(b, "")
		b = append(b, theme.ErrorText.Render(s.errMsg))
	}
	if s.notice != "" {
		b = append(b, "")
		b = append(b, theme.Body.Render(s.notice))
	}

	b = append(b, "")
	switch {
	case s.loading:
		b = append(b, theme.Hint.Render("Loading quiz..."))
	case len(s.cards) == 0:
		b = append(b, theme.Hint.Render("No quiz for this lesson yet."))
	default:
		for _, card := range s.cards {
			b = append(b, theme.Card.Render(card.View()))
			b = append(b, "")
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}
