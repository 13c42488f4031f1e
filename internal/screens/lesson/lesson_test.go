package lesson

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zrozum/internal/api"
	"zrozum/internal/auth"
	"zrozum/internal/lessons"
)

func newTestScreen() *LessonScreen {
	client := api.New("http://example.invalid", func() string { return "T" })
	return New(client, lessons.Lesson{ID: "l-1", Title: "Fractions"})
}

func sampleQuiz() *lessons.Quiz {
	return &lessons.Quiz{
		LessonID: "l-1",
		Questions: []lessons.Question{
			{Prompt: "P", Answers: []string{"0", "1"}, Correct: "0"},
		},
	}
}

func TestGenerateWithoutFileShortCircuits(t *testing.T) {
	s := newTestScreen()

	cmd := s.generate()
	if cmd != nil {
		t.Error("expected no request without a file")
	}
	if s.busy {
		t.Error("busy indicator must never engage without a file")
	}
	if s.errMsg != "Choose an audio file first." {
		t.Errorf("errMsg = %q, want the file validation message", s.errMsg)
	}
}

func TestGenerateWithMissingFileShortCircuits(t *testing.T) {
	s := newTestScreen()
	s.fileInput.SetValue("/no/such/file.mp3")

	cmd := s.generate()
	if cmd != nil {
		t.Error("expected no request for an unreadable file")
	}
	if s.busy {
		t.Error("busy indicator must not engage for an unreadable file")
	}
}

func TestGenerateEngagesBusyState(t *testing.T) {
	s := newTestScreen()
	path := filepath.Join(t.TempDir(), "lecture.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o600); err != nil {
		t.Fatal(err)
	}
	s.fileInput.SetValue(path)

	cmd := s.generate()
	if cmd == nil {
		t.Fatal("expected an upload command")
	}
	if !s.busy {
		t.Error("expected busy state while uploading")
	}
}

func TestGenerateDoneRestoresBusyState(t *testing.T) {
	tests := []struct {
		name string
		msg  generateDoneMsg
	}{
		{"success", generateDoneMsg{quiz: sampleQuiz()}},
		{"server failure", generateDoneMsg{err: &api.StatusError{StatusCode: 500, Detail: "boom"}}},
		{"transport failure", generateDoneMsg{err: os.ErrDeadlineExceeded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScreen()
			s.busy = true

			updated, _ := s.Update(tt.msg)
			if updated.(*LessonScreen).busy {
				t.Error("busy state must be restored on every settlement")
			}
		})
	}
}

func TestGenerateUnauthorizedTriggersGlobalLogout(t *testing.T) {
	s := newTestScreen()
	s.busy = true

	updated, cmd := s.Update(generateDoneMsg{err: api.ErrUnauthorized})
	if updated.(*LessonScreen).busy {
		t.Error("busy state must be restored before logout")
	}
	if cmd == nil {
		t.Fatal("expected a command for 401")
	}
	if _, ok := cmd().(auth.ExpiredMsg); !ok {
		t.Error("expected auth.ExpiredMsg for 401")
	}
}

func TestGenerateSuccessRendersCards(t *testing.T) {
	s := newTestScreen()
	s.loading = false

	updated, _ := s.Update(generateDoneMsg{quiz: sampleQuiz()})
	got := updated.(*LessonScreen)

	if len(got.cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(got.cards))
	}
	if len(got.cards[0].Question.Answers) != 2 {
		t.Errorf("answers = %d, want 2", len(got.cards[0].Question.Answers))
	}

	view := got.View(80, 40)
	if !strings.Contains(view, "P") {
		t.Error("expected the question prompt in the view")
	}
}

func TestAbsentQuizShowsPlaceholder(t *testing.T) {
	s := newTestScreen()

	updated, _ := s.Update(quizLoadedMsg{quiz: nil})
	view := updated.View(80, 24)

	if !strings.Contains(view, "No quiz for this lesson yet.") {
		t.Error("expected the no-quiz placeholder, not an error")
	}
}

func TestTransportFailureOnLoadIsInline(t *testing.T) {
	s := newTestScreen()

	updated, cmd := s.Update(quizLoadedMsg{err: os.ErrDeadlineExceeded})
	if cmd != nil {
		t.Error("a transport failure must stay local")
	}
	view := updated.View(80, 24)
	if !strings.Contains(view, "Cannot reach the server.") {
		t.Error("expected the generic connection message")
	}
}
