package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"zrozum/internal/lessons"
	"zrozum/internal/ui/theme"
)

// AnswerList is an interactive card for one quiz question. Answers are
// selectable; picking one grades it against the question's correct value
// and locks the card. Grading is single-shot: once submitted, a card never
// returns to the ungraded state, and it never talks to the network.
type AnswerList struct {
	Question  lessons.Question
	Index     int
	Selected  int
	Submitted bool
	Chosen    int
	Focused   bool
}

// NewAnswerList creates a card for the idx-th question of a quiz.
func NewAnswerList(q lessons.Question, idx int) AnswerList {
	return AnswerList{Question: q, Index: idx, Chosen: -1}
}

// Update handles answer navigation and selection while the card is focused
// and ungraded.
func (a AnswerList) Update(msg tea.Msg) (AnswerList, tea.Cmd) {
	if !a.Focused || a.Submitted {
		return a, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if a.Selected > 0 {
			a.Selected--
		}
	case "down", "j":
		if a.Selected < len(a.Question.Answers)-1 {
			a.Selected++
		}
	case "enter":
		a.Submitted = true
		a.Chosen = a.Selected
	}

	return a, nil
}

// IsCorrect reports whether the chosen answer matched the correct value.
func (a AnswerList) IsCorrect() bool {
	if !a.Submitted || a.Chosen < 0 || a.Chosen >= len(a.Question.Answers) {
		return false
	}
	return lessons.Grade(a.Question.Answers[a.Chosen], a.Question.Correct)
}

// View renders the question card.
func (a AnswerList) View() string {
	promptStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := promptStyle.Render(fmt.Sprintf("%d. %s", a.Index+1, a.Question.Prompt)) + "\n"

	for i, ans := range a.Question.Answers {
		prefix := "    "
		if a.Focused && !a.Submitted && i == a.Selected {
			prefix = "  ▸ "
		}
		line := prefix + ans

		switch {
		case a.Submitted && i == a.Chosen && a.IsCorrect():
			s += theme.Correct.Render(line) + "\n"
		case a.Submitted && i == a.Chosen:
			s += theme.Incorrect.Render(line) + "\n"
		case a.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case a.Focused && i == a.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}
