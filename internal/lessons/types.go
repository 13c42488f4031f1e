package lessons

// Lesson is the client-side snapshot of a lesson as returned by the backend.
// Snapshots are immutable; ID is the sole correlation key for quiz lookup
// and generation.
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Question is a single generated quiz question. Field tags follow the wire
// format the backend stores in questions_json.
type Question struct {
	Prompt  string   `json:"pytanie"`
	Answers []string `json:"odpowiedzi"`
	Correct string   `json:"poprawna"`
}

// Quiz is an ordered set of questions attached to one lesson. The backend
// may hold several quiz rows per lesson; the client only ever shows the
// first, so a Lesson has at most one Quiz from this package's perspective.
type Quiz struct {
	ID        string     `json:"id,omitempty"`
	LessonID  string     `json:"lesson_id,omitempty"`
	Questions []Question `json:"questions_json"`
}

// Empty reports whether the quiz has no questions to show.
func (q *Quiz) Empty() bool {
	return q == nil || len(q.Questions) == 0
}
