package quiz

import "fmt"

// QuestionRecord is one multiple-choice question. Records are immutable
// once loaded; shuffling derives fresh copies and never mutates the pool.
type QuestionRecord struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"` // 0-based index into Options
	Explanation   string   `json:"explanation"`
}

func (q QuestionRecord) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question id required")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %s: need at least 2 options", q.ID)
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("question %s: correct_answer %d out of range", q.ID, q.CorrectAnswer)
	}
	return nil
}

// Bank is a persisted group of questions for one technology.
type Bank struct {
	ID             string           `json:"id"`
	TechnologySlug string           `json:"technology_slug"`
	Title          string           `json:"title"`
	Questions      []QuestionRecord `json:"questions"`
	CreatedAt      int64            `json:"created_at"`
}

// QuestionView is the candidate-facing shape of the current question: the
// correct index and explanation stay server-side until answered.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// SessionView is the client-facing snapshot of a session.
type SessionView struct {
	ID            string        `json:"id"`
	Index         int           `json:"index"`
	Total         int           `json:"total"`
	Score         int           `json:"score"`
	Completed     bool          `json:"completed"`
	Report        string        `json:"report,omitempty"`
	Question      *QuestionView `json:"question,omitempty"`
	Selected      *int          `json:"selected,omitempty"`
	CorrectAnswer *int          `json:"correct_answer,omitempty"`
	Explanation   string        `json:"explanation,omitempty"`
}
