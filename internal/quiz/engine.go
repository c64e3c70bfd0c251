// Package quiz turns static question pools into randomized, size-capped
// practice sessions and scores them. Sessions are ephemeral: they live in
// the in-process registry for the duration of one client's attempt and are
// never persisted.
package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxActiveQuestions caps how many questions one session draws from a pool.
const MaxActiveQuestions = 15

var (
	// ErrNoQuestions: the pool is empty. Callers treat this as a "no quiz
	// available" state, not a failure.
	ErrNoQuestions = errors.New("no questions available")
	// ErrSessionComplete: answer/advance after the final question.
	ErrSessionComplete = errors.New("session complete")
	// ErrInvalidOption: the option index is out of range for the current question.
	ErrInvalidOption = errors.New("option index out of range")
)

// Session is one randomized quiz attempt. A session is owned by a single
// interactive client; mutation goes through the registry.
type Session struct {
	ID      string
	Active  []QuestionRecord
	Current int
	// Selected is the answer for the current question; nil until answered,
	// reset on every advance.
	Selected  *int
	Score     int
	Completed bool

	pool []QuestionRecord // original source, kept for Reset
}

// Engine produces sessions. It owns the random source; the source is
// injectable so tests can fix the permutation.
type Engine struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewEngine(src rand.Source) *Engine {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Engine{rnd: rand.New(src)}
}

// StartSession shuffles the pool (Fisher-Yates), truncates to
// MaxActiveQuestions and independently shuffles each question's options,
// carrying the correct index through the permutation.
func (e *Engine) StartSession(pool []QuestionRecord) (*Session, error) {
	s, err := e.buildSession(pool)
	if err != nil {
		return nil, err
	}
	s.ID = uuid.NewString()
	return s, nil
}

// Reset re-draws a fresh permutation from the session's original pool. The
// session ID survives so a client's cookie pin stays valid.
func (e *Engine) Reset(s *Session) (*Session, error) {
	ns, err := e.buildSession(s.pool)
	if err != nil {
		return nil, err
	}
	ns.ID = s.ID
	return ns, nil
}

func (e *Engine) buildSession(pool []QuestionRecord) (*Session, error) {
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}
	src := make([]QuestionRecord, len(pool))
	copy(src, pool)

	e.mu.Lock()
	e.rnd.Shuffle(len(src), func(i, j int) { src[i], src[j] = src[j], src[i] })
	n := len(src)
	if n > MaxActiveQuestions {
		n = MaxActiveQuestions
	}
	active := make([]QuestionRecord, n)
	for i := 0; i < n; i++ {
		active[i] = shuffleOptions(e.rnd, src[i])
	}
	e.mu.Unlock()

	return &Session{Active: active, pool: pool}, nil
}

// shuffleOptions permutes a question's options and remaps the correct
// answer by originating slot, not by value, so duplicate option text stays
// unambiguous.
func shuffleOptions(rnd *rand.Rand, q QuestionRecord) QuestionRecord {
	perm := rnd.Perm(len(q.Options))
	opts := make([]string, len(q.Options))
	newCorrect := q.CorrectAnswer
	for dst, src := range perm {
		opts[dst] = q.Options[src]
		if src == q.CorrectAnswer {
			newCorrect = dst
		}
	}
	q.Options = opts
	q.CorrectAnswer = newCorrect
	return q
}

// Answer records the first answer for the current question. Repeat calls
// for the same question are no-ops; neither score nor selection changes.
func (s *Session) Answer(option int) error {
	if s.Completed {
		return ErrSessionComplete
	}
	q := s.Active[s.Current]
	if option < 0 || option >= len(q.Options) {
		return ErrInvalidOption
	}
	if s.Selected != nil {
		return nil
	}
	s.Selected = &option
	if option == q.CorrectAnswer {
		s.Score++
	}
	return nil
}

// Advance moves to the next question, or completes the session on the last
// one. Further Answer/Advance calls are rejected once complete.
func (s *Session) Advance() error {
	if s.Completed {
		return ErrSessionComplete
	}
	if s.Current == len(s.Active)-1 {
		s.Completed = true
		return nil
	}
	s.Current++
	s.Selected = nil
	return nil
}

// Report renders the final score, e.g. "3 / 15".
func (s *Session) Report() string {
	return fmt.Sprintf("%d / %d", s.Score, len(s.Active))
}

// View snapshots the session for the client. The correct index and
// explanation are revealed only for an already-answered question.
func (s *Session) View() SessionView {
	v := SessionView{
		ID:        s.ID,
		Index:     s.Current,
		Total:     len(s.Active),
		Score:     s.Score,
		Completed: s.Completed,
	}
	if s.Completed {
		v.Report = s.Report()
		return v
	}
	q := s.Active[s.Current]
	v.Question = &QuestionView{ID: q.ID, Prompt: q.Prompt, Options: q.Options}
	if s.Selected != nil {
		sel := *s.Selected
		correct := q.CorrectAnswer
		v.Selected = &sel
		v.CorrectAnswer = &correct
		v.Explanation = q.Explanation
	}
	return v
}
