// Package interview runs timed mock-interview sessions. Scoring is
// heuristic: each prompt carries key points, and a response scores by how
// many of them it touches. Finishing past the deadline costs a penalty.
package interview

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("interview session not found")
	ErrFinished        = errors.New("interview already finished")
	ErrExpired         = errors.New("interview time is up")
	ErrBadPromptIndex  = errors.New("prompt index out of range")
)

type Prompt struct {
	Question  string   `json:"question"`
	KeyPoints []string `json:"key_points"`
}

type Template struct {
	Slug        string   `json:"slug"`
	Role        string   `json:"role"`
	DurationSec int      `json:"duration_sec"`
	Prompts     []Prompt `json:"prompts"`
}

type Scorecard struct {
	PromptScores []float64 `json:"prompt_scores"` // coverage in [0,1] per prompt
	Overall      float64   `json:"overall"`       // percentage, overtime-adjusted
	Overtime     bool      `json:"overtime"`
	ElapsedSec   int64     `json:"elapsed_sec"`
	Feedback     []string  `json:"feedback"`
}

// overtimePenalty scales the overall score when the candidate finishes
// past the deadline.
const overtimePenalty = 0.8

type Session struct {
	ID        string
	Template  Template
	StartedAt time.Time
	Deadline  time.Time

	responses []string
	finished  bool
}

// Clock is injectable so tests control the deadline.
type Clock func() time.Time

// Manager owns live interview sessions.
type Manager struct {
	mu       sync.Mutex
	now      Clock
	sessions map[string]*Session
}

func NewManager(now Clock) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{now: now, sessions: map[string]*Session{}}
}

func (m *Manager) Start(tpl Template) *Session {
	start := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Template:  tpl,
		StartedAt: start,
		Deadline:  start.Add(time.Duration(tpl.DurationSec) * time.Second),
		responses: make([]string, len(tpl.Prompts)),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) get(id string) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remaining reports time left; zero once expired.
func (m *Manager) Remaining(id string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.get(id)
	if err != nil {
		return 0, err
	}
	d := s.Deadline.Sub(m.now())
	if d < 0 {
		d = 0
	}
	return d, nil
}

// RecordResponse stores the candidate's answer for one prompt. Responses
// after the deadline or after Finish are rejected.
func (m *Manager) RecordResponse(id string, promptIdx int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.get(id)
	if err != nil {
		return err
	}
	if s.finished {
		return ErrFinished
	}
	if m.now().After(s.Deadline) {
		return ErrExpired
	}
	if promptIdx < 0 || promptIdx >= len(s.responses) {
		return ErrBadPromptIndex
	}
	s.responses[promptIdx] = text
	return nil
}

// Finish closes the session and scores it. Finishing is allowed after the
// deadline; the overtime penalty applies instead of a rejection.
func (m *Manager) Finish(id string) (Scorecard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.get(id)
	if err != nil {
		return Scorecard{}, err
	}
	if s.finished {
		return Scorecard{}, ErrFinished
	}
	s.finished = true

	now := m.now()
	card := Scorecard{
		PromptScores: make([]float64, len(s.Template.Prompts)),
		Overtime:     now.After(s.Deadline),
		ElapsedSec:   int64(now.Sub(s.StartedAt).Seconds()),
	}
	sum := 0.0
	for i, p := range s.Template.Prompts {
		cov, hits := coverage(s.responses[i], p.KeyPoints)
		card.PromptScores[i] = cov
		sum += cov
		card.Feedback = append(card.Feedback,
			fmt.Sprintf("prompt %d: key points covered %d/%d", i+1, hits, len(p.KeyPoints)))
	}
	if n := len(s.Template.Prompts); n > 0 {
		card.Overall = 100 * sum / float64(n)
	}
	if card.Overtime {
		card.Overall *= overtimePenalty
		card.Feedback = append(card.Feedback, "finished over time")
	}
	delete(m.sessions, id)
	return card, nil
}

func coverage(text string, keyPoints []string) (float64, int) {
	if len(keyPoints) == 0 || strings.TrimSpace(text) == "" {
		return 0, 0
	}
	low := strings.ToLower(text)
	hits := 0
	for _, k := range keyPoints {
		if k == "" {
			continue
		}
		if strings.Contains(low, strings.ToLower(k)) {
			hits++
		}
	}
	return float64(hits) / float64(len(keyPoints)), hits
}
