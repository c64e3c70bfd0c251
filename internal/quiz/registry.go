package quiz

import (
	"errors"
	"sync"
)

// ErrSessionNotFound: no live session under that ID (expired, discarded,
// or never started).
var ErrSessionNotFound = errors.New("quiz session not found")

// Registry holds live sessions keyed by session ID. All mutation funnels
// through it under one lock; each session itself is single-client.
type Registry struct {
	mu       sync.Mutex
	engine   *Engine
	sessions map[string]*Session
}

func NewRegistry(engine *Engine) *Registry {
	return &Registry{engine: engine, sessions: map[string]*Session{}}
}

func (r *Registry) Start(pool []QuestionRecord) (SessionView, error) {
	s, err := r.engine.StartSession(pool)
	if err != nil {
		return SessionView{}, err
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s.View(), nil
}

func (r *Registry) Get(id string) (SessionView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}
	return s.View(), nil
}

func (r *Registry) Answer(id string, option int) (SessionView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}
	if err := s.Answer(option); err != nil {
		return SessionView{}, err
	}
	return s.View(), nil
}

func (r *Registry) Advance(id string) (SessionView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}
	if err := s.Advance(); err != nil {
		return SessionView{}, err
	}
	return s.View(), nil
}

// Reset replaces the session with a fresh shuffle of its original pool,
// under the same ID.
func (r *Registry) Reset(id string) (SessionView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}
	ns, err := r.engine.Reset(s)
	if err != nil {
		return SessionView{}, err
	}
	r.sessions[id] = ns
	return ns.View(), nil
}

// Discard drops a session. Discarding an unknown ID is a no-op.
func (r *Registry) Discard(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
