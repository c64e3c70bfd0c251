package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/prepdeck/prepdeck-backend/internal/quiz"
)

// quizCookie pins the one active quiz session per browser client. The
// session state itself lives in the registry; the cookie carries only the ID.
const quizCookie = "pd_quiz"

func NewQuizCookieStore(secret string) *sessions.CookieStore {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options.HttpOnly = true
	cs.Options.SameSite = http.SameSiteLaxMode
	return cs
}

// POST /quiz/{slug}/start
func StartQuizHandler(reg *quiz.Registry, pools quiz.PoolSource, cs *sessions.CookieStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		pool, err := pools.PoolForTopic(r.Context(), slug)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		view, err := reg.Start(pool)
		if errors.Is(err, quiz.ErrNoQuestions) {
			http.Error(w, "no quiz available", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		sess, _ := cs.Get(r, quizCookie)
		// A client holds one quiz at a time; starting a new one discards the old.
		if old, ok := sess.Values["sid"].(string); ok && old != view.ID {
			reg.Discard(old)
		}
		sess.Values["sid"] = view.ID
		if err := sess.Save(r, w); err != nil {
			http.Error(w, "session cookie: "+err.Error(), 500)
			return
		}
		writeJSON(w, view)
	}
}

// GET /quiz/session
func GetQuizSessionHandler(reg *quiz.Registry, cs *sessions.CookieStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pinnedSession(r, cs)
		if !ok {
			http.Error(w, "no quiz session", http.StatusNotFound)
			return
		}
		view, err := reg.Get(id)
		if err != nil {
			quizError(w, err)
			return
		}
		writeJSON(w, view)
	}
}

// POST /quiz/session/answer  { "option": 2 }
func AnswerQuizHandler(reg *quiz.Registry, cs *sessions.CookieStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pinnedSession(r, cs)
		if !ok {
			http.Error(w, "no quiz session", http.StatusNotFound)
			return
		}
		var req struct {
			Option int `json:"option"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		view, err := reg.Answer(id, req.Option)
		if err != nil {
			quizError(w, err)
			return
		}
		writeJSON(w, view)
	}
}

// POST /quiz/session/advance
func AdvanceQuizHandler(reg *quiz.Registry, cs *sessions.CookieStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pinnedSession(r, cs)
		if !ok {
			http.Error(w, "no quiz session", http.StatusNotFound)
			return
		}
		view, err := reg.Advance(id)
		if err != nil {
			quizError(w, err)
			return
		}
		writeJSON(w, view)
	}
}

// POST /quiz/session/reset
func ResetQuizHandler(reg *quiz.Registry, cs *sessions.CookieStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pinnedSession(r, cs)
		if !ok {
			http.Error(w, "no quiz session", http.StatusNotFound)
			return
		}
		view, err := reg.Reset(id)
		if err != nil {
			quizError(w, err)
			return
		}
		writeJSON(w, view)
	}
}

func pinnedSession(r *http.Request, cs *sessions.CookieStore) (string, bool) {
	sess, err := cs.Get(r, quizCookie)
	if err != nil {
		return "", false
	}
	id, ok := sess.Values["sid"].(string)
	return id, ok && id != ""
}

func quizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrSessionNotFound):
		http.Error(w, "quiz session not found", http.StatusNotFound)
	case errors.Is(err, quiz.ErrInvalidOption):
		http.Error(w, "option index out of range", http.StatusBadRequest)
	case errors.Is(err, quiz.ErrSessionComplete):
		http.Error(w, "session complete", http.StatusConflict)
	default:
		http.Error(w, err.Error(), 500)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
