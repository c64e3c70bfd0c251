package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepdeck/prepdeck-backend/internal/sandbox"
)

// GET /sandbox/exercises
func ListExercisesHandler(c *sandbox.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, c.List())
	}
}

// POST /sandbox/exercises/{slug}/check  { "source": "..." }
func CheckExerciseHandler(c *sandbox.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Source string `json:"source"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		res, err := c.Check(chi.URLParam(r, "slug"), req.Source)
		if errors.Is(err, sandbox.ErrUnknownExercise) {
			http.Error(w, "unknown exercise", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, res)
	}
}
