package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prepdeck/prepdeck-backend/internal/interview"
)

type interviewSessionOut struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	DurationSec  int    `json:"duration_sec"`
	RemainingSec int64  `json:"remaining_sec"`
	Prompts      []struct {
		Question string `json:"question"`
	} `json:"prompts"`
}

// GET /interview/templates
func ListInterviewTemplatesHandler(templates []interview.Template) http.HandlerFunc {
	type tplOut struct {
		Slug        string `json:"slug"`
		Role        string `json:"role"`
		DurationSec int    `json:"duration_sec"`
		Prompts     int    `json:"prompts"`
	}
	out := make([]tplOut, 0, len(templates))
	for _, t := range templates {
		out = append(out, tplOut{Slug: t.Slug, Role: t.Role, DurationSec: t.DurationSec, Prompts: len(t.Prompts)})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, out)
	}
}

// POST /interview/start  { "template": "backend-30" }
func StartInterviewHandler(mgr *interview.Manager, templates []interview.Template) http.HandlerFunc {
	bySlug := make(map[string]interview.Template, len(templates))
	for _, t := range templates {
		bySlug[t.Slug] = t
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Template string `json:"template"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		tpl, ok := bySlug[req.Template]
		if !ok {
			http.Error(w, "unknown template", http.StatusNotFound)
			return
		}
		s := mgr.Start(tpl)
		out := interviewSessionOut{
			ID:          s.ID,
			Role:        tpl.Role,
			DurationSec: tpl.DurationSec,
		}
		if rem, err := mgr.Remaining(s.ID); err == nil {
			out.RemainingSec = int64(rem.Seconds())
		}
		for _, p := range tpl.Prompts {
			out.Prompts = append(out.Prompts, struct {
				Question string `json:"question"`
			}{Question: p.Question})
		}
		writeJSON(w, out)
	}
}

// POST /interview/{id}/response  { "prompt": 0, "text": "..." }
func InterviewResponseHandler(mgr *interview.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt int    `json:"prompt"`
			Text   string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		id := chi.URLParam(r, "id")
		if err := mgr.RecordResponse(id, req.Prompt, req.Text); err != nil {
			interviewError(w, err)
			return
		}
		rem, _ := mgr.Remaining(id)
		writeJSON(w, map[string]int64{"remaining_sec": int64(rem.Seconds())})
	}
}

// POST /interview/{id}/finish
func FinishInterviewHandler(mgr *interview.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		card, err := mgr.Finish(chi.URLParam(r, "id"))
		if err != nil {
			interviewError(w, err)
			return
		}
		writeJSON(w, card)
	}
}

func interviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		http.Error(w, "interview session not found", http.StatusNotFound)
	case errors.Is(err, interview.ErrExpired):
		http.Error(w, "interview time is up", http.StatusConflict)
	case errors.Is(err, interview.ErrFinished):
		http.Error(w, "interview already finished", http.StatusConflict)
	case errors.Is(err, interview.ErrBadPromptIndex):
		http.Error(w, "prompt index out of range", http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), 500)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
