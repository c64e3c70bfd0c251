package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepdeck/prepdeck-backend/internal/workflow"
)

// GET /topics
func ListTopicsHandler(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topics, err := svc.Topics(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, topics)
	}
}

// GET /topics/{slug}/content — published items only.
func TopicContentHandler(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		items, err := svc.Published(r.Context(), slug)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, items)
	}
}
