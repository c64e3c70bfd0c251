package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-backend/internal/quiz"
	"github.com/prepdeck/prepdeck-backend/internal/rbac"
	"github.com/prepdeck/prepdeck-backend/internal/workflow"
)

// POST /admin/review-items — the generation producer's boundary. Items
// enter at pending_review.
func IngestReviewItemHandler(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in workflow.IngestInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if in.TechnologySlug == "" || in.Title == "" {
			http.Error(w, "technology_slug and title required", http.StatusBadRequest)
			return
		}
		it, err := svc.Ingest(r.Context(), rbac.SubjectFromContext(r.Context()), in)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, it)
	}
}

// GET /admin/review-items/queue — approved items awaiting publish.
func ReviewQueueHandler(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Queue(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, items)
	}
}

// POST /admin/review-items/{itemID}/approve
func ApproveItemHandler(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := svc.Approve(r.Context(), rbac.SubjectFromContext(r.Context()), chi.URLParam(r, "itemID"))
		if err != nil {
			workflowError(w, err)
			return
		}
		writeJSON(w, it)
	}
}

// POST /admin/review-items/{itemID}/reject
func RejectItemHandler(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := svc.Reject(r.Context(), rbac.SubjectFromContext(r.Context()), chi.URLParam(r, "itemID"))
		if err != nil {
			workflowError(w, err)
			return
		}
		writeJSON(w, it)
	}
}

// POST /admin/review-items/{itemID}/publish
func PublishItemHandler(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, err := svc.Publish(r.Context(), rbac.SubjectFromContext(r.Context()), chi.URLParam(r, "itemID"))
		if err != nil {
			workflowError(w, err)
			return
		}
		writeJSON(w, ev)
	}
}

// GET /admin/publish-events
func PublishHistoryHandler(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		evs, err := svc.History(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, evs)
	}
}

// POST /admin/publish-events/{eventID}/rollback
func RollbackEventHandler(svc *workflow.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, err := svc.Rollback(r.Context(), rbac.SubjectFromContext(r.Context()), chi.URLParam(r, "eventID"))
		if err != nil {
			workflowError(w, err)
			return
		}
		writeJSON(w, ev)
	}
}

// POST /admin/question-banks
func UploadBankHandler(pools *quiz.SQLPoolSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b quiz.Bank
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if b.TechnologySlug == "" {
			http.Error(w, "technology_slug required", http.StatusBadRequest)
			return
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if err := pools.SaveBank(r.Context(), b); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]string{"id": b.ID})
	}
}

func workflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, workflow.ErrNotApproved):
		http.Error(w, "item not approved", http.StatusConflict)
	default:
		http.Error(w, err.Error(), 500)
	}
}
