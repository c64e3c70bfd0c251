package http

import (
	"net/http"

	"github.com/prepdeck/prepdeck-backend/internal/audit"
)

// GET /admin/audit?limit=100
func ListAuditHandler(repo *audit.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		entries, err := repo.List(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, entries)
	}
}
