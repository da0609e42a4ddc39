package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coursekit/coursekit-admin/internal/auth"
	"github.com/coursekit/coursekit-admin/internal/results"
)

// GET /admin/contents/{contentID}/results
// Every learner's attempt at one piece of content.
func ContentResultsHandler(svc *results.DataViewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "contentID"), 10, 64)
		if err != nil {
			http.Error(w, "bad content id", http.StatusBadRequest)
			return
		}
		writeDataView(w, r, svc, results.ContentScope(id))
	}
}

// GET /admin/my-results
// The caller's own attempts across all contents. The learner id is the
// token subject, never a request parameter.
func MyResultsHandler(svc *results.DataViewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := strconv.ParseInt(auth.SubjectFromContext(r.Context()), 10, 64)
		if err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeDataView(w, r, svc, results.UserScope(uid))
	}
}

func writeDataView(w http.ResponseWriter, r *http.Request, svc *results.DataViewService, scope results.Scope) {
	resp, err := svc.List(r.Context(), scope, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
