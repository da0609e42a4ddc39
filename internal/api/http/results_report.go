package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/coursekit/coursekit-admin/internal/auth"
	"github.com/coursekit/coursekit-admin/internal/results"
)

// POST /results
// Outcome reported by the content player when a learner finishes. Fire
// and forget: a missing or non-numeric contentId makes the call a no-op
// with no error payload, and absent measurement values are stored as
// NULL rather than zero. The acting learner is the token subject.
func ReportResultHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := strconv.ParseInt(auth.SubjectFromContext(r.Context()), 10, 64)
		if err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		contentID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("contentId")), 10, 64)
		if err != nil {
			return // silently ignored
		}

		in := results.ReportInput{
			UserID:    uid,
			ContentID: contentID,
			Score:     optInt(r, "score"),
			MaxScore:  optInt(r, "maxScore"),
			Opened:    optInt(r, "opened"),
			Finished:  optInt(r, "finished"),
			Time:      optInt(r, "time"),
		}
		if err := store.Report(r.Context(), in); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func optInt(r *http.Request, key string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(key)), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
