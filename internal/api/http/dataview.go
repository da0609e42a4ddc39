package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type dataViewHeader struct {
	Text     string `json:"text"`
	Sortable bool   `json:"sortable,omitempty"`
}

// dataViewSettings is what the client-side table widget needs to render
// one of the results views: where to fetch rows, the column headers,
// which columns expose a free-text filter, and its UI strings.
type dataViewSettings struct {
	Source  string            `json:"source"`
	Headers []dataViewHeader  `json:"headers"`
	Filters []bool            `json:"filters"`
	L10n    map[string]string `json:"l10n"`
}

// GET /admin/data-views/{name}
func DataViewSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var settings dataViewSettings
		switch chi.URLParam(r, "name") {
		case "content-results":
			settings = viewSettings("/admin/contents/{contentID}/results", "User")
		case "my-results":
			settings = viewSettings("/admin/my-results", "Content")
		default:
			http.Error(w, "unknown data view", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(settings)
	}
}

func viewSettings(source, firstColumn string) dataViewSettings {
	return dataViewSettings{
		Source: source,
		Headers: []dataViewHeader{
			{Text: firstColumn, Sortable: true},
			{Text: "Score", Sortable: true},
			{Text: "Maximum Score", Sortable: true},
			{Text: "Opened", Sortable: true},
			{Text: "Finished", Sortable: true},
			{Text: "Time spent"},
		},
		// Only the first column has a free-text filter.
		Filters: []bool{true},
		L10n: map[string]string{
			"loading":      "Loading data.",
			"ajaxFailed":   "Failed to load data.",
			"noData":       "There's no data available that matches your criteria.",
			"currentPage":  "Page $current of $total",
			"nextPage":     "Next page",
			"previousPage": "Previous page",
			"search":       "Search",
			"empty":        "There are no logged results.",
		},
	}
}
