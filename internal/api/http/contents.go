package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type contentRow struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// POST /contents  { "title": "..." }
// Registers a content title so the per-learner view has something to
// join against. The actual package pipeline lives elsewhere; this is
// only the registry boundary.
func RegisterContentHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}

		var id int64
		err := db.QueryRowContext(r.Context(),
			`INSERT INTO contents (title, created_at) VALUES ($1,$2) RETURNING id`,
			req.Title, time.Now().Unix(),
		).Scan(&id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(contentRow{ID: id, Title: req.Title})
	}
}

// GET /contents
func ListContentsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.QueryContext(r.Context(), `SELECT id, title FROM contents ORDER BY title`)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		out := []contentRow{}
		for rows.Next() {
			var c contentRow
			if err := rows.Scan(&c.ID, &c.Title); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			out = append(out, c)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}
