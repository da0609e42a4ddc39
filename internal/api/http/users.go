package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type userRow struct {
	ID          int64  `json:"id,omitempty"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role,omitempty"`
	Password    string `json:"password,omitempty"` // plaintext, hashed before storage
}

// POST /users/bulk
// Upserts a JSON array of users keyed on username. An empty password
// leaves an existing hash untouched.
func BulkUpsertUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []userRow
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			http.Error(w, "expected JSON array", http.StatusBadRequest)
			return
		}

		n := 0
		for _, u := range rows {
			u.Username = strings.TrimSpace(u.Username)
			if u.Username == "" {
				continue
			}
			if u.Role == "" {
				u.Role = "student"
			}
			if u.DisplayName == "" {
				u.DisplayName = u.Username
			}
			hash := ""
			if u.Password != "" {
				h, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				hash = string(h)
			}
			_, err := db.ExecContext(r.Context(), `INSERT INTO users (username, display_name, pass_hash, role)
				VALUES ($1,$2,$3,$4)
				ON CONFLICT (username) DO UPDATE SET
				  display_name=excluded.display_name,
				  role=excluded.role,
				  pass_hash=CASE WHEN excluded.pass_hash = '' THEN pass_hash ELSE excluded.pass_hash END`,
				u.Username, u.DisplayName, hash, u.Role)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			n++
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"upserted": n})
	}
}

// GET /users?role=student
func ListUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		var (
			rows *sql.Rows
			err  error
		)
		if role == "" {
			rows, err = db.QueryContext(r.Context(), `SELECT id, username, display_name, role FROM users ORDER BY username`)
		} else {
			rows, err = db.QueryContext(r.Context(), `SELECT id, username, display_name, role FROM users WHERE role=$1 ORDER BY username`, role)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		out := []userRow{}
		for rows.Next() {
			var u userRow
			if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			out = append(out, u)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}
