package http_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	api "github.com/coursekit/coursekit-admin/internal/api/http"
	"github.com/coursekit/coursekit-admin/internal/auth"
	"github.com/coursekit/coursekit-admin/internal/db"
	"github.com/coursekit/coursekit-admin/internal/rbac"
	"github.com/coursekit/coursekit-admin/internal/results"
)

type testEnv struct {
	db     *sql.DB
	store  *results.SQLStore
	router chi.Router
}

// newTestEnv wires the protected routes with an identity-injecting
// middleware standing in for the JWT layer.
func newTestEnv(t *testing.T, sub, role string) *testEnv {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	dbh.SetMaxOpenConns(1)
	t.Cleanup(func() { dbh.Close() })

	store := results.NewSQLStore(dbh)
	svc := results.NewDataViewService(store, results.Formatter{Layout: "2006-01-02 15:04:05"}, zerolog.Nop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithSubject(req.Context(), sub)
			ctx = rbac.WithRole(ctx, role)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.With(rbac.Require("results:view-all")).
		Get("/admin/contents/{contentID}/results", api.ContentResultsHandler(svc))
	r.With(rbac.Require("results:view-own")).
		Get("/admin/my-results", api.MyResultsHandler(svc))
	r.With(rbac.RequireAny("results:view-all", "results:view-own")).
		Get("/admin/data-views/{name}", api.DataViewSettingsHandler())
	r.With(rbac.Require("results:report")).
		Post("/results", api.ReportResultHandler(store))

	return &testEnv{db: dbh, store: store, router: r}
}

func (e *testEnv) seed(t *testing.T, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		if _, err := e.db.Exec(s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func seedContentResults(t *testing.T, e *testEnv) {
	e.seed(t,
		`INSERT INTO users (id, username, display_name) VALUES (1, 'alice', 'Alice A'), (2, 'bob', 'Bob B')`,
		`INSERT INTO contents (id, title, created_at) VALUES (3, 'Fractions Quiz', 0)`,
		`INSERT INTO results (user_id, content_id, score, max_score, opened, finished, time)
		 VALUES (1, 3, 8, 10, 1000, 1100, NULL), (2, 3, 5, 10, 2000, 2050, 0)`,
	)
}

func TestContentResultsEndpoint(t *testing.T) {
	e := newTestEnv(t, "9", "teacher")
	seedContentResults(t, e)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/contents/3/results", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Errorf("Cache-Control = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("Content-Type = %q", got)
	}

	var resp struct {
		Num  int     `json:"num"`
		Rows [][]any `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Num != 2 || len(resp.Rows) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Rows[1][5] != "0:50" {
		t.Errorf("bob time spent = %v, want 0:50", resp.Rows[1][5])
	}
}

func TestContentResultsFilter(t *testing.T) {
	e := newTestEnv(t, "9", "teacher")
	seedContentResults(t, e)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/contents/3/results?filters[]=ali", nil))

	var resp struct {
		Num  int     `json:"num"`
		Rows [][]any `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Num != 1 || len(resp.Rows) != 1 {
		t.Fatalf("resp = %+v, want only alice", resp)
	}
	if resp.Rows[0][0] != "Alice A" {
		t.Errorf("row = %v", resp.Rows[0])
	}
}

func TestContentResultsForbiddenForStudents(t *testing.T) {
	e := newTestEnv(t, "1", "student")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/contents/3/results", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestMyResultsUsesTokenSubject(t *testing.T) {
	e := newTestEnv(t, "1", "student")
	seedContentResults(t, e)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/my-results", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Num  int     `json:"num"`
		Rows [][]any `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Only alice's (user 1) attempt, named by content title.
	if resp.Num != 1 || resp.Rows[0][0] != "Fractions Quiz" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestReportEndpoint(t *testing.T) {
	e := newTestEnv(t, "7", "student")

	form := url.Values{
		"contentId": {"3"},
		"score":     {"4"},
		"maxScore":  {"10"},
		"opened":    {"100"},
		"finished":  {"200"},
		"time":      {"100"},
	}
	req := httptest.NewRequest("POST", "/results", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}

	var score int64
	if err := e.db.QueryRow(`SELECT score FROM results WHERE user_id=7 AND content_id=3`).Scan(&score); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if score != 4 {
		t.Errorf("score = %d, want 4", score)
	}
}

func TestReportMissingContentIDIsNoOp(t *testing.T) {
	e := newTestEnv(t, "7", "student")

	req := httptest.NewRequest("POST", "/results", strings.NewReader("score=4"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d, want silent 200", rec.Code)
	}

	var n int
	if err := e.db.QueryRow(`SELECT COUNT(id) FROM results`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("results rows = %d, want 0", n)
	}
}

func TestReportAbsentValuesStoredAsNull(t *testing.T) {
	e := newTestEnv(t, "7", "student")

	req := httptest.NewRequest("POST", "/results", strings.NewReader("contentId=3&score=bogus"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}

	var score sql.NullInt64
	if err := e.db.QueryRow(`SELECT score FROM results WHERE user_id=7 AND content_id=3`).Scan(&score); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if score.Valid {
		t.Errorf("score = %v, want NULL", score)
	}
}

func TestDataViewSettings(t *testing.T) {
	e := newTestEnv(t, "1", "student")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/data-views/my-results", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var settings struct {
		Source  string `json:"source"`
		Headers []struct {
			Text     string `json:"text"`
			Sortable bool   `json:"sortable"`
		} `json:"headers"`
		Filters []bool `json:"filters"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(settings.Headers) != 6 {
		t.Fatalf("headers = %d, want 6", len(settings.Headers))
	}
	if settings.Headers[0].Text != "Content" || !settings.Headers[0].Sortable {
		t.Errorf("first header = %+v", settings.Headers[0])
	}
	if settings.Headers[5].Sortable {
		t.Error("time spent column must not be sortable")
	}

	rec = httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/data-views/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown view status = %d, want 404", rec.Code)
	}
}
