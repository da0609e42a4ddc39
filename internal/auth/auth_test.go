package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/coursekit/coursekit-admin/internal/auth"
	"github.com/coursekit/coursekit-admin/internal/db"
	"github.com/coursekit/coursekit-admin/internal/rbac"
)

func TestIssueAndParseJWT(t *testing.T) {
	svc := auth.NewAuthService("test-secret")
	tok, err := svc.IssueJWT("42", "teacher")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Parse(tok)
	if err != nil || claims == nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Sub != "42" || claims.Role != "teacher" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := auth.NewAuthService("secret-a").IssueJWT("42", "teacher")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if claims, err := auth.NewAuthService("secret-b").Parse(tok); err == nil && claims != nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestJWTMiddleware(t *testing.T) {
	svc := auth.NewAuthService("test-secret")
	var gotSub, gotRole string
	h := auth.JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = auth.SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	tok, _ := svc.IssueJWT("7", "student")
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("valid token: status = %d", rec.Code)
	}
	if gotSub != "7" || gotRole != "student" {
		t.Errorf("context carried %q/%q", gotSub, gotRole)
	}
}

func TestLoginHandler(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbh.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	if _, err := dbh.Exec(`INSERT INTO users (id, username, display_name, pass_hash, role)
		VALUES (1, 'alice', 'Alice A', $1, 'teacher')`, string(hash)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := auth.NewAuthService("test-secret")
	h := auth.LoginHandler(svc, dbh)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/auth/login",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`)))
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := svc.Parse(resp["access_token"])
	if err != nil || claims == nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Sub != "1" || claims.Role != "teacher" {
		t.Errorf("claims = %+v", claims)
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/auth/login",
		strings.NewReader(`{"username":"alice","password":"wrong"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/auth/login",
		strings.NewReader(`{"username":"nobody","password":"s3cret"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: status = %d, want 401", rec.Code)
	}
}
