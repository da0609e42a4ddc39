package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/coursekit/coursekit-admin/internal/api/http"
	"github.com/coursekit/coursekit-admin/internal/auth"
	"github.com/coursekit/coursekit-admin/internal/config"
	"github.com/coursekit/coursekit-admin/internal/db"
	"github.com/coursekit/coursekit-admin/internal/logging"
	"github.com/coursekit/coursekit-admin/internal/rbac"
	"github.com/coursekit/coursekit-admin/internal/results"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	log := logging.New()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db open failed")
	}
	store := results.NewSQLStore(dbh)
	svc := results.NewDataViewService(store, results.Formatter{
		TZOffsetSeconds: cfg.TZOffsetSeconds(),
		Layout:          cfg.DateTimeLayout(),
	}, log)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(logging.AccessLog(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))
	}

	// Protected API (JWT → subject/role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Results data views: one per fixed dimension.
		pr.With(rbac.Require("results:view-all")).
			Get("/admin/contents/{contentID}/results", api.ContentResultsHandler(svc))
		pr.With(rbac.Require("results:view-own")).
			Get("/admin/my-results", api.MyResultsHandler(svc))
		pr.With(rbac.RequireAny("results:view-all", "results:view-own")).
			Get("/admin/data-views/{name}", api.DataViewSettingsHandler())

		// Outcome reporting from the content player.
		pr.With(rbac.Require("results:report")).
			Post("/results", api.ReportResultHandler(store))

		// Identity and content registries the views join against.
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("contents:manage")).
			Post("/contents", api.RegisterContentHandler(dbh))
		pr.With(rbac.RequireAny("contents:manage", "results:view-all")).
			Get("/contents", api.ListContentsHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Info().Str("addr", cfg.HTTPAddr).Str("db", cfg.DBDriver).Msg("listening")
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
