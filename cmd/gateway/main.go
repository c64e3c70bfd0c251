package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/prepdeck/prepdeck-backend/internal/api/http"
	"github.com/prepdeck/prepdeck-backend/internal/audit"
	authpkg "github.com/prepdeck/prepdeck-backend/internal/auth"
	authmw "github.com/prepdeck/prepdeck-backend/internal/auth/middleware"
	"github.com/prepdeck/prepdeck-backend/internal/config"
	"github.com/prepdeck/prepdeck-backend/internal/db"
	"github.com/prepdeck/prepdeck-backend/internal/interview"
	"github.com/prepdeck/prepdeck-backend/internal/quiz"
	"github.com/prepdeck/prepdeck-backend/internal/rbac"
	"github.com/prepdeck/prepdeck-backend/internal/sandbox"
	"github.com/prepdeck/prepdeck-backend/internal/storage"
	"github.com/prepdeck/prepdeck-backend/internal/workflow"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := authmw.EnsureAdminUser(dbh, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	// --- Core services ---
	auditRepo := audit.NewRepo(dbh)
	flow := workflow.NewService(workflow.NewSQLStore(dbh), auditRepo, nil)

	engine := quiz.NewEngine(nil)
	registry := quiz.NewRegistry(engine)
	pools := quiz.NewSQLPoolSource(dbh)
	cookieStore := api.NewQuizCookieStore(cfg.SessionSecret)

	checker := sandbox.NewChecker(sandbox.DefaultExercises())
	interviews := interview.NewManager(nil)
	templates := interview.DefaultTemplates()

	authSvc := authmw.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", authmw.LoginHandler(authSvc, dbh))
	if cfg.EnableGuestAuth {
		r.Post("/auth/guest", authpkg.GuestLoginHandler(authSvc, dbh, cfg))
	}

	bs, err := storage.NewFSStore(cfg.AssetBasePath)
	if err != nil {
		log.Fatalf("asset store: %v", err)
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))

		pr.Post("/users/change-password", api.ChangePasswordHandler(dbh))

		// Candidate surface
		pr.With(rbac.Require("quiz:view")).
			Get("/topics", api.ListTopicsHandler(flow))
		pr.With(rbac.Require("quiz:view")).
			Get("/topics/{slug}/content", api.TopicContentHandler(flow))

		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/{slug}/start", api.StartQuizHandler(registry, pools, cookieStore))
		pr.With(rbac.Require("quiz:take")).
			Get("/quiz/session", api.GetQuizSessionHandler(registry, cookieStore))
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/session/answer", api.AnswerQuizHandler(registry, cookieStore))
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/session/advance", api.AdvanceQuizHandler(registry, cookieStore))
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/session/reset", api.ResetQuizHandler(registry, cookieStore))

		pr.With(rbac.Require("quiz:view")).
			Get("/sandbox/exercises", api.ListExercisesHandler(checker))
		pr.With(rbac.Require("quiz:take")).
			Post("/sandbox/exercises/{slug}/check", api.CheckExerciseHandler(checker))

		pr.With(rbac.Require("quiz:view")).
			Get("/interview/templates", api.ListInterviewTemplatesHandler(templates))
		pr.With(rbac.Require("quiz:take")).
			Post("/interview/start", api.StartInterviewHandler(interviews, templates))
		pr.With(rbac.Require("quiz:take")).
			Post("/interview/{id}/response", api.InterviewResponseHandler(interviews))
		pr.With(rbac.Require("quiz:take")).
			Post("/interview/{id}/finish", api.FinishInterviewHandler(interviews))

		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs)
		})

		// Admin surface
		pr.With(rbac.Require("content:ingest")).
			Post("/admin/review-items", api.IngestReviewItemHandler(flow))
		pr.With(rbac.Require("content:review")).
			Get("/admin/review-items/queue", api.ReviewQueueHandler(flow))
		pr.With(rbac.Require("content:review")).
			Post("/admin/review-items/{itemID}/approve", api.ApproveItemHandler(flow))
		pr.With(rbac.Require("content:review")).
			Post("/admin/review-items/{itemID}/reject", api.RejectItemHandler(flow))
		pr.With(rbac.Require("content:publish")).
			Post("/admin/review-items/{itemID}/publish", api.PublishItemHandler(flow))
		pr.With(rbac.Require("content:publish")).
			Get("/admin/publish-events", api.PublishHistoryHandler(flow))
		pr.With(rbac.Require("content:publish")).
			Post("/admin/publish-events/{eventID}/rollback", api.RollbackEventHandler(flow))
		pr.With(rbac.Require("audit:view")).
			Get("/admin/audit", api.ListAuditHandler(auditRepo))
		pr.With(rbac.Require("content:publish")).
			Post("/admin/question-banks", api.UploadBankHandler(pools))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
