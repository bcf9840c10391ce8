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

	api "github.com/classbridge/classbridge/internal/api/http"
	"github.com/classbridge/classbridge/internal/audit"
	"github.com/classbridge/classbridge/internal/config"
	"github.com/classbridge/classbridge/internal/db"
	"github.com/classbridge/classbridge/internal/gateway"
	"github.com/classbridge/classbridge/internal/mail"
	"github.com/classbridge/classbridge/internal/platform/auth"
	"github.com/classbridge/classbridge/internal/platform/blob"
	"github.com/classbridge/classbridge/internal/platform/docstore"
	"github.com/classbridge/classbridge/internal/platform/rtdb"
	"github.com/classbridge/classbridge/internal/rbac"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	// --- Platform services ---
	accounts := auth.NewService(dbh, cfg.AuthSecret)
	docs := docstore.NewSQLStore(dbh, cfg.DBDriver)
	blobs, err := blob.NewFSStore(cfg.BlobBasePath, cfg.BlobPublicURL)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	rt, err := rtdb.OpenBolt(cfg.RTDBPath)
	if err != nil {
		log.Fatalf("realtime store: %v", err)
	}
	defer rt.Close()

	var mailer mail.Mailer
	switch cfg.MailDriver {
	case "sendgrid":
		mailer = mail.NewSendgridMailer(cfg.SendgridAPIKey, "ClassBridge", cfg.MailFrom)
	default:
		mailer = &mail.ConsoleMailer{From: cfg.MailFrom}
	}

	gw := gateway.New(gateway.Options{
		Accounts: accounts,
		Docs:     docs,
		Blobs:    blobs,
		Realtime: rt,
		Mailer:   mailer,
		Audit:    audit.NewLog(dbh),
	})
	tokens := auth.NewTokenIssuer(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public auth surface
	r.Post("/auth/register", api.RegisterHandler(gw, tokens))
	r.Post("/auth/login", api.LoginHandler(gw, tokens))
	r.Post("/auth/forgot-password", api.ForgotPasswordHandler(gw))
	r.Post("/auth/reset-password", api.ResetPasswordHandler(gw))

	// Protected API: JWT puts subject and role in context, RBAC checks them.
	r.Group(func(pr chi.Router) {
		pr.Use(api.JWTMiddleware(tokens))

		pr.Post("/auth/verify-password", api.VerifyPasswordHandler(gw))

		pr.With(rbac.Require("profile:view")).
			Get("/profiles/{uid}", api.GetProfileHandler(gw))
		pr.With(rbac.Require("profile:edit")).
			Put("/profiles/{uid}", api.SaveProfileHandler(gw))

		pr.With(rbac.Require("classroom:create")).
			Post("/classrooms", api.CreateClassroomHandler(gw))
		pr.With(rbac.Require("classroom:view")).
			Get("/classrooms", api.ListClassroomsHandler(gw))
		pr.With(rbac.Require("classroom:join")).
			Post("/classrooms/join", api.JoinClassroomHandler(gw))

		pr.With(rbac.Require("notice:post")).
			Post("/notices", api.PostNoticeHandler(gw))
		pr.With(rbac.Require("notice:view")).
			Get("/notices", api.ListNoticesHandler(gw))

		pr.With(rbac.Require("file:upload")).
			Post("/files", api.UploadFileHandler(gw))
		pr.With(rbac.Require("file:list")).
			Get("/files/{rollNo}", api.ListDocumentsHandler(gw))
		pr.With(rbac.Require("file:list")).
			Get("/files/blob/*", api.DownloadHandler(gw))

		pr.With(rbac.Require("test:create")).
			Put("/tests/{testID}", api.PutTestHandler(gw))
		pr.With(rbac.Require("test:view")).
			Get("/tests/{testID}", api.GetTestHandler(gw))
		pr.With(rbac.Require("test:submit")).
			Post("/tests/{testID}/submissions", api.SubmitTestHandler(gw))
		pr.With(rbac.Require("test:create")).
			Get("/tests/{testID}/submissions", api.ListSubmissionsHandler(gw))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
