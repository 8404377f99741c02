package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devika/wellnest/backend/internal/auth"
	"github.com/devika/wellnest/backend/internal/config"
	"github.com/devika/wellnest/backend/internal/content"
	"github.com/devika/wellnest/backend/internal/mail"
	"github.com/devika/wellnest/backend/internal/middleware"
	"github.com/devika/wellnest/backend/internal/routine"
	"github.com/devika/wellnest/backend/internal/store"
)

// contentTypes parameterizes the one generic content service for each of the
// three content collections.
var contentTypes = []struct {
	mount      string
	collection string
	cfg        content.Config
}{
	{"/api/bodycare", "bodycare", content.Config{Label: "body care tip", Category: "bodycare"}},
	{"/api/facehaircare", "facehaircare", content.Config{Label: "face & hair care item", Category: "facehaircare"}},
	{"/api/healthyfood", "healthyfood", content.Config{Label: "food item", Category: "healthyfood"}},
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		fatal("postgres connect", err)
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		fatal("postgres migrate", err)
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		fatal("mongo connect", err)
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.MongoDB)

	routineStore := store.NewRoutineStore(mongoDB)
	if err := routineStore.EnsureIndexes(ctx); err != nil {
		fatal("routine indexes", err)
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		fatal("redis connect", err)
	}
	defer rdb.Close()
	resetTokens := auth.NewResetTokens(rdb)

	// ── Image storage ────────────────────────────────────────
	images, err := store.NewImageStore(ctx, cfg)
	if err != nil {
		fatal("image store", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	issuer := auth.NewTokenIssuer(cfg.JWTSecret)
	mailer := mail.NewSMTPMailer(cfg)
	authHandler := auth.NewHandler(pgStore, resetTokens, mailer, issuer, cfg.ResetURLBase)
	routineHandler := routine.NewHandler(routineStore)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public, except /me)
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.With(middleware.RequireAuth(issuer)).Get("/me", authHandler.Me)
	})

	// Content routes, one generic handler per content type, plus the static
	// image mount for each type's upload directory.
	imageHandler := images.Handler()
	for _, ct := range contentTypes {
		items := store.NewContentStore(mongoDB, ct.collection)
		if err := items.EnsureIndexes(ctx); err != nil {
			fatal(ct.collection+" indexes", err)
		}
		r.Mount(ct.mount, content.NewHandler(items, images, ct.cfg).Routes())
		r.Handle("/"+ct.cfg.Category+"/*", imageHandler)
	}

	// Routine tracker routes
	r.Mount("/api/routine", routineHandler.Routes())

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		slog.Info("backend listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal("server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
