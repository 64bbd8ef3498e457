// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "start the server")
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config and passes it to New, which assembles:
//
//	sqlite.DB → services (auth, job, application, user) → handlers → routes
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/config"
	"github.com/sakif/jobboard/internal/handler"
	"github.com/sakif/jobboard/internal/middleware"
	sqliteRepo "github.com/sakif/jobboard/internal/repository/sqlite"
	"github.com/sakif/jobboard/internal/service"
)

// Limits for the register/login rate limiter. Auth endpoints do bcrypt
// work per request, so they get a much tighter allowance than the rest
// of the API (which is not limited at all).
const (
	authRPS   = 1
	authBurst = 5
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection (db). When the server shuts down,
// we must close this connection to flush any pending writes and release the
// file lock. This is handled in Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config.
//
// IMPORT ALIAS:
// We import repository/sqlite as `sqliteRepo` to avoid confusion with
// the sqlite driver package. Import aliases are common in Go when
// package names would otherwise collide or be unclear.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /health                              → liveness probe (public)
//	POST   /api/auth/register                   → create account (rate limited)
//	POST   /api/auth/login                      → sign in (rate limited)
//	POST   /api/auth/logout                     → clear session cookie
//	GET    /api/auth/me                         → current user (auth)
//	GET    /api/jobs                            → list active jobs (public)
//	GET    /api/jobs/{id}                       → get one job (public)
//	GET    /api/jobs/admin                      → list all statuses (admin)
//	POST   /api/jobs                            → create job (admin)
//	PUT    /api/jobs/{id}                       → update job (admin)
//	DELETE /api/jobs/{id}                       → delete job (admin)
//	POST   /api/applications                    → apply to a job (auth)
//	GET    /api/applications/my-applications    → own applications (auth)
//	GET    /api/applications                    → review queue (admin)
//	GET    /api/applications/job/{jobId}        → candidates for a job (admin)
//	PUT    /api/applications/{id}/status        → move through review (admin)
//	GET    /api/users                           → user directory (admin)
//	GET    /api/users/stats                     → headcount stats (admin)
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers (rate limiter keys on it)
// 3. Logger — logs each request with timing info
// 4. Recoverer — catches panics and returns 500 instead of crashing
// 5. CORS — lets the configured frontend origin call us with credentials
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// AllowCredentials is required because the session rides in a cookie;
	// with credentials on, the origin list cannot be a wildcard.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// === SERVICES & HANDLERS ===
	// The single sqlite.DB value implements all three repository
	// interfaces, so it is handed to each service as the narrow
	// interface that service needs.
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.JWTExpiry)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, passwords, tokens, s.logger)
	jobService := service.NewJobService(s.db, s.logger)
	applicationService := service.NewApplicationService(s.db, s.db, s.logger)
	userService := service.NewUserService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, tokens)
	jobHandler := handler.NewJobHandler(jobService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	userHandler := handler.NewUserHandler(userService)

	requireAuth := auth.RequireAuth(tokens, s.db, s.logger)
	requireAdmin := auth.RequireAdmin()

	// === HEALTH CHECK ===
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// === AUTH ROUTES ===
	s.router.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(authRPS, authBurst))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})
		r.Post("/logout", authHandler.Logout)
		r.With(requireAuth).Get("/me", authHandler.Me)
	})

	// === JOB ROUTES ===
	// Public reads first; the /admin listing and all writes sit behind
	// the auth + admin gates. "/admin" is registered before "/{id}" —
	// chi routes static segments ahead of parameters either way, but
	// keeping them in this order makes the precedence obvious.
	s.router.Route("/api/jobs", func(r chi.Router) {
		r.Get("/", jobHandler.List)
		r.With(requireAuth, requireAdmin).Get("/admin", jobHandler.ListAdmin)
		r.Get("/{id}", jobHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/", jobHandler.Create)
			r.Put("/{id}", jobHandler.Update)
			r.Delete("/{id}", jobHandler.Delete)
		})
	})

	// === APPLICATION ROUTES ===
	s.router.Route("/api/applications", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", applicationHandler.Apply)
			r.Get("/my-applications", applicationHandler.ListMine)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Get("/", applicationHandler.ListAll)
			r.Get("/job/{jobId}", applicationHandler.ListForJob)
			r.Put("/{id}/status", applicationHandler.UpdateStatus)
		})
	})

	// === USER ROUTES ===
	s.router.Route("/api/users", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Get("/", userHandler.List)
		r.Get("/stats", userHandler.Stats)
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// If we skip step 3, the database file might be left in an inconsistent state.
// The `defer s.db.Close()` ensures this happens even if something panics.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("port", s.config.Port),
			slog.String("env", s.config.Env),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
