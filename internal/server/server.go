// Package server wires handlers, middleware, and routes together and owns
// the HTTP server lifecycle.
//
// This is the composition root: the full dependency chain
//
//	sqlite.DB → repositories → services → handlers → router
//
// is assembled in New, so the rest of the codebase never constructs its own
// dependencies.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/restro-server/internal/auth"
	"github.com/sakif/restro-server/internal/handler"
	"github.com/sakif/restro-server/internal/media"
	"github.com/sakif/restro-server/internal/middleware"
	sqliteRepo "github.com/sakif/restro-server/internal/repository/sqlite"
	"github.com/sakif/restro-server/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DBPath    string // path to the SQLite database file
	JWTSecret string // HMAC secret for bearer tokens
	UploadDir string // directory for stored images
}

// Server owns the router and the resources behind it. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and assembles the full dependency chain.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Router exposes the configured handler, mainly so tests can drive the
// server with httptest without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources. Start calls this itself; tests
// that only use Router should defer it.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware, handlers, and the route table.
//
// ROUTE STRUCTURE:
//
//	POST   /api/createuser      → register (public)
//	POST   /api/login           → login, returns bearer token (public)
//	POST   /api/logout          → stateless acknowledgment (public)
//	GET    /api/health          → liveness (public)
//	GET    /api/protected       → current user            [auth]
//	POST   /api/createpost      → create post (multipart) [auth]
//	GET    /api/posts           → list own posts          [auth]
//	PUT    /api/editpost/{id}   → edit post (multipart)   [auth]
//	DELETE /api/deletepost/{id} → delete post             [auth]
//	GET    /uploads/*           → stored images (public)
//
// MIDDLEWARE ORDER: RequestID and RealIP first so the logger sees them,
// Recoverer before our logger so a panic still produces a log line and a
// 500 instead of a dropped connection.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	store, err := media.NewDiskStore(s.config.UploadDir, "/uploads")
	if err != nil {
		return fmt.Errorf("creating media store: %w", err)
	}

	authSvc := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	postSvc := service.NewPostService(s.db.Posts(), s.logger)

	authHandler := handler.NewAuthHandler(authSvc, s.logger)
	postHandler := handler.NewPostHandler(postSvc, store, s.logger)

	// Stored images are served straight off disk; StripPrefix maps
	// GET /uploads/<name> to <UploadDir>/<name>. FileServer renders an
	// auto-index for directory paths, which would list every stored
	// filename, so those requests are rejected before it runs.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(store.Dir())))
	s.router.Handle("/uploads/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HandleHealth)
		r.Post("/createuser", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		// Protected routes: RequireAuth validates the bearer token and
		// puts the caller's identity in the request context.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/protected", authHandler.HandleProtected)
			r.Post("/createpost", postHandler.HandleCreate)
			r.Get("/posts", postHandler.HandleList)
			r.Put("/editpost/{id}", postHandler.HandleUpdate)
			r.Delete("/deletepost/{id}", postHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to finish, close the database (flushes the WAL, releases the
// file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
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
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
