package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/markdave123-py/covidsearch/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/covidsearch/internal/api/middlewares"
	"github.com/markdave123-py/covidsearch/internal/config"
	"github.com/markdave123-py/covidsearch/internal/metrics"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// Routes holds what the router needs from the service layer.
type Routes struct {
	Auth     *handlers.AuthHandler
	Docs     *handlers.DocumentHandler
	Sessions appMiddleware.SessionVerifier
}

// NewRouter builds and wires all routes.
func NewRouter(cfg *config.Config, log *zap.Logger, m *metrics.Metrics, rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.RequestLogger(log, m))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Handle("/metrics", m.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handlers.Health)

		// public endpoints
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/firebase-register", rt.Auth.Register)
			auth.Post("/firebase-login", rt.Auth.Login)
			auth.Get("/verify", rt.Auth.Verify)
		})

		// protected endpoints
		api.Route("/documents", func(docs chi.Router) {
			docs.Use(appMiddleware.JWTMiddleware(rt.Sessions, log))
			docs.Get("/search", rt.Docs.Search)
			docs.Get("/facets", rt.Docs.Facets)
			docs.Get("/history/search", rt.Docs.SearchHistory)
			docs.Get("/{id}", rt.Docs.GetDocument)
		})
	})

	if cfg.WebDir != "" {
		if static, err := newStaticHandler(cfg.WebDir); err != nil {
			log.Warn("static frontend disabled", zap.String("web_dir", cfg.WebDir), zap.Error(err))
		} else {
			r.Handle("/*", static)
		}
	}

	return r
}

func NewServer(cfg *config.Config, log *zap.Logger, handler http.Handler) *Server {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{httpServer: httpSrv, log: log}
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
