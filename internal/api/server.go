// Package api serves the standardiser and the CMS endpoints over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ethnicityfacts/app"
	"ethnicityfacts/internal"
	"ethnicityfacts/internal/metrics"
)

// Server wires the services into a chi router
type Server struct {
	router      *chi.Mux
	standardise *app.StandardiseService
	measures    *app.MeasureService
	redirects   *app.RedirectService
	metrics     *metrics.Metrics
	maxUpload   int64
	logger      *internal.Logger
}

// Config holds the dependencies of the HTTP layer. Measures and Redirects
// may be nil when no database is configured.
type Config struct {
	Standardise *app.StandardiseService
	Measures    *app.MeasureService
	Redirects   *app.RedirectService
	Metrics     *metrics.Metrics
	MaxUploadMB int
}

// NewServer builds the router
func NewServer(cfg Config) *Server {
	maxUpload := int64(cfg.MaxUploadMB) << 20
	if maxUpload <= 0 {
		maxUpload = 20 << 20
	}

	s := &Server{
		router:      chi.NewRouter(),
		standardise: cfg.Standardise,
		measures:    cfg.Measures,
		redirects:   cfg.Redirects,
		metrics:     cfg.Metrics,
		maxUpload:   maxUpload,
		logger:      internal.DefaultLogger.WithPrefix("API"),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP lets the server be used directly as a handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	if s.redirects != nil {
		s.router.Use(Redirects(s.redirects))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/lookups", s.handleListLookups)
		r.Post("/standardise", s.handleStandardise)
		r.Get("/standardise/files/*", s.handleDownloadStored)
		r.Delete("/standardise/files/*", s.handleDeleteStored)

		if s.measures != nil {
			r.Get("/topics", s.handleListTopics)
			r.Post("/topics", s.handleCreateTopic)
			r.Post("/topics/{topicID}/subtopics", s.handleCreateSubtopic)
			r.Post("/subtopics/{subtopicID}/measures", s.handleCreateMeasure)
			r.Get("/measures/{measureID}/versions", s.handleListVersions)
			r.Get("/measure-versions/{id}", s.handleGetVersion)
			r.Get("/measure-versions/{id}/rendered", s.handleRenderVersion)
			r.Post("/measure-versions/{id}/transitions", s.handleTransition)
			r.Post("/measure-versions/{id}/versions", s.handleCreateVersion)
		}

		if s.redirects != nil {
			r.Get("/redirects", s.handleListRedirects)
			r.Post("/redirects", s.handleCreateRedirect)
			r.Delete("/redirects/*", s.handleDeleteRedirect)
		}
	})
}

// ListenAndServe runs the server until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"lookups": s.standardise.Lookups(),
	})
}
