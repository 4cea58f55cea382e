// Package httpserver provides the HTTP REST API server for the publication service.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ciadlab/publication-service/internal/database"
	"github.com/ciadlab/publication-service/internal/observability"
	"github.com/ciadlab/publication-service/internal/repository"
	"github.com/ciadlab/publication-service/internal/similarity"
)

// Server is the HTTP REST API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	pubRepo    repository.PublicationRepository
	classifier *similarity.Classifier
	db         *database.DB
	logger     zerolog.Logger
	metrics    *observability.Metrics
	validate   *validator.Validate
	limiter    *RateLimiter

	candidateLimit int
	metricsPath    string
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// CandidateLimit caps the number of stored publications fetched by the
	// coarse title pre-filter per duplicate check.
	CandidateLimit int

	// MetricsPath exposes the Prometheus endpoint when non-empty.
	MetricsPath string

	// RateLimitRPS and RateLimitBurst configure the token bucket applied to
	// the check route. A non-positive RPS disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewServer creates a new HTTP server with all dependencies. db may be nil
// in tests; creation then runs against pubRepo without a transaction.
func NewServer(
	cfg Config,
	pubRepo repository.PublicationRepository,
	classifier *similarity.Classifier,
	db *database.DB,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		pubRepo:        pubRepo,
		classifier:     classifier,
		db:             db,
		logger:         logger.With().Str("component", "http-server").Logger(),
		metrics:        metrics,
		validate:       validator.New(),
		candidateLimit: cfg.CandidateLimit,
		metricsPath:    cfg.MetricsPath,
	}

	if cfg.RateLimitRPS > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(s.requestLoggingMiddleware)
	r.Use(jsonContentTypeMiddleware)

	// Health endpoints
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	if s.metricsPath != "" {
		r.Handle(s.metricsPath, promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(s.rateLimitMiddleware).Post("/publications/check", s.checkPublication)
		r.Get("/similarity", s.computeSimilarity)

		r.Post("/publications", s.createPublication)
		r.Get("/publications", s.listPublications)
		r.Get("/publications/{publicationID}", s.getPublication)
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// inSerializableTx runs fn against a repository bound to a serializable
// transaction, so a concurrent creation of the same publication cannot slip
// between the duplicate check and the insert. Without a pool (tests) fn runs
// directly against the injected repository.
func (s *Server) inSerializableTx(ctx context.Context, fn func(repo repository.PublicationRepository) error) error {
	if s.db == nil {
		return fn(s.pubRepo)
	}
	return s.db.WithSerializableTransaction(ctx, func(tx pgx.Tx) error {
		return fn(repository.NewPgPublicationRepository(tx))
	})
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	health := s.db.Health(r.Context())
	if health.Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": health.Status})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status":   "unhealthy",
		"database": health.Status,
		"error":    health.Error,
	})
}

// readinessHandler returns readiness status including database connectivity.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	health := s.db.Health(r.Context())
	if health.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": health.Status,
			"error":    health.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "healthy",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort log; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
