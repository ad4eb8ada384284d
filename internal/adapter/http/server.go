package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/weathif/internal/domain"
	"github.com/couchcryptid/weathif/internal/location"
	"github.com/couchcryptid/weathif/internal/pipeline"
	"github.com/couchcryptid/weathif/internal/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Evaluator runs scenario cycles. *pipeline.Pipeline implements it.
type Evaluator interface {
	EvaluateSession(ctx context.Context, owner pipeline.StateOwner, in pipeline.Input) (domain.Scenario, location.Snapshot, error)
	EvaluateQuery(ctx context.Context, query string, params domain.AdjustmentParameters) (domain.Scenario, error)
}

// SessionStore creates and looks up sessions. *session.Store implements it.
type SessionStore interface {
	Create() *session.Session
	Get(id string) (*session.Session, error)
}

// Deps are the collaborators behind the API routes.
type Deps struct {
	Ready     sharedobs.ReadinessChecker
	Evaluator Evaluator
	Sessions  SessionStore

	// OverlayAPIKey is the OpenWeatherMap key embedded in tile URLs. Empty
	// disables overlays.
	OverlayAPIKey string
}

// Server exposes the scenario API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /v1 API and operational routes.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 45 * time.Second, // a cold cycle waits on the geocode throttle plus two weather calls
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/parameters", s.handleParameters)
	mux.HandleFunc("GET /v1/overlays", s.handleOverlays)
	mux.HandleFunc("GET /v1/scenario", s.handleScenario)
	mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /v1/sessions/{id}/evaluate", s.handleEvaluate)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
