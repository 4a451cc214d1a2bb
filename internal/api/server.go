package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"volwatch/internal/config"
	"volwatch/internal/errors"
	"volwatch/internal/logging"
	"volwatch/internal/models"
	"volwatch/internal/tracking"
)

// Server serves the tracker state over HTTP.
type Server struct {
	service *tracking.Service
	logger  zerolog.Logger
	http    *http.Server
}

// NewServer creates a new API server around a tracking service.
func NewServer(cfg config.ServerConfig, service *tracking.Service, logger zerolog.Logger) *Server {
	s := &Server{
		service: service,
		logger:  logging.WithComponent(logger, "api"),
	}

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(loggingMiddleware(s.logger))

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/snapshot/refresh", s.handleRefresh).Methods(http.MethodPost, http.MethodOptions)
	v1.HandleFunc("/comparison", s.handleComparison).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/references", s.handleReferences).Methods(http.MethodGet, http.MethodOptions)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the configured HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.CurrentSnapshot()
	if err != nil {
		SendError(w, statusFor(err), err.Error())
		return
	}
	SendSuccess(w, snapshot)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.Refresh(r.Context())
	if err != nil {
		SendError(w, statusFor(err), err.Error())
		return
	}
	SendSuccess(w, snapshot)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	comparison, err := s.service.Compare(r.Context())
	if err != nil {
		SendError(w, statusFor(err), err.Error())
		return
	}

	// Fold the day's latest figures into history; same-date writes
	// overwrite, so serving many comparisons per day is harmless.
	if err := s.service.RecordToday(comparison); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record comparison")
	}

	SendSuccess(w, comparison)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	SendSuccess(w, map[string]interface{}{
		"stats":   s.service.HistoricalStats(),
		"records": s.service.History(),
	})
}

func (s *Server) handleReferences(w http.ResponseWriter, r *http.Request) {
	weekly, monthly := s.service.References()
	SendSuccess(w, map[string]*models.ReferenceSnapshot{
		"weekly":  weekly,
		"monthly": monthly,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := s.service.CurrentSnapshot()
	SendSuccess(w, map[string]bool{
		"alive": true,
		"ready": err == nil,
	})
}

// statusFor maps the error taxonomy onto HTTP statuses: "not yet
// initialized" is 503, upstream and build failures are 502, a missing
// contract for a target expiry is 404.
func statusFor(err error) int {
	var buildErr *errors.BuildError
	switch {
	case errors.Is(err, errors.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, errors.ErrNoContract):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.As(err, &buildErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
