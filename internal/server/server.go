// Package server exposes version channel reports as a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/minescope/bedrockver/pkg/bedrock"
	"github.com/minescope/bedrockver/pkg/buildinfo"
	apperrors "github.com/minescope/bedrockver/pkg/errors"
)

const (
	// shutdownTimeout bounds how long in-flight requests may keep running
	// after the server is asked to stop.
	shutdownTimeout = 10 * time.Second

	// readHeaderTimeout bounds how long a client may take to send its
	// request headers.
	readHeaderTimeout = 5 * time.Second
)

// VersionSource produces the report for a release channel.
// *bedrock.Client implements it.
type VersionSource interface {
	Report(ctx context.Context, preview bool) (*bedrock.Report, error)
}

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Source produces the channel reports served by the API.
	Source VersionSource

	// Logger receives request logs. Nil means log.Default().
	Logger *log.Logger
}

// Server serves version channel reports over HTTP.
type Server struct {
	addr   string
	source VersionSource
	logger *log.Logger
}

// New creates a Server from cfg.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		addr:   cfg.Addr,
		source: cfg.Source,
		logger: logger,
	}
}

// Handler returns the routing table for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID, s.recoverPanics, s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/versions/{channel}", s.handleReport)
		r.Get("/versions/{channel}/latest", s.handleLatest)
	})

	return r
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. On cancellation it drains in-flight requests for up to
// shutdownTimeout before returning.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	s.logger.Info("server started", "addr", s.addr)

	select {
	case err := <-errChan:
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "server failed")
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "shutdown failed")
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

// handleReport returns the full report for a channel.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	preview, err := channelParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.source.Report(r.Context(), preview)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, report)
}

// handleLatest returns only the latest version for a channel.
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	preview, err := channelParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.source.Report(r.Context(), preview)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, latestResponse{
		Latest:  report.Latest,
		Preview: preview,
	})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
	})
}

// channelParam resolves the {channel} path parameter to a preview flag.
func channelParam(r *http.Request) (preview bool, err error) {
	channel := chi.URLParam(r, "channel")
	if err := apperrors.ValidateChannel(channel); err != nil {
		return false, err
	}
	return channel == apperrors.ChannelPreview, nil
}

// =============================================================================
// Responses
// =============================================================================

// latestResponse is the body of the {channel}/latest endpoint.
type latestResponse struct {
	Latest  string `json:"latest"`
	Preview bool   `json:"preview"`
}

// healthResponse is the body of the healthz endpoint.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON writes v with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "path", r.URL.Path, "err", err)
	}
}

// writeError maps err onto an HTTP status and writes the error envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}

	s.writeJSON(w, r, status, errorResponse{
		Error:     apperrors.UserMessage(err),
		Code:      string(code),
		RequestID: RequestID(r.Context()),
	})
}

// statusFor maps application error codes onto HTTP status codes.
func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidChannel, apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeNetwork, apperrors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
