// Package server provides the HTTP API of the logo studio. Extraction runs
// server-side: the model-backed endpoints return a BrandProfile or a LogoSet
// document, never the raw model reply.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/logo-studio/internal/server/ratelimit"
	"github.com/jonathan/logo-studio/internal/types"
)

// Request body limits
const (
	maxJSONBodyBytes   = 1 << 20
	maxUploadBodyBytes = 5 << 20
)

// Stages runs the two model-backed stages
type Stages interface {
	ExtractProfile(ctx context.Context, transcript string) (*types.BrandProfile, error)
	GenerateLogos(ctx context.Context, profile *types.BrandProfile) (*types.LogoSet, error)
}

// Config holds server configuration
type Config struct {
	Port           int
	StaticDir      string        // served at / when set
	RequestTimeout time.Duration // bound on one model-backed request; 0 means none
	RateLimit      *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	stages      Stages
	logger      *zap.Logger
	validate    *validator.Validate
	rateLimiter *ratelimit.Limiter
	timeout     time.Duration
}

// New creates a new server instance
func New(cfg Config, stages Stages, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		stages:      stages,
		logger:      logger,
		validate:    validator.New(),
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		timeout:     cfg.RequestTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/extract", s.handleExtract)
	mux.HandleFunc("POST /api/generate-logos", s.handleGenerateLogos)
	mux.HandleFunc("POST /api/run/stream", s.handleRunStream)
	mux.HandleFunc("POST /api/transcripts", s.handleUploadTranscript)
	mux.HandleFunc("POST /api/profile/edit", s.handleEditProfile)
	mux.HandleFunc("POST /api/logos/package", s.handlePackageLogo)
	if cfg.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	// rejected requests still get CORS headers, a request id and an access log line
	s.handler = s.withLogging(s.withCORS(s.withRateLimit(mux)))

	writeTimeout := 5 * time.Minute
	if cfg.RequestTimeout > 0 {
		writeTimeout = cfg.RequestTimeout + 30*time.Second
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// stageContext bounds a model-backed request by the configured timeout
func (s *Server) stageContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(r.Context(), s.timeout)
	}
	return context.WithCancel(r.Context())
}
