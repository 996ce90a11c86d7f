package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/pipeline"
)

// Defaults for the HTTP server.
const (
	DefaultRateLimit    = 2.0
	DefaultRateBurst    = 5
	DefaultListLimit    = 20
	MaxListLimit        = 100
	DefaultMaxBodyBytes = 5 * 1024 * 1024
	shutdownTimeout     = 10 * time.Second
)

// ReportStore is the storage the API reads from. *database.ReportDB
// implements it; the pipeline factory is expected to save reports into
// the same store.
type ReportStore interface {
	GetReport(ctx context.Context, id string) (*model.Report, error)
	ListReports(ctx context.Context, url string, limit int) ([]database.ReportMetadata, error)
}

// Server serves the analysis API.
type Server struct {
	engine          *gin.Engine
	pipelineFactory func() *pipeline.Pipeline
	store           ReportStore
	logger          *slog.Logger
	limiter         *ClientLimiter
	maxBodyBytes    int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRateLimit sets the per-client request rate of the API routes.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = NewClientLimiter(rps, burst)
	}
}

// WithMaxBodyBytes limits the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// New creates a Server. pipelineFactory builds the pipeline used for each
// analysis request.
func New(pipelineFactory func() *pipeline.Pipeline, store ReportStore, opts ...Option) (*Server, error) {
	if pipelineFactory == nil {
		return nil, ErrNoPipeline
	}
	if store == nil {
		return nil, ErrNoStore
	}

	s := &Server{
		pipelineFactory: pipelineFactory,
		store:           store,
		maxBodyBytes:    DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.limiter == nil {
		s.limiter = NewClientLimiter(DefaultRateLimit, DefaultRateBurst)
	}

	s.engine = s.newRouter()
	return s, nil
}

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(
		RequestID(),
		Logging(s.logger),
		Recovery(s.logger),
	)

	r.GET("/healthz", s.health)

	api := r.Group("/api/v1", RateLimit(s.limiter))
	api.POST("/analyze", s.analyze)
	api.GET("/reports", s.listReports)
	api.GET("/reports/:id", s.getReport)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Addr normalizes a listen address: "8080" becomes ":8080" and "" the default.
func Addr(addr string) string {
	if addr == "" {
		return ":8080"
	}
	for _, ch := range addr {
		if ch < '0' || ch > '9' {
			return addr
		}
	}
	return ":" + addr
}
