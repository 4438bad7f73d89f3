package boardserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"talentflow/internal/logging"
	"talentflow/internal/stage"
)

// Server exposes a Store over the board REST contract.
type Server struct {
	store    *Store
	registry *stage.Registry
	logger   *slog.Logger
	token    string
	origins  []string
	engine   *gin.Engine
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logging.NewComponentLogger(logger, "board-server") }
}

// WithAPIToken requires a bearer token on every route except /health.
func WithAPIToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithAllowedOrigins sets the CORS origins. "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = append([]string(nil), origins...) }
}

// NewServer builds the gin engine for store. A nil registry uses the default
// workflow.
func NewServer(store *Store, registry *stage.Registry, opts ...Option) *Server {
	if registry == nil {
		registry = stage.Default()
	}
	s := &Server{
		store:    store,
		registry: registry,
		logger:   logging.NewComponentLogger(nil, "board-server"),
		origins:  []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog())
	r.Use(cors.New(s.corsConfig()))
	r.Use(bearerAuth(s.token))

	r.GET("/health", s.handleHealth)
	r.GET("/jobs/:jobId", s.handleGetJob)
	r.GET("/jobs/:jobId/applications", s.handleListApplications)
	r.PATCH("/applications/:id/status", s.handleUpdateStatus)
	r.POST("/applications/bulk-status", s.handleBulkStatus)
	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPatch, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", RequestIDHeader}
	cfg.ExposeHeaders = []string{RequestIDHeader}
	cfg.AllowAllOrigins = len(s.origins) == 0
	for _, origin := range s.origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = s.origins
	}
	return cfg
}

// Handler returns the HTTP handler, for httptest and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on bind and serves until ctx is cancelled. The bound address is
// sent on ready once listening, when ready is non-nil.
func (s *Server) Run(ctx context.Context, bind string, ready chan<- string) error {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("board server listen: %w", err)
	}
	httpServer := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()
	s.logger.Info("board server listening", logging.String("address", listener.Addr().String()))
	if ready != nil {
		ready <- listener.Addr().String()
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("board server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("board server shutdown: %w", err)
	}
	s.logger.Info("board server stopped")
	return nil
}
