// Package server provides the HTTP REST API for the requirement resolver.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/requirement-resolver/internal/config"
	"github.com/jonathan/requirement-resolver/internal/decision"
	"github.com/jonathan/requirement-resolver/internal/engine"
	"github.com/jonathan/requirement-resolver/internal/llm"
	"github.com/jonathan/requirement-resolver/internal/server/middleware"
	"github.com/jonathan/requirement-resolver/internal/server/ratelimit"
	"github.com/jonathan/requirement-resolver/internal/store"
	"github.com/jonathan/requirement-resolver/internal/types"
)

// Resolver runs one resolution request. Production wires the engine;
// tests script it.
type Resolver interface {
	Resolve(ctx context.Context, in engine.Input, progress engine.ProgressFunc) (*types.ResolveResult, error)
}

// RunStore persists run history. Nil disables history endpoints.
type RunStore interface {
	CreateRun(ctx context.Context, requirementCount int) (uuid.UUID, error)
	CompleteRun(ctx context.Context, runID uuid.UUID, result *types.ResolveResult) error
	GetRun(ctx context.Context, runID uuid.UUID) (*store.Run, error)
	GetResult(ctx context.Context, runID uuid.UUID) (*types.ResolveResult, error)
	ListRuns(ctx context.Context, filters store.RunFilters) ([]store.Run, error)
	Close()
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	resolver    Resolver
	runs        RunStore
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	logger      *zap.Logger
	llmClient   llm.Client
}

// Config holds server configuration.
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	ModelTier   llm.ModelTier
	Logger      *zap.Logger
}

// New creates a server wired to the real generation client and, when a
// database URL is configured, the run-history store. GEMINI_MODEL overrides
// the model used for the configured tier.
func New(cfg Config) (*Server, error) {
	tier := cfg.ModelTier
	if tier == "" {
		tier = llm.TierAdvanced
	}

	llmConfig := llm.DefaultConfig()
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		llmConfig = llmConfig.WithModel(tier, model)
	}

	client, err := llm.NewClient(context.Background(), llmConfig, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	decider := decision.NewDecider(client, tier, log)
	resolver := engine.New(decider, log)

	var runs RunStore
	if cfg.DatabaseURL != "" {
		st, err := store.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		runs = st
	}

	s := NewWithDeps(resolver, runs, log)
	s.llmClient = client
	s.httpServer.Addr = fmt.Sprintf(":%d", cfg.Port)
	return s, nil
}

// NewWithDeps creates a server around explicit collaborators. The JWT
// service is enabled only when JWT_SECRET is present in the environment.
func NewWithDeps(resolver Resolver, runs RunStore, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		resolver:    resolver,
		runs:        runs,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		logger:      log,
	}

	if jwtConfig, err := config.NewJWTConfig(); err == nil {
		s.jwtService = NewJWTService(jwtConfig)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /resolve", s.withAuth(http.HandlerFunc(s.handleResolve)))
	mux.Handle("POST /resolve/stream", s.withAuth(http.HandlerFunc(s.handleResolveStream)))
	mux.Handle("GET /runs", s.withAuth(http.HandlerFunc(s.handleListRuns)))
	mux.Handle("GET /runs/{id}", s.withAuth(http.HandlerFunc(s.handleGetRun)))
	mux.Handle("GET /runs/{id}/result", s.withAuth(http.HandlerFunc(s.handleGetRunResult)))
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         ":8080",
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for full resolution runs
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.runs != nil {
		s.runs.Close()
	}
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			s.logger.Warn("failed to close generation client", zap.Error(err))
		}
	}
	s.logger.Info("server stopped")
	return nil
}

// Handler exposes the configured handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withAuth requires a valid bearer token when a JWT service is configured.
func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.jwtService == nil {
		return next
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(next)
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Int("remaining", info.Remaining))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
