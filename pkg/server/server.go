package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flowforge/engine/pkg/config"
	"github.com/flowforge/engine/pkg/engine"
	"github.com/flowforge/engine/pkg/executor"
	"github.com/flowforge/engine/pkg/health"
	"github.com/flowforge/engine/pkg/logging"
	"github.com/flowforge/engine/pkg/telemetry"
	"github.com/flowforge/engine/pkg/types"
)

// Config holds server configuration.
type Config struct {
	Address            string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Address:            ":8080",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 10 * 1024 * 1024,
	}
}

// Server is the HTTP API server: POST /run executes a workflow to
// completion, GET /health reports plain liveness, and GET /health/live,
// /health/ready, /metrics carry the ambient operational surface.
type Server struct {
	config            Config
	engineConfig      *config.Config
	registry          *executor.Registry
	httpServer        *http.Server
	healthChecker     *health.Checker
	telemetryProvider *telemetry.Provider
	logger            *logging.Logger
}

// New creates a new server instance.
func New(serverConfig Config, engineConfig *config.Config) (*Server, error) {
	logger := logging.New(logging.DefaultConfig())

	telemetryProvider, err := telemetry.NewProvider(context.Background(), telemetry.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry provider: %w", err)
	}

	healthChecker := health.NewChecker("flowforge-engine", "0.1.0")
	healthChecker.RegisterCheck("engine", func(ctx context.Context) error {
		return nil
	}, 5*time.Second, true)

	s := &Server{
		config:            serverConfig,
		engineConfig:      engineConfig,
		registry:          executor.NewDefaultRegistry(),
		healthChecker:     healthChecker,
		telemetryProvider: telemetryProvider,
		logger:            logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         serverConfig.Address,
		Handler:      s.middlewareChain(mux),
		ReadTimeout:  serverConfig.ReadTimeout,
		WriteTimeout: serverConfig.WriteTimeout,
	}

	return s, nil
}

// registerRoutes wires every HTTP route the engine exposes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/live", s.healthChecker.LivenessHandler())
	mux.HandleFunc("/health/ready", s.healthChecker.ReadinessHandler())
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/run", s.handleRun)
}

// middlewareChain applies panic recovery, logging, and CORS, in that order
// from the client's perspective (recovery is the outermost wrapper).
func (s *Server) middlewareChain(handler http.Handler) http.Handler {
	handler = s.corsMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.recoveryMiddleware(handler)
	return handler
}

// handleHealth answers the plain liveness contract external callers depend
// on: always 200, always {"status":"ok"}. Deeper checks live under
// /health/live and /health/ready.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRun decodes a workflow, runs it to completion, and writes the
// resulting trace. A method other than POST (405) and a malformed request
// body are the only cases that don't get the "always 200" treatment, since
// neither reaches a runnable workflow in the first place.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeErrorResponse(w, "failed to read request body", http.StatusBadRequest, err)
		return
	}

	var req types.RunRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeErrorResponse(w, "failed to parse workflow", http.StatusBadRequest, err)
		return
	}

	started := time.Now()
	resp := engine.Run(req.Workflow, s.engineConfig, s.registry)
	duration := time.Since(started)

	s.telemetryProvider.RecordWorkflowRun(r.Context(), resp.Status, duration, len(resp.Nodes))

	s.writeJSONResponse(w, http.StatusOK, resp)
}

// writeJSONResponse writes a JSON response.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// writeErrorResponse writes a framework-level error response. Unlike
// per-node failures (which still return 200 with a trace), this path is
// for requests the engine never got a chance to run.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int, err error) {
	s.logger.WithError(err).WithField("status_code", statusCode).Error(message)

	s.writeJSONResponse(w, statusCode, map[string]interface{}{
		"error":   message,
		"details": err.Error(),
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("address", s.config.Address).Info("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}

	if err := s.telemetryProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown telemetry: %w", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// corsMiddleware allows the configured dev-server origins (§6's localhost
// :3000-:3010 range) rather than a wildcard, since the request may carry
// credentials.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && isAllowedOrigin(origin, s.engineConfig.CORSAllowedOrigins) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isAllowedOrigin(origin string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(origin, a) {
			return true
		}
	}
	return false
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(startTime)
		s.logger.WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status_code": rw.statusCode,
			"duration_ms": duration.Milliseconds(),
			"remote_addr": r.RemoteAddr,
		}).Info("http request")
	})
}

// recoveryMiddleware recovers from panics so a bad node executor can never
// take the whole server down.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.WithField("error", fmt.Sprintf("%v", err)).
					WithField("path", r.URL.Path).
					Error("panic recovered")

				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code for
// the access log.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
