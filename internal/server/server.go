package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ultraselfai/game-provider-sub000/internal/database"
	"github.com/ultraselfai/game-provider-sub000/internal/game"
	"github.com/ultraselfai/game-provider-sub000/internal/handler"
	"github.com/ultraselfai/game-provider-sub000/internal/logger"
	"github.com/ultraselfai/game-provider-sub000/internal/metrics"
	"github.com/ultraselfai/game-provider-sub000/internal/pool"
	"github.com/ultraselfai/game-provider-sub000/internal/spin"
)

type Server struct {
	httpServer  *http.Server
	dbPool      database.Pool
	spinService spin.Service
	poolService pool.Service
	registry    game.Registry
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey, serviceName, version string, dbPool database.Pool, spinService spin.Service, poolService pool.Service, registry game.Registry) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion(serviceName, version))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", handler.HandleListGames(registry))

		spinHandler := handler.NewSpinHandler(spinService)
		r.Route("/spin", func(r chi.Router) {
			r.Post("/", spinHandler.HandlePlay)
			r.Get("/replay/{roundID}", spinHandler.HandleReplay)
		})

		poolHandler := handler.NewPoolHandler(poolService)
		r.Route("/pool/{agentID}", func(r chi.Router) {
			r.Get("/", poolHandler.HandleSnapshot)
			r.Post("/limits", poolHandler.HandleCheckLimits)
			r.Post("/deposit", poolHandler.HandleDeposit)
			r.Post("/withdraw", poolHandler.HandleWithdraw)
			r.Post("/phase", poolHandler.HandleSetPhase)
			r.Get("/ledger", poolHandler.HandleLedger)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		dbPool:      dbPool,
		spinService: spinService,
		poolService: poolService,
		registry:    registry,
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
