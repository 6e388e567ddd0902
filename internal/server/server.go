package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/MessageStats_Go/internal/handler"
	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/metrics"
	"github.com/osse101/MessageStats_Go/internal/stats"

	// Registers the generated OpenAPI document with swag.
	_ "github.com/osse101/MessageStats_Go/docs"
)

// Config wires the HTTP server.
type Config struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	EnableSwagger  bool

	Stats    stats.Service
	Settings handler.SettingsSource
	Names    handler.Refresher
	Checks   []handler.HealthCheck
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(cfg Config) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the route tree. Reads are public; clearing and refreshing
// a group need the API key.
func NewRouter(cfg Config) http.Handler {
	tracker := NewActivityTracker(MaxRequestsPerWindow)
	ips := newClientIP(cfg.TrustedProxies)
	groups := handler.NewGroupHandler(cfg.Stats, cfg.Settings, cfg.Names)

	if cfg.APIKey == "" {
		slog.Warn(LogMsgAuthDisabled)
	}

	r := chi.NewRouter()
	r.Use(SecurityHeaders)
	r.Use(RateLimit(ips, tracker))
	r.Use(LimitBody(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(cfg.Checks...))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/groups", func(r chi.Router) {
		r.Get("/", groups.HandleListGroups)
		r.Get("/{groupID}/rank", groups.HandleGetRank)

		r.Group(func(r chi.Router) {
			r.Use(RequireAPIKey(cfg.APIKey, ips, tracker))
			r.Delete("/{groupID}", groups.HandleClearGroup)
			r.Post("/{groupID}/refresh", groups.HandleRefresh)
		})
	})

	if cfg.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}
	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slices.Contains(QuietPaths, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ctx := logger.WithNewRequestID(r.Context())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	slog.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
