// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"w3intel/internal/config"
	"w3intel/internal/domain/community"
	"w3intel/internal/domain/dashboard"
	"w3intel/internal/metrics"
	"w3intel/internal/server/handlers"
	"w3intel/internal/service/insight"
)

// Dependencies groups the services routed by the server
type Dependencies struct {
	Store      community.Store
	Dispatcher *insight.Dispatcher
	Explorer   *insight.Explorer
	Views      dashboard.Manager
	Metrics    *metrics.Collector
	Logger     logrus.FieldLogger
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, metricsCfg config.MetricsConfig, deps Dependencies) *Server {
	router := NewRouter(cfg, metricsCfg, deps)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// NewRouter builds the route tree
func NewRouter(cfg config.ServerConfig, metricsCfg config.MetricsConfig, deps Dependencies) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware)
	}

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	topicHandler := handlers.NewTopicHandler(deps.Store, deps.Explorer, logger)
	userHandler := handlers.NewUserHandler(deps.Store, deps.Explorer, logger)
	queryHandler := handlers.NewQueryHandler(deps.Dispatcher, logger)
	sessionHandler := handlers.NewSessionHandler(deps.Views, logger)

	// Routes
	router.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Topics API
			r.Route("/topics", func(r chi.Router) {
				r.Get("/", topicHandler.ListTopics)
				r.Get("/{id}", topicHandler.GetTopic)
				r.Get("/{id}/users", topicHandler.GetTopicUsers)
			})

			// Users API
			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.ListUsers)
				r.Get("/{id}", userHandler.GetUser)
				r.Get("/{id}/conversations", userHandler.GetConversations)
				r.Get("/{id}/topics", userHandler.GetTopics)
				r.Get("/{id}/engagement", userHandler.GetEngagement)
			})

			// Query API
			r.Get("/query", queryHandler.GetQuery)
			r.Post("/query", queryHandler.PostQuery)

			// View sessions API
			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", sessionHandler.CreateSession)
				r.Get("/{id}", sessionHandler.GetSession)
				r.Post("/{id}/actions", sessionHandler.ApplyAction)
			})
		})
	})

	// WebSocket endpoint for live view state
	router.Get("/ws/sessions/{id}", handlers.ViewWebSocketHandler(deps.Views, handlers.DefaultWebSocketConfig(), logger))

	if metricsCfg.Enabled && deps.Metrics != nil {
		router.Method(http.MethodGet, metricsCfg.Path, deps.Metrics.Handler())
	}

	return router
}

// requestLogger logs one line per request with logrus
func requestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"remote":     r.RemoteAddr,
			}).Info("HTTP request")
		})
	}
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
