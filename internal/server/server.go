// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"trendlens/internal/config"
	"trendlens/internal/domain/trend"
	"trendlens/internal/metrics"
	"trendlens/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// Deps bundles the service dependencies handlers are built from.
type Deps struct {
	Searcher     trend.Searcher
	Insights     trend.InsightGenerator
	Content      trend.ContentGenerator
	Images       handlers.ImageService
	GeminiStatus handlers.GeminiStatus
	OutputsDir   string
	Logger       *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(120 * time.Second))
	router.Use(metricsMiddleware)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	trendHandler := handlers.NewTrendHandler(deps.Searcher, deps.Insights, deps.Content, deps.Logger)
	imageHandler := handlers.NewImageHandler(deps.Images, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.GeminiStatus)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health checks
		r.Get("/health", healthHandler.Health)
		r.Get("/health/gemini", healthHandler.GeminiHealth)

		// Trends API
		r.Route("/trends", func(r chi.Router) {
			r.Post("/insights", trendHandler.GenerateInsights)
			r.Post("/search", trendHandler.SearchTrends)
			r.Get("/options", trendHandler.GetOptions)
		})

		// Content API
		r.Post("/content/generate", trendHandler.GenerateContent)

		// Image API
		r.Route("/image", func(r chi.Router) {
			r.Post("/edit", imageHandler.EditImage)
			r.Post("/combine", imageHandler.CombineImages)
			r.Post("/mask-edit", imageHandler.MaskEditImage)
		})
	})

	// Prometheus metrics
	router.Handle("/metrics", promhttp.Handler())

	// Locally materialized generated images
	if deps.OutputsDir != "" {
		fs := http.StripPrefix("/outputs/", http.FileServer(http.Dir(deps.OutputsDir)))
		router.Get("/outputs/*", fs.ServeHTTP)
	}

	// Create HTTP server
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

// Handler exposes the router, used by tests to drive the full stack.
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

// metricsMiddleware records request counts and durations per route.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
