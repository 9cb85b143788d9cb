// Package api serves Muse Scores over HTTP as JSON.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"musescore/internal/dataset"
	"musescore/internal/geo"
	"musescore/internal/logging"
	"musescore/internal/metrics"
	"musescore/internal/scoring"
)

// Options configure the router.
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// Server holds the dependencies shared by every handler.
type Server struct {
	store      *dataset.Store
	scorer     *scoring.Scorer
	boundaries *geo.Boundaries
	metrics    *metrics.Metrics
	logger     logging.Logger
}

// NewServer wires a server. boundaries may be nil, which disables /locate.
func NewServer(store *dataset.Store, scorer *scoring.Scorer, boundaries *geo.Boundaries, m *metrics.Metrics, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Server{
		store:      store,
		scorer:     scorer,
		boundaries: boundaries,
		metrics:    m,
		logger:     logger.Named("api"),
	}
}

// Router builds the HTTP handler.
func (s *Server) Router(opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/areas/{zip}/score", s.handleScore)
		r.Get("/areas/{zip}/nearby", s.handleNearby)
		r.Get("/scores", s.handleScores)
		r.Get("/regions", s.handleRegions)
		r.Get("/regions/chart.png", s.handleRegionChart)
		r.Get("/outliers", s.handleOutliers)
		r.Get("/locate", s.handleLocate)
	})

	return r
}

// requestLogger logs each request and counts it by route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		s.metrics.ObserveRequest(route, status)
		s.logger.Debug("http request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Duration("elapsed", time.Since(start)),
			logging.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
