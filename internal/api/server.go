// Package api serves the census dashboard: the HTML page, rendered charts
// and their JSON specifications.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/census.report/internal/census"
	"github.com/banshee-data/census.report/internal/charts"
	"github.com/banshee-data/census.report/internal/config"
	"github.com/banshee-data/census.report/internal/db"
	"github.com/banshee-data/census.report/internal/monitoring"
)

// ANSI escape codes for request logs
const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

// RequestIDHeader carries the per-request ID assigned by LoggingMiddleware.
const RequestIDHeader = "X-Request-ID"

// SnapshotReporter describes the optional sqlite snapshot.
type SnapshotReporter interface {
	Stats(ctx context.Context) (db.SnapshotStats, error)
}

type Server struct {
	ds       *census.Dataset
	cfg      *config.DashboardConfig
	snapshot SnapshotReporter
}

// NewServer returns a dashboard server over ds. A nil cfg uses defaults.
func NewServer(ds *census.Dataset, cfg *config.DashboardConfig) *Server {
	if cfg == nil {
		cfg = config.EmptyDashboardConfig()
	}
	return &Server{ds: ds, cfg: cfg}
}

// SetSnapshot reports snapshot statistics on /health.
func (s *Server) SetSnapshot(r SnapshotReporter) {
	s.snapshot = r
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.showDashboard)
	mux.HandleFunc("GET /charts/{chart}", s.renderChart)
	mux.HandleFunc("GET /api/charts/{chart}", s.showChartSpec)
	mux.HandleFunc("GET /api/options", s.showOptions)
	mux.HandleFunc("GET /health", s.showHealth)
	return mux
}

func (s *Server) htmlOptions() charts.HTMLOptions {
	return charts.HTMLOptions{AssetsHost: s.cfg.GetAssetsHost()}
}

func (s *Server) pngSize() (vg.Length, vg.Length) {
	return vg.Length(s.cfg.GetPNGWidthInches()) * vg.Inch, vg.Length(s.cfg.GetPNGHeightInches()) * vg.Inch
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware tags each request with an ID and logs method, path,
// status and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms id=%s",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6, id,
		)
	})
}
