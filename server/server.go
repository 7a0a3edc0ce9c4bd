// Package server implements the HTTP transport shim around the inlining
// engine: a single entry point accepting either a ZIP upload or a URL,
// returning the combined document as a file download.
package server

import (
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pagefuse/pagefuse/config"
	"github.com/pagefuse/pagefuse/inline"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Server wires the HTTP handlers to the inlining pipelines.
type Server struct {
	cfg      *config.Config
	combiner *inline.Combiner
	logger   *slog.Logger
	metrics  *metrics
}

// New creates a server around an existing combiner.
func New(cfg *config.Config, combiner *inline.Combiner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		combiner: combiner,
		logger:   logger,
		metrics:  newMetrics(),
	}
}

// Handler returns the server's HTTP handler.
//
//	GET  /         upload form
//	POST /         combine a ZIP upload or a URL
//	GET  /healthz  liveness probe
//	GET  /metrics  Prometheus metrics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleIndex(w, r)
	case http.MethodPost:
		s.handleCombine(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		s.logger.Error("render index page", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
