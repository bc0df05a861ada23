// Package server exposes the converter over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-kiwimark"
	"github.com/alnah/go-kiwimark/internal/assets"
)

// DefaultMaxBodyBytes bounds request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 4 << 20

// Options holds the conversion defaults applied to every request.
// Query parameters override OrgMode and EscapeHTML per request.
type Options struct {
	OrgMode      kiwimark.OrgMode
	EscapeHTML   bool
	Normalize    bool
	MaxBodyBytes int64
	Version      string

	// Styles resolves the style query parameter; nil serves built-in styles.
	Styles assets.StyleLoader
}

// Server is the HTTP API server for kiwimark.
type Server struct {
	router chi.Router
	log    *slog.Logger
	opts   Options

	// One converter per escaping mode; both are safe for concurrent use.
	escaped *kiwimark.Converter
	raw     *kiwimark.Converter
}

// New creates and configures the HTTP server.
func New(log *slog.Logger, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Styles == nil {
		opts.Styles = assets.NewEmbeddedLoader()
	}

	common := []kiwimark.Option{
		kiwimark.WithOrgMode(opts.OrgMode),
		kiwimark.WithNormalization(opts.Normalize),
	}

	s := &Server{
		log:     log,
		opts:    opts,
		escaped: kiwimark.NewConverter(append(common, kiwimark.WithEscapeHTML(true))...),
		raw:     kiwimark.NewConverter(append(common, kiwimark.WithEscapeHTML(false))...),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)
		r.Get("/version", s.handleVersion)
		r.Get("/styles", s.handleStyles)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.opts.Version})
}
