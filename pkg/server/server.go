// Package server exposes the generator, sessions, preview and export over
// HTTP.
//
// Routes:
//
//	POST /api/generate-slides               new deck, optionally in an existing session
//	POST /api/update-slides                 edit the deck of a session
//	GET  /api/sessions/{id}                 the session with its messages and deck
//	GET  /api/sessions/{id}/preview         the navigator frame for the current slide
//	GET  /api/sessions/{id}/slides/{i}.svg  one slide rendered for the screen
//	POST /api/sessions/{id}/export          pptx, pdf, json, md or html download
//	GET  /api/sessions/{id}/ws              websocket for slide selection sync
//	GET  /healthz
//
// Errors are JSON objects of the form {"error": "..."}.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/slidecraft/pkg/errors"
	"github.com/matzehuels/slidecraft/pkg/export"
	"github.com/matzehuels/slidecraft/pkg/generator"
	"github.com/matzehuels/slidecraft/pkg/pipeline"
	"github.com/matzehuels/slidecraft/pkg/session"
)

// Server holds the services behind the HTTP API. Build one with [New].
type Server struct {
	Sessions  *session.Manager
	Generator generator.Generator
	Exporter  *export.Exporter
	Runner    *pipeline.Runner
	Logger    *log.Logger

	hub *Hub
}

// Option configures a [Server].
type Option func(*Server)

func WithSessions(m *session.Manager) Option    { return func(s *Server) { s.Sessions = m } }
func WithGenerator(g generator.Generator) Option { return func(s *Server) { s.Generator = g } }
func WithExporter(e *export.Exporter) Option     { return func(s *Server) { s.Exporter = e } }
func WithRunner(r *pipeline.Runner) Option       { return func(s *Server) { s.Runner = r } }
func WithLogger(l *log.Logger) Option            { return func(s *Server) { s.Logger = l } }

// New builds a server. Unset services default to in-memory sessions, the
// offline generator, the PPTX exporter and an uncached render pipeline.
func New(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = log.New(io.Discard)
	}
	if s.Sessions == nil {
		s.Sessions = session.NewManager(session.NewMemoryStore(), session.DefaultTTL)
	}
	if s.Generator == nil {
		s.Generator = generator.NewResilient(nil, nil, s.Logger)
	}
	if s.Exporter == nil {
		s.Exporter = export.New(export.WithLogger(s.Logger))
	}
	if s.Runner == nil {
		s.Runner = pipeline.NewRunner(nil, nil, s.Logger)
	}
	s.hub = NewHub(s.Logger)
	return s
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-slides", s.handleGenerate)
		r.Post("/update-slides", s.handleUpdate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(s.checkSessionID)
			r.Get("/", s.handleSession)
			r.Get("/preview", s.handlePreview)
			r.Get("/slides/{index}.svg", s.handleSlide)
			r.Post("/export", s.handleExport)
			r.Get("/ws", s.handleWS)
		})
	})
	return r
}

// checkSessionID rejects ids that no store could have issued before any
// handler touches them.
func (s *Server) checkSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := errors.ValidateSessionID(chi.URLParam(r, "id")); err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down with a
// five second grace period. ready, when non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
