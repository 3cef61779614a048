// Package server is the HTTP shell around wordcloud sessions.
//
// Each session lives under a UUID and is persisted through the configured
// session store, so any instance sharing a Redis or Mongo store can serve
// it. Layouts and artifacts go through the shared pipeline runner and its
// cache.
//
//	POST   /api/sessions
//	GET    /api/sessions/{id}
//	DELETE /api/sessions/{id}
//	PUT    /api/sessions/{id}/config
//	PUT    /api/sessions/{id}/entries
//	POST   /api/sessions/{id}/import
//	POST   /api/sessions/{id}/names
//	POST   /api/sessions/{id}/reseed
//	POST   /api/sessions/{id}/entries/{label}/hidden
//	POST   /api/sessions/{id}/entries/{label}/highlight
//	GET    /api/sessions/{id}/layout
//	GET    /api/sessions/{id}/preview.svg
//	GET    /api/sessions/{id}/preview.png
//	GET    /api/sessions/{id}/export.pdf
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/schedule"
	"github.com/matzehuels/wordcloud/pkg/session"
)

// maxBodyBytes bounds request bodies; a class list is a few kilobytes.
const maxBodyBytes = 1 << 20

// DefaultMaxSessions bounds how many sessions a server keeps open. The
// least recently used one is closed first; its state is already in the
// store and is reloaded on the next request.
const DefaultMaxSessions = 1024

// Server routes HTTP requests to sessions.
type Server struct {
	store   session.Store
	runner  *pipeline.Runner
	opts    pipeline.Options
	logger  *log.Logger
	wait    time.Duration
	maxWait time.Duration
	maxOpen int
	sessOpt []session.Option

	mu       sync.Mutex
	sessions *lru.Cache[string, *session.Session]

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithPipelineOptions sets the canvas and document options of every session.
func WithPipelineOptions(opts pipeline.Options) Option { return func(s *Server) { s.opts = opts } }

// WithDebounce sets how long a session waits after a mutation before it
// recomputes its layout in the background.
func WithDebounce(d time.Duration) Option { return func(s *Server) { s.wait = d } }

// WithMaxWait bounds how long continuous edits can postpone a layout.
func WithMaxWait(d time.Duration) Option { return func(s *Server) { s.maxWait = d } }

// WithMaxSessions sets how many sessions stay open at once.
func WithMaxSessions(n int) Option { return func(s *Server) { s.maxOpen = n } }

// WithSessionOptions passes extra options to every opened session.
func WithSessionOptions(opts ...session.Option) Option {
	return func(s *Server) { s.sessOpt = append(s.sessOpt, opts...) }
}

// New creates a server over store. A nil runner gets an uncached one.
func New(store session.Store, runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		store:   store,
		runner:  runner,
		wait:    schedule.DefaultWait,
		maxOpen: DefaultMaxSessions,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxOpen <= 0 {
		s.maxOpen = DefaultMaxSessions
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	// NewWithEvict only fails for a non-positive size.
	s.sessions, _ = lru.NewWithEvict(s.maxOpen, func(id string, sess *session.Session) {
		sess.Close()
		s.logger.Debug("closed session", "id", id)
	})
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Post("/sessions", s.handleCreate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Put("/config", s.handleSetConfig)
			r.Put("/entries", s.handleSetEntries)
			r.Post("/import", s.handleImport)
			r.Post("/names", s.handleAddNames)
			r.Post("/reseed", s.handleReseed)
			r.Post("/entries/{label}/hidden", s.handleToggleHidden)
			r.Post("/entries/{label}/highlight", s.handleToggleHighlight)
			r.Get("/layout", s.handleLayout)
			r.Get("/preview.svg", s.handlePreview(pipeline.FormatSVG, "image/svg+xml"))
			r.Get("/preview.png", s.handlePreview(pipeline.FormatPNG, "image/png"))
			r.Get("/export.pdf", s.handleExport)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// create opens a fresh session under a new UUID and persists it.
func (s *Server) create(ctx context.Context) (string, *session.Session, error) {
	id := uuid.NewString()
	sess, err := s.open(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if err := sess.Flush(); err != nil {
		s.drop(id)
		return "", nil, err
	}
	return id, sess, nil
}

// lookup returns the open session for id, loading it from the store if
// another instance created it.
func (s *Server) lookup(ctx context.Context, id string) (*session.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid session id: %q", id)
	}
	if sess, ok := s.sessions.Get(id); ok {
		return sess, nil
	}

	_, found, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New(errors.ErrCodeNotFound, "session %s not found", id)
	}
	return s.open(ctx, id)
}

func (s *Server) open(ctx context.Context, id string) (*session.Session, error) {
	opts := []session.Option{
		session.WithLogger(s.logger.WithPrefix(id[:8])),
		session.WithPipelineOptions(s.opts),
		session.WithDebouncer(schedule.Factory(s.wait, s.maxWait)),
	}
	if s.opts.Seed != 0 {
		opts = append(opts, session.WithSeed(s.opts.Seed))
	}
	sess, err := session.New(ctx, id, s.store, s.runner, append(opts, s.sessOpt...)...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions.Get(id); ok {
		sess.Close()
		return existing, nil
	}
	s.sessions.Add(id, sess)
	return sess, nil
}

// drop closes the session and forgets it.
func (s *Server) drop(id string) { s.sessions.Remove(id) }

// OpenSessions returns how many sessions are held in memory.
func (s *Server) OpenSessions() int { return s.sessions.Len() }

// Close stops pending layout passes of every open session.
func (s *Server) Close() error {
	s.sessions.Purge()
	return nil
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}
