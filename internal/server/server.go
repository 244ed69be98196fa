// Package server serves the landing page over HTTP.
//
// GET / answers with the page shell, every section still loading, and mounts
// the page's view-models in the background. The browser then opens the live
// channel at /ws and receives each section's HTML as it settles. The same data
// is available as JSON from /api/sections.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"github.com/conneroisu/landing/internal/config"
	"github.com/conneroisu/landing/internal/landing"
	"github.com/conneroisu/landing/internal/logging"
	"github.com/conneroisu/landing/internal/section"
	"github.com/conneroisu/landing/internal/watcher"
)

const (
	shutdownTimeout = 30 * time.Second
	reloadDebounce  = 300 * time.Millisecond
)

// Server serves landing pages with live section updates.
type Server struct {
	config   *config.Config
	source   section.Source
	logger   logging.Logger
	sessions *sessionStore
	hub      *hub

	// baseCtx outlives requests. Pages are mounted on it so their fetches
	// keep running after GET / has answered.
	baseCtx    context.Context
	baseCancel context.CancelFunc

	serverMutex  sync.RWMutex
	httpServer   *http.Server
	watcher      *watcher.FileWatcher
	shutdownOnce sync.Once
}

// New creates a server that reads page data from source.
func New(cfg *config.Config, source section.Source, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	baseCtx, baseCancel := context.WithCancel(context.Background())

	return &Server{
		config:     cfg,
		source:     source,
		logger:     logger.WithComponent("server"),
		sessions:   newSessionStore(cfg.Server.SessionTTL),
		hub:        newHub(),
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}
}

// Handler returns the router with every route and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/api/sections", s.handleSections)
	r.Get("/health", s.handleHealth)
	r.Handle("/static/*", http.StripPrefix("/static/", s.staticHandler()))

	return r
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug(r.Context(), "HTTP request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// Start listens on the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Server.Addr(), err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.config.Server.StaticDir != "" {
		if err := s.watchStatic(ctx); err != nil {
			listener.Close()
			return err
		}
	}

	go s.sweepSessions(ctx)

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "Landing page server listening",
		"addr", listener.Addr().String(),
		"api", s.config.API.BaseURL,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		s.Shutdown(context.Background())
		return fmt.Errorf("server error: %w", err)
	}
}

// Shutdown closes live connections, unmounts every page and drains the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server", "sessions", s.sessions.count())

		s.baseCancel()
		s.hub.closeAll()
		s.sessions.closeAll()

		s.serverMutex.RLock()
		fw := s.watcher
		srv := s.httpServer
		s.serverMutex.RUnlock()

		if fw != nil {
			if err := fw.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Failed to stop file watcher")
			}
		}

		if srv != nil {
			shutdownErr = srv.Shutdown(ctx)
		}
	})

	return shutdownErr
}

// Sessions returns the number of pages that are still mounted.
func (s *Server) Sessions() int {
	return s.sessions.count()
}

func (s *Server) sweepSessions(ctx context.Context) {
	interval := s.config.Server.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.sweep(); n > 0 {
				s.logger.Debug(ctx, "Unmounted unclaimed pages", "count", n)
			}
		}
	}
}

// watchStatic reloads live pages whenever a file under the static directory
// changes.
func (s *Server) watchStatic(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(reloadDebounce, s.logger)
	if err != nil {
		return err
	}

	fw.AddFilter(watcher.StaticAssetFilter)
	fw.AddFilter(watcher.NoTempFilter)
	fw.AddFilter(watcher.NoGitFilter)
	fw.AddHandler(s.handleStaticChange)

	if err := fw.AddRecursive(s.config.Server.StaticDir); err != nil {
		fw.Stop()
		return fmt.Errorf("watching static directory: %w", err)
	}
	if err := fw.Start(ctx); err != nil {
		fw.Stop()
		return err
	}

	s.serverMutex.Lock()
	s.watcher = fw
	s.serverMutex.Unlock()
	return nil
}

func (s *Server) handleStaticChange(ctx context.Context, events []watcher.ChangeEvent) error {
	n := s.hub.broadcastReload(ctx)
	s.logger.Info(ctx, "Static assets changed, reloading pages", "files", len(events), "clients", n)
	return nil
}

func (s *Server) pageOptions(locale language.Tag) landing.Options {
	return landing.Options{
		ArticlesLimit:     s.config.Sections.ArticlesLimit,
		UsersLimit:        s.config.Sections.UsersLimit,
		StatsLimits:       s.config.Sections.StatsLimits(),
		StatsReportErrors: s.config.Sections.StatsReportErrors,
		Locale:            locale,
	}
}
