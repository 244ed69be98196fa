package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/conneroisu/landing/internal/landing"
	"github.com/conneroisu/landing/internal/version"
	"github.com/conneroisu/landing/internal/view"
)

// handleIndex serves the page shell and mounts the page behind it. The shell
// is rendered before mounting, so it never carries fetched data.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	locale := view.MatchLocale(s.config.Page.Locale, r.Header.Get("Accept-Language"))
	page := landing.NewPage(s.source, s.pageOptions(locale), s.logger)

	data := page.Data()
	data.LivePath = "/ws?session=" + url.QueryEscape(page.ID())

	s.sessions.add(page)
	page.Mount(s.baseCtx)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := view.Page(data).Render(r.Context(), w); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to write page", "page", page.ID())
	}
}

// handleSections loads a page, waits for it to settle and returns it as JSON.
// A page that does not settle within the render timeout is returned as it
// stands with 504.
func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.config.Server.RenderTimeout)
	defer cancel()

	locale := view.MatchLocale(s.config.Page.Locale, r.Header.Get("Accept-Language"))
	page, err := landing.Load(ctx, s.source, s.pageOptions(locale), s.logger)
	defer page.Unmount()

	status := http.StatusOK
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return
		}
		s.logger.Warn(r.Context(), err, "Sections did not settle in time", "timeout", s.config.Server.RenderTimeout)
		status = http.StatusGatewayTimeout
	}

	writeJSON(w, status, page.Report())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := version.Get()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   info.Short(),
		"sessions":  s.sessions.count(),
		"clients":   s.hub.count(),
	})
}

// staticHandler serves the configured static directory, or the embedded
// assets when none is set.
func (s *Server) staticHandler() http.Handler {
	if s.config.Server.StaticDir != "" {
		return http.FileServer(http.Dir(s.config.Server.StaticDir))
	}
	return http.FileServerFS(view.Assets())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
