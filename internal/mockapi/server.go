package mockapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conneroisu/landing/internal/api"
	"github.com/conneroisu/landing/internal/logging"
)

// Fault makes a resource misbehave. A zero Fault serves normally.
type Fault struct {
	// Status, when non-zero, is returned instead of the records.
	Status int
	// Body, when non-empty, is written verbatim with a 200 status.
	Body string
	// Delay is waited before answering. The wait ends early if the client goes away.
	Delay time.Duration
}

// Server serves a Dataset over HTTP.
type Server struct {
	data   *Dataset
	logger logging.Logger

	mu      sync.RWMutex
	faults  map[string]Fault
	hits    map[string]int
	queries map[string][]string

	httpServer *http.Server
}

// NewServer creates a server for data.
func NewServer(data *Dataset, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Server{
		data:    data,
		logger:  logger.WithComponent("mockapi"),
		faults:  make(map[string]Fault),
		hits:    make(map[string]int),
		queries: make(map[string][]string),
	}
}

// SetFault installs a fault for resource. Passing a zero Fault clears it.
func (s *Server) SetFault(resource string, fault Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fault == (Fault{}) {
		delete(s.faults, resource)
		return
	}
	s.faults[resource] = fault
}

// Hits returns how many requests resource has received.
func (s *Server) Hits(resource string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits[resource]
}

// LastQuery returns the raw query string of the latest request for resource.
func (s *Server) LastQuery(resource string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	queries := s.queries[resource]
	if len(queries) == 0 {
		return ""
	}
	return queries[len(queries)-1]
}

// Queries returns the raw query strings of every request for resource, in
// arrival order.
func (s *Server) Queries(resource string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.queries[resource]...)
}

// Handler returns the HTTP handler serving the four resources.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/"+api.ResourcePosts, serveList(s, api.ResourcePosts, func() []api.Article { return s.data.Posts }))
	r.Get("/"+api.ResourceUsers, serveList(s, api.ResourceUsers, func() []api.User { return s.data.Users }))
	r.Get("/"+api.ResourceComments, serveList(s, api.ResourceComments, func() []api.Comment { return s.data.Comments }))
	r.Get("/"+api.ResourcePhotos, serveList(s, api.ResourcePhotos, func() []api.Photo { return s.data.Photos }))

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info(ctx, "Mock API listening", "addr", listener.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

func serveList[T any](s *Server, resource string, items func() []T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[resource]++
		s.queries[resource] = append(s.queries[resource], r.URL.RawQuery)
		fault := s.faults[resource]
		s.mu.Unlock()

		if fault.Delay > 0 {
			select {
			case <-time.After(fault.Delay):
			case <-r.Context().Done():
				return
			}
		}

		if fault.Status != 0 {
			http.Error(w, http.StatusText(fault.Status), fault.Status)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if fault.Body != "" {
			_, _ = w.Write([]byte(fault.Body))
			return
		}

		result := applyLimit(items(), r.URL.Query().Get("_limit"))
		if err := json.NewEncoder(w).Encode(result); err != nil {
			s.logger.Error(r.Context(), err, "Failed to encode response", "resource", resource)
		}
	}
}

// applyLimit follows json-server: a non-numeric limit is ignored, zero or a
// negative limit yields an empty array.
func applyLimit[T any](items []T, raw string) []T {
	if raw == "" {
		return items
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return items
	}
	if limit <= 0 {
		return []T{}
	}
	if limit > len(items) {
		limit = len(items)
	}
	return items[:limit]
}
