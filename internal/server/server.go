// Package server exposes the usage analytics and session data over
// a REST API.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joshpeak/claude-sessions/internal/config"
	"github.com/joshpeak/claude-sessions/internal/project"
)

// Server is the HTTP server for the analytics API.
type Server struct {
	mu       sync.RWMutex
	cfg      config.Config
	resolver *project.Resolver
	mux      *http.ServeMux
	httpSrv  *http.Server
}

// New creates a new Server. The resolver is shared across requests;
// analytics stores are built per request from the current files on
// disk.
func New(cfg config.Config, resolver *project.Resolver) *Server {
	s := &Server{
		cfg:      cfg,
		resolver: resolver,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/summary", s.usageHandler("summary"))
	s.mux.HandleFunc("GET /api/usage/daily", s.usageHandler("by_day"))
	s.mux.HandleFunc("GET /api/usage/weekly", s.usageHandler("by_week"))
	s.mux.HandleFunc("GET /api/usage/monthly", s.usageHandler("by_month"))
	s.mux.HandleFunc("GET /api/usage/hourly", s.usageHandler("by_hour"))
	s.mux.HandleFunc("GET /api/usage/sessions", s.usageHandler("sessions"))
	s.mux.HandleFunc(
		"GET /api/usage/top-projects-weekly", s.handleTopProjectsWeekly,
	)
	s.mux.HandleFunc("GET /api/projects", s.handleProjects)
	s.mux.HandleFunc(
		"GET /api/sessions/{project}/{session}", s.handleSessionEvents,
	)
}

// SetPort updates the listen port (for testing).
func (s *Server) SetPort(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Port = port
}

// Handler returns the http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(logMiddleware(s.mux))
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.mu.RLock()
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.mu.RUnlock()

	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()
	log.Printf("Starting server at http://%s", addr)
	return srv.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpSrv
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// FindAvailablePort finds an available port starting from the given
// port, binding to the specified host.
func FindAvailablePort(host string, start int) int {
	for port := start; port < start+100; port++ {
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			ln.Close()
			return port
		}
	}
	return start
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set(
				"Access-Control-Allow-Origin", "*",
			)
			w.Header().Set(
				"Access-Control-Allow-Methods",
				"GET, OPTIONS",
			)
			w.Header().Set(
				"Access-Control-Allow-Headers",
				"Content-Type",
			)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Printf("%s %s", r.Method, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}
