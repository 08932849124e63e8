// Package http exposes the hours, registration, and export operations as a
// JSON API.
package http

import (
	"context"
	"net/http"
	"sync"

	"horario/internal/middleware/ratelimit"
	"horario/internal/middleware/trace"
	"horario/internal/services"
)

type Server struct {
	http.Server
	hours         *services.HoursService
	registrations *services.RegistrationService
	exports       *services.ExportService
	limiter       *ratelimit.Limiter
	shutdownOnce  sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, hours *services.HoursService, registrations *services.RegistrationService, exports *services.ExportService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		hours:         hours,
		registrations: registrations,
		exports:       exports,
		limiter:       ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/calendar", s.handleCalendar)
	mux.HandleFunc("GET /api/workers", s.handleWorkers)
	mux.HandleFunc("GET /api/workers/{id}/hours", s.handleMonthHours)
	mux.HandleFunc("GET /api/workers/{id}/days/{dateKey}/entries", s.handleGetDayEntries)
	mux.HandleFunc("PUT /api/workers/{id}/days/{dateKey}/entries", s.handleSaveDayEntries)
	mux.HandleFunc("POST /api/export", s.handleExport)

	traced := trace.NewMiddleware(clientIP)
	limited := s.limiter.Middleware(clientIP, nil)
	s.Server = http.Server{
		Addr:    addr,
		Handler: traced.Middleware(limited(mux)),
	}
	return s
}

// Shutdown stops the HTTP server and the limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
