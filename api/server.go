/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. httplog:    Structured request logging via slog
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/users/*    User management
  /api/shifts/*   Shift scheduling, conflicts, clock-in/out
  /api/leave/*    Leave request workflow
  /api/swaps/*    Swap request workflow
  /api/roster     Grouped roster view
  /api/reports/*  Weekly reporting
  /api/audit      Audit trail queries

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
		})

		// Shift routes
		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", h.CreateShift)
			r.Get("/{id}", h.GetShift)
			r.Get("/{id}/conflicts", h.GetShiftConflicts)
			r.Post("/{id}/clock-in", h.ClockIn)
			r.Post("/{id}/clock-out", h.ClockOut)
		})

		// Leave request routes
		r.Route("/leave", func(r chi.Router) {
			r.Post("/", h.SubmitLeave)
			r.Get("/{id}", h.GetLeave)
			r.Post("/{id}/approve", h.ApproveLeave)
			r.Post("/{id}/reject", h.RejectLeave)
		})

		// Swap request routes
		r.Route("/swaps", func(r chi.Router) {
			r.Get("/", h.ListSwaps)
			r.Post("/", h.SubmitSwap)
			r.Get("/{id}", h.GetSwap)
			r.Get("/{id}/conflicts", h.GetSwapConflicts)
			r.Post("/{id}/approve", h.ApproveSwap)
			r.Post("/{id}/reject", h.RejectSwap)
		})

		// Roster and report routes
		r.Get("/roster", h.GetRoster)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/weekly", h.GetWeeklyReport)
		})

		// Audit routes
		r.Get("/audit", h.GetAudit)
	})

	return r
}
