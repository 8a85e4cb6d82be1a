package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options configures the HTTP router.
type Options struct {
	// Auth resolves the tenant of each API request. Required.
	Auth           func(http.Handler) http.Handler
	RequestTimeout time.Duration
	// MCP, when set, is mounted at /mcp behind Auth.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	services Services
	logger   *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(services Services, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	srv := &Server{services: services, logger: opts.Logger}

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		}

		r.Route("/api/v1/reports", func(r chi.Router) {
			if opts.RequestTimeout > 0 {
				r.Use(middleware.Timeout(opts.RequestTimeout))
			}
			r.Use(srv.requireTenant)

			r.Route("/contracts", func(r chi.Router) {
				r.Get("/cost-overruns", srv.handleOverrunLists)
				r.Get("/cost-overruns/table", srv.handleOverrunTable)
				r.Get("/cost-overruns/export", srv.handleOverrunExport)
				r.Get("/{contractID}/cost", srv.handleContractCost)
			})

			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/projects", srv.handleProjects)
				r.Get("/projects/export", srv.handleProjectsExport)
				r.Get("/projects/{projectID}", srv.handleProjectSummary)
				r.Get("/clients", srv.handleClients)
				r.Get("/clients/export", srv.handleClientsExport)
			})

			r.Route("/health", func(r chi.Router) {
				r.Get("/portfolio", srv.handleHealthPortfolio)
				r.Get("/history", srv.handleHealthHistory)
				r.Post("/projects/{projectID}/snapshot", srv.handleSnapshot)
				r.Post("/snapshots", srv.handleSnapshotAll)
			})

			r.Get("/events", srv.handleEvents)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) requireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := TenantFromContext(r.Context()); !ok {
			WriteErrorMessage(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tenantOf(r *http.Request) string {
	tenantID, _ := TenantFromContext(r.Context())
	return tenantID
}
