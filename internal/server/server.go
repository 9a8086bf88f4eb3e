// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cwarner/routinepanel/internal/db"
	"github.com/cwarner/routinepanel/internal/log"
	"github.com/cwarner/routinepanel/internal/panel"
	"github.com/cwarner/routinepanel/internal/routines"
)

// Config holds server configuration.
type Config struct {
	DatabaseName string // display name of the routine catalog
	PageSize     int    // routines per listing page
}

type Server struct {
	db              *db.DB
	router          *chi.Mux
	panelHandler    *panel.Handler
	routinesHandler *routines.Handler

	httpServer *http.Server
}

func New(database *db.DB, cfg Config) *Server {
	s := &Server{
		db:              database,
		router:          chi.NewRouter(),
		panelHandler:    panel.NewHandler(panel.NewStore(database.DB)),
		routinesHandler: routines.NewHandler(database.DB, cfg.DatabaseName, cfg.PageSize),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(log.RequestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/panel", func(r chi.Router) {
		s.panelHandler.RegisterRoutes(r)

		// Everything else behind the session gate
		r.Group(func(r chi.Router) {
			r.Use(s.panelHandler.RequireAuth)
			s.routinesHandler.RegisterRoutes(r)
		})
	})

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/panel/routines", http.StatusSeeOther)
	})
}

func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
