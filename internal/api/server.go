package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"biosense/internal"
	"biosense/internal/container"
)

// Server is the thin HTTP surface over the capture/resolution/profile
// pipeline. All semantics live in the app services; handlers only decode,
// delegate, and encode.
type Server struct {
	router *chi.Mux
	c      *container.Container
	log    *internal.Logger
}

// NewServer creates the HTTP server around a wired container
func NewServer(c *container.Container) *Server {
	s := &Server{
		router: chi.NewRouter(),
		c:      c,
		log:    c.Log.With("api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/intents", s.handleCaptureIntent)
		r.Post("/snapshots", s.handleIngestSnapshot)
		r.Get("/profile", s.handleGetProfile)
		r.Post("/trend", s.handleTrendReport)
	})
}

// Handler exposes the router for http.Server wiring
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
