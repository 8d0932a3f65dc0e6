// Package api serves the package table over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcdickinson/hyperhelp/internal/help"
)

// Packages is the part of the package table the server uses.
type Packages interface {
	Names() []string
	Get(name string) (*help.Package, bool)
	Lookup(pkg, topic string) (help.Topic, error)
	Reload(name string) (*help.Package, error)
}

// Server is the HTTP API server for hyperhelp.
type Server struct {
	router   chi.Router
	packages Packages
	log      *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(packages Packages, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{packages: packages, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api/packages", func(r chi.Router) {
		r.Get("/", s.handleListPackages)
		r.Get("/{pkg}", s.handleGetPackage)
		r.Post("/{pkg}/reload", s.handleReload)
		r.Get("/{pkg}/toc", s.handleTOC)
		r.Get("/{pkg}/topics/{topic}", s.handleLookupTopic)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
