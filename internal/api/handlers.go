package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcdickinson/hyperhelp/internal/library"
	"github.com/jcdickinson/hyperhelp/internal/markdown"
)

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	type summary struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Topics      int    `json:"topics"`
	}
	pkgs := []summary{}
	for _, name := range s.packages.Names() {
		if p, ok := s.packages.Get(name); ok {
			pkgs = append(pkgs, summary{Name: name, Description: p.Description, Topics: len(p.Topics)})
		}
	}
	writeJSON(w, map[string]any{"packages": pkgs})
}

func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "pkg")
	p, ok := s.packages.Get(name)
	if !ok {
		jsonError(w, "unknown package: "+name, http.StatusNotFound)
		return
	}
	writeJSON(w, p)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "pkg")
	p, err := s.packages.Reload(name)
	if errors.Is(err, library.ErrUnknownPackage) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "reload failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]any{"package": p.Package, "topics": len(p.Topics)})
}

// handleTOC renders the table of contents as HTML, or as Markdown when
// format=markdown is given.
func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "pkg")
	p, ok := s.packages.Get(name)
	if !ok {
		jsonError(w, "unknown package: "+name, http.StatusNotFound)
		return
	}

	md := markdown.TOC(p)
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(markdown.HTML(p, md))
}

func (s *Server) handleLookupTopic(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "pkg")
	t, err := s.packages.Lookup(name, chi.URLParam(r, "topic"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, t)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
