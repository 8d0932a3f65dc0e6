package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jcdickinson/hyperhelp/internal/help"
	"github.com/jcdickinson/hyperhelp/internal/library"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	file := filepath.Join(root, "Demo", "help", "hyperhelp.json")
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte(`{"help_files": {"index.txt": ["Index", {"topic": "Getting Started"}]}}`), 0644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	lib := library.New(help.NewLoader(root, nil, logger), library.FSDiscovery{Root: root, IndexName: "hyperhelp.json"}, 2, logger)
	return NewServer(lib, logger), file
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s, _ := testServer(t)
	rec := do(t, s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestListAndGetPackage(t *testing.T) {
	t.Parallel()
	s, _ := testServer(t)

	rec := do(t, s, http.MethodGet, "/api/packages")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d %s", rec.Code, rec.Body.String())
	}
	var list struct {
		Packages []struct {
			Name   string `json:"name"`
			Topics int    `json:"topics"`
		} `json:"packages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Packages) != 1 || list.Packages[0].Name != "Demo" || list.Packages[0].Topics != 2 {
		t.Errorf("packages = %+v", list.Packages)
	}

	rec = do(t, s, http.MethodGet, "/api/packages/Demo")
	var p help.Package
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Package != "Demo" || len(p.TOC) != 2 {
		t.Errorf("package = %+v", p)
	}

	if rec := do(t, s, http.MethodGet, "/api/packages/Nope"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown package status = %d", rec.Code)
	}
}

func TestLookupTopic(t *testing.T) {
	t.Parallel()
	s, _ := testServer(t)

	rec := do(t, s, http.MethodGet, "/api/packages/Demo/topics/GETTING%20STARTED")
	if rec.Code != http.StatusOK {
		t.Fatalf("lookup = %d %s", rec.Code, rec.Body.String())
	}
	var topic help.Topic
	if err := json.Unmarshal(rec.Body.Bytes(), &topic); err != nil {
		t.Fatal(err)
	}
	if topic.Key != "getting\tstarted" || topic.File != "index.txt" {
		t.Errorf("topic = %+v", topic)
	}

	if rec := do(t, s, http.MethodGet, "/api/packages/Demo/topics/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("missing topic status = %d", rec.Code)
	}
}

func TestTOC(t *testing.T) {
	t.Parallel()
	s, _ := testServer(t)

	rec := do(t, s, http.MethodGet, "/api/packages/Demo/toc")
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `href="#index.txt"`) {
		t.Errorf("html = %s", rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/api/packages/Demo/toc?format=markdown")
	if !strings.Contains(rec.Body.String(), "- [Index](help:index.txt)") {
		t.Errorf("markdown = %s", rec.Body.String())
	}
}

func TestReload(t *testing.T) {
	t.Parallel()
	s, file := testServer(t)

	if rec := do(t, s, http.MethodPost, "/api/packages/Demo/reload"); rec.Code != http.StatusOK {
		t.Fatalf("reload = %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, s, http.MethodPost, "/api/packages/Nope/reload"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown reload status = %d", rec.Code)
	}

	if err := os.WriteFile(file, []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}
	if rec := do(t, s, http.MethodPost, "/api/packages/Demo/reload"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("broken reload status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/packages/Demo"); rec.Code != http.StatusNotFound {
		t.Errorf("package still served after failed reload: %d", rec.Code)
	}
}
