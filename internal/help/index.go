package help

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jcdickinson/hyperhelp/internal/diag"
	"github.com/jcdickinson/hyperhelp/internal/manifest"
)

// ResourcePrefix starts every package resource name.
const ResourcePrefix = "Packages/"

// IndexCache stores assembled packages between loads.
type IndexCache interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
}

// Loader reads help index manifests and assembles them into packages.
type Loader struct {
	packagesPath string
	cache        IndexCache
	log          *slog.Logger
}

// NewLoader returns a loader resolving resource names under packagesPath.
// cache and logger may be nil.
func NewLoader(packagesPath string, cache IndexCache, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{packagesPath: packagesPath, cache: cache, log: logger}
}

// Resolve maps a locator to its resource name and the file holding it. The
// locator is either a resource name ("Packages/<pkg>/...") or an absolute
// path below the packages directory.
func (l *Loader) Resolve(locator string) (resource, file string, err error) {
	if filepath.IsAbs(locator) {
		if l.packagesPath == "" {
			return "", "", ErrNotInPackage
		}
		rel, err := filepath.Rel(l.packagesPath, locator)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			return "", "", ErrNotInPackage
		}
		resource = ResourcePrefix + filepath.ToSlash(rel)
		file = locator
	} else {
		resource = filepath.ToSlash(locator)
		if !strings.HasPrefix(strings.ToLower(resource), strings.ToLower(ResourcePrefix)) {
			return "", "", ErrNotInPackage
		}
		for _, seg := range strings.Split(resource, "/") {
			if seg == "." || seg == ".." {
				return "", "", ErrNotInPackage
			}
		}
		file = filepath.Join(l.packagesPath, filepath.FromSlash(resource[len(ResourcePrefix):]))
	}
	if PackageName(resource) == "" {
		return "", "", ErrNotInPackage
	}
	return resource, file, nil
}

// PackageName returns the package segment of a resource name, or "" when the
// name does not locate a file inside a package.
func PackageName(resource string) string {
	parts := strings.Split(resource, "/")
	if len(parts) < 3 || !strings.EqualFold(parts[0]+"/", ResourcePrefix) {
		return ""
	}
	return parts[1]
}

// Load reads, validates, and assembles the manifest at locator. Warnings are
// logged; only fatal problems are returned.
func (l *Loader) Load(locator string) (*Package, error) {
	resource, file, err := l.Resolve(locator)
	if err != nil {
		return nil, &IndexLoadError{Locator: locator, Err: err}
	}
	pkg := PackageName(resource)
	l.log.Debug("index: loading help index", "package", pkg, "resource", resource)

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, &IndexLoadError{Locator: resource, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &IndexLoadError{Locator: resource, Err: errors.New("resource is not UTF-8")}
	}
	text := normalizeNewlines(string(data))

	key := cacheKey(resource, text)
	if entry := l.cached(key); entry != nil {
		l.log.Debug("index: using cached help index", "package", pkg)
		diag.Emit(l.log, entry.Warnings, "package", pkg)
		return entry.Package, nil
	}

	p, warnings, err := Parse(resource, []byte(text))
	diag.Emit(l.log, warnings, "package", pkg)
	if err != nil {
		return nil, err
	}
	l.store(key, p, warnings)
	return p, nil
}

// cacheEntry keeps the load warnings with the package so a cache hit logs
// the same diagnostics as a fresh load.
type cacheEntry struct {
	Package  *Package       `json:"package"`
	Warnings []diag.Warning `json:"warnings,omitempty"`
}

func (l *Loader) cached(key string) *cacheEntry {
	if l.cache == nil {
		return nil
	}
	data, err := l.cache.Get(key)
	if err != nil {
		return nil
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Package == nil {
		l.log.Debug("index: ignoring unreadable cache entry", "key", key, "error", err)
		return nil
	}
	return &entry
}

func (l *Loader) store(key string, p *Package, warnings []diag.Warning) {
	if l.cache == nil {
		return
	}
	data, err := json.Marshal(cacheEntry{Package: p, Warnings: warnings})
	if err != nil {
		l.log.Debug("index: not caching help index", "package", p.Package, "error", err)
		return
	}
	if err := l.cache.Put(key, data); err != nil {
		l.log.Debug("index: not caching help index", "package", p.Package, "error", err)
	}
}

// Parse decodes and validates manifest content for the given resource name
// and assembles the package.
func Parse(resource string, data []byte) (*Package, []diag.Warning, error) {
	value, err := manifest.Decode(data, manifest.FormatFor(resource))
	if err != nil {
		return nil, nil, &IndexParseError{Locator: resource, Err: err}
	}
	res, err := manifest.Validate(value)
	if err != nil {
		return nil, nil, err
	}
	p, warnings := Assemble(resource, value)
	return p, append(res.Warnings, warnings...), nil
}

// Assemble builds a package from a validated manifest.
func Assemble(resource string, m manifest.Value) (*Package, []diag.Warning) {
	pkg := PackageName(resource)

	docRoot := m.GetString("doc_root", "")
	if docRoot == "" {
		docRoot = path.Dir(resource[len(ResourcePrefix):])
	} else {
		docRoot = path.Clean(pkg + "/" + docRoot)
	}

	helpFiles, _ := m.Get("help_files")
	imported, warnings := ImportTopics(pkg, helpFiles, false)
	topics := make(map[string]Topic, len(imported))
	for _, t := range imported {
		topics[t.Key] = t
	}

	var files, urls []string
	if externals, ok := m.Get("externals"); ok {
		ext, w := ImportTopics(pkg, externals, true)
		warnings = append(warnings, w...)
		files, urls, w = MergeExternals(pkg, ext, topics, nil, nil)
		warnings = append(warnings, w...)
	}

	declared, _ := m.Get("help_contents")
	toc, w := ResolveTOC(declared, topics, pkg)
	warnings = append(warnings, w...)

	return &Package{
		Package:      pkg,
		IndexSource:  resource,
		Description:  m.GetString("description", fmt.Sprintf("Help for %s", pkg)),
		DocRoot:      docRoot,
		Topics:       topics,
		FileTitles:   FileTitles(helpFiles),
		PackageFiles: files,
		URLs:         urls,
		TOC:          toc,
	}, warnings
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func cacheKey(resource, text string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(resource+"\x00"+text)))
}
