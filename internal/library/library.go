package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"sync"

	"github.com/jcdickinson/hyperhelp/internal/help"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownPackage is returned for operations on a package that is not loaded.
var ErrUnknownPackage = errors.New("unknown package")

// Loader is the part of help.Loader the library needs.
type Loader interface {
	Resolve(locator string) (resource, file string, err error)
	Load(locator string) (*help.Package, error)
}

// Library is the process-wide package table. It starts empty, is populated
// by a scan on first access, and each entry is replaced as a whole on reload.
type Library struct {
	loader      Loader
	discovery   Discovery
	concurrency int
	log         *slog.Logger

	mu       sync.RWMutex
	packages map[string]*help.Package
	scanned  bool

	scanGroup   singleflight.Group
	reloadGroup singleflight.Group
}

// New returns an empty library. concurrency bounds parallel loads during a scan.
func New(loader Loader, discovery Discovery, concurrency int, logger *slog.Logger) *Library {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		loader:      loader,
		discovery:   discovery,
		concurrency: concurrency,
		log:         logger,
		packages:    make(map[string]*help.Package),
	}
}

// ScanPackages loads every discovered index whose package is not already in
// existing and returns the combined table. existing is not modified. Packages
// that fail to load are logged and left out.
func ScanPackages(ctx context.Context, loader Loader, locators []string, existing map[string]*help.Package, concurrency int, logger *slog.Logger) map[string]*help.Package {
	if logger == nil {
		logger = slog.Default()
	}
	out := make(map[string]*help.Package, len(existing)+len(locators))
	for name, p := range existing {
		out[name] = p
	}

	// Pick one locator per package, first in discovery order.
	var pending []string
	claimed := make(map[string]bool)
	for _, locator := range locators {
		resource, _, err := loader.Resolve(locator)
		if err != nil {
			logger.Warn(fmt.Sprintf("library: skipping %s: %v", locator, err))
			continue
		}
		name := help.PackageName(resource)
		if _, ok := out[name]; ok || claimed[name] {
			continue
		}
		claimed[name] = true
		pending = append(pending, locator)
	}

	results := make([]*help.Package, len(pending))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, locator := range pending {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p, err := loader.Load(locator)
			if err != nil {
				logger.Warn("library: unable to load help", "locator", locator, "error", err)
				return nil
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn(fmt.Sprintf("library: scan interrupted: %v", err))
	}

	for _, p := range results {
		if p != nil {
			out[p.Package] = p
		}
	}
	return out
}

// Scan discovers indexes and loads any package not yet in the table.
func (l *Library) Scan(ctx context.Context) error {
	_, err, _ := l.scanGroup.Do("scan", func() (interface{}, error) {
		locators, err := l.discovery.Locators()
		if err != nil {
			return nil, err
		}
		l.mu.RLock()
		existing := maps.Clone(l.packages)
		l.mu.RUnlock()

		next := ScanPackages(ctx, l.loader, locators, existing, l.concurrency, l.log)

		l.mu.Lock()
		// Only add packages this scan loaded. Entries in the snapshot may have
		// been replaced or removed by a reload since it was taken.
		for name, p := range next {
			if _, ok := existing[name]; ok {
				continue
			}
			if _, ok := l.packages[name]; !ok {
				l.packages[name] = p
			}
		}
		l.scanned = true
		l.mu.Unlock()
		return nil, nil
	})
	return err
}

func (l *Library) ensureScanned() {
	l.mu.RLock()
	scanned := l.scanned
	l.mu.RUnlock()
	if scanned {
		return
	}
	if err := l.Scan(context.Background()); err != nil {
		l.log.Warn(fmt.Sprintf("library: package scan failed: %v", err))
	}
}

// Get returns the loaded help for a package.
func (l *Library) Get(name string) (*help.Package, bool) {
	l.ensureScanned()
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.packages[name]
	return p, ok
}

// Names returns the loaded package names, sorted.
func (l *Library) Names() []string {
	l.ensureScanned()
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.packages))
	for name := range l.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Packages returns a snapshot of the table.
func (l *Library) Packages() map[string]*help.Package {
	l.ensureScanned()
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.packages)
}

// Lookup resolves a topic within a package.
func (l *Library) Lookup(pkg, topic string) (help.Topic, error) {
	p, ok := l.Get(pkg)
	if !ok {
		return help.Topic{}, fmt.Errorf("%w: %s", ErrUnknownPackage, pkg)
	}
	t, ok := p.Lookup(topic)
	if !ok {
		return help.Topic{}, fmt.Errorf("topic '%s' not found in %s", topic, pkg)
	}
	return t, nil
}

// Reload loads a package's index again and swaps in the result. A package
// that was never loaded is left alone; one whose reload fails is removed.
// Concurrent reloads of the same package share one load.
func (l *Library) Reload(name string) (*help.Package, error) {
	l.ensureScanned()
	l.mu.RLock()
	current, ok := l.packages[name]
	l.mu.RUnlock()
	if !ok {
		l.log.Warn(fmt.Sprintf("library: unable to reload help for unknown package '%s'", name))
		return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, name)
	}

	v, err, _ := l.reloadGroup.Do(name, func() (interface{}, error) {
		p, err := l.loader.Load(current.IndexSource)
		l.mu.Lock()
		defer l.mu.Unlock()
		if err != nil {
			delete(l.packages, name)
			return nil, err
		}
		l.packages[name] = p
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*help.Package), nil
}
