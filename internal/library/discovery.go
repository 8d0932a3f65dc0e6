package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Discovery yields the locators of every help index currently known.
type Discovery interface {
	Locators() ([]string, error)
}

// DiscoveryFunc adapts a function to Discovery.
type DiscoveryFunc func() ([]string, error)

func (f DiscoveryFunc) Locators() ([]string, error) { return f() }

// FSDiscovery finds index files named IndexName anywhere below Root.
type FSDiscovery struct {
	Root      string
	IndexName string
}

func (d FSDiscovery) Locators() ([]string, error) {
	if _, err := os.Stat(d.Root); err != nil {
		return nil, fmt.Errorf("scanning packages: %w", err)
	}
	var found []string
	err := filepath.WalkDir(d.Root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && entry.Name() == d.IndexName {
			abs, err := filepath.Abs(p)
			if err != nil {
				return err
			}
			found = append(found, abs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning packages: %w", err)
	}
	sort.Strings(found)
	return found, nil
}
