// Package catalog exports loaded help packages to a DuckDB database so they
// can be queried with SQL outside the process.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jcdickinson/hyperhelp/internal/help"
	_ "github.com/marcboeker/go-duckdb"
)

type Catalog struct {
	conn *sql.DB
}

// Open opens or creates the catalog at dbPath. An empty path opens an
// in-memory catalog.
func Open(dbPath string) (*Catalog, error) {
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	c := &Catalog{conn: conn}
	if err := c.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.conn.Close()
}

// Rows are replaced per package inside one transaction, so the tables carry
// no unique constraints.
func (c *Catalog) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS packages (
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			doc_root TEXT NOT NULL,
			index_source TEXT NOT NULL,
			saved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS topics (
			package TEXT NOT NULL,
			topic TEXT NOT NULL,
			caption TEXT NOT NULL,
			file TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS toc (
			package TEXT NOT NULL,
			position INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			topic TEXT NOT NULL,
			caption TEXT NOT NULL,
			file TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS externals (
			package TEXT NOT NULL,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			target TEXT NOT NULL
		)`,
	}

	for _, q := range queries {
		if _, err := c.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// --- Package operations ---

type Package struct {
	Name        string
	Description string
	DocRoot     string
	IndexSource string
	SavedAt     time.Time
}

// Save replaces everything recorded for p.
func (c *Catalog) Save(p *help.Package) error {
	tx, err := c.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"packages", "topics", "toc", "externals"} {
		col := "package"
		if table == "packages" {
			col = "name"
		}
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table, col), p.Package); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO packages (name, description, doc_root, index_source) VALUES (?, ?, ?, ?)`,
		p.Package, p.Description, p.DocRoot, p.IndexSource,
	); err != nil {
		return fmt.Errorf("inserting package: %w", err)
	}

	for _, key := range p.SortedKeys() {
		t := p.Topics[key]
		if _, err := tx.Exec(
			`INSERT INTO topics (package, topic, caption, file) VALUES (?, ?, ?, ?)`,
			p.Package, t.Key, t.Caption, t.File,
		); err != nil {
			return fmt.Errorf("inserting topic %s: %w", key, err)
		}
	}

	position := 0
	var walkErr error
	p.Walk(func(n help.TocNode, depth int) {
		if walkErr != nil {
			return
		}
		_, walkErr = tx.Exec(
			`INSERT INTO toc (package, position, depth, topic, caption, file) VALUES (?, ?, ?, ?, ?, ?)`,
			p.Package, position, depth, n.Key, n.Caption, n.File,
		)
		position++
	})
	if walkErr != nil {
		return fmt.Errorf("inserting toc: %w", walkErr)
	}

	externals := []struct {
		kind    string
		targets []string
	}{{"file", p.PackageFiles}, {"url", p.URLs}}
	for _, ext := range externals {
		for i, target := range ext.targets {
			if _, err := tx.Exec(
				`INSERT INTO externals (package, position, kind, target) VALUES (?, ?, ?, ?)`,
				p.Package, i, ext.kind, target,
			); err != nil {
				return fmt.Errorf("inserting external %s: %w", target, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing package %s: %w", p.Package, err)
	}
	return nil
}

// SaveAll saves every package in name order and returns how many were saved.
func (c *Catalog) SaveAll(pkgs map[string]*help.Package) (int, error) {
	names := make([]string, 0, len(pkgs))
	for name := range pkgs {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if err := c.Save(pkgs[name]); err != nil {
			return i, err
		}
	}
	return len(names), nil
}

// Remove forgets a package.
func (c *Catalog) Remove(name string) error {
	tx, err := c.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()
	for _, q := range []string{
		`DELETE FROM packages WHERE name = ?`,
		`DELETE FROM topics WHERE package = ?`,
		`DELETE FROM toc WHERE package = ?`,
		`DELETE FROM externals WHERE package = ?`,
	} {
		if _, err := tx.Exec(q, name); err != nil {
			return fmt.Errorf("removing package %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func (c *Catalog) ListPackages() ([]Package, error) {
	rows, err := c.conn.Query(`SELECT name, description, doc_root, index_source, saved_at FROM packages ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pkgs []Package
	for rows.Next() {
		var p Package
		if err := rows.Scan(&p.Name, &p.Description, &p.DocRoot, &p.IndexSource, &p.SavedAt); err != nil {
			return nil, err
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, rows.Err()
}

// --- Topic operations ---

// GetTopic returns the topic, or nil when the package does not declare it.
// The topic is normalized before lookup.
func (c *Catalog) GetTopic(pkg, topic string) (*help.Topic, error) {
	var t help.Topic
	err := c.conn.QueryRow(
		`SELECT topic, caption, file FROM topics WHERE package = ? AND topic = ?`,
		pkg, help.Normalize(topic),
	).Scan(&t.Key, &t.Caption, &t.File)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Catalog) CountTopics(pkg string) (int, error) {
	var n int
	err := c.conn.QueryRow(`SELECT count(*) FROM topics WHERE package = ?`, pkg).Scan(&n)
	return n, err
}

// --- TOC operations ---

type TocEntry struct {
	Depth int
	help.Topic
}

// TOC returns the flattened table of contents of a package in display order.
func (c *Catalog) TOC(pkg string) ([]TocEntry, error) {
	rows, err := c.conn.Query(
		`SELECT depth, topic, caption, file FROM toc WHERE package = ? ORDER BY position`, pkg,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TocEntry
	for rows.Next() {
		var e TocEntry
		if err := rows.Scan(&e.Depth, &e.Key, &e.Caption, &e.File); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Externals returns the external targets of a package by kind ("file" or "url").
func (c *Catalog) Externals(pkg, kind string) ([]string, error) {
	rows, err := c.conn.Query(
		`SELECT target FROM externals WHERE package = ? AND kind = ? ORDER BY position`, pkg, kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}
