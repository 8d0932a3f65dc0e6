package cas

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Store keeps zstd-compressed blobs under a directory, addressed by a hex key.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// path returns the sharded file path for a key: <dir>/<first2>/<rest>.json.zst
func (s *Store) path(key string) (string, error) {
	if len(key) < 3 {
		return "", fmt.Errorf("invalid CAS key %q", key)
	}
	return filepath.Join(s.dir, key[:2], key[2:]+".json.zst"), nil
}

// Put stores data under key, replacing any previous blob.
func (s *Store) Put(key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("creating CAS directory: %w", err)
	}

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("compressing CAS content: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}

	// Write then rename so a concurrent reader never sees a partial blob.
	tmp, err := os.CreateTemp(filepath.Dir(p), "blob-*.tmp")
	if err != nil {
		return fmt.Errorf("writing CAS file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing CAS file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing CAS file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming CAS file: %w", err)
	}
	return nil
}

// Get retrieves the blob stored under key.
func (s *Store) Get(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("reading CAS file %s: %w", key, err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing CAS file %s: %w", key, err)
	}
	return data, nil
}

// Clear removes every blob in the store.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("clearing CAS directory: %w", err)
	}
	return nil
}
