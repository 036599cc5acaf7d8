// Package cache stores downloaded CRX blobs on disk keyed by extension id.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Cache is a flat directory of <id>.crx files. Writes go through a
// temp file and rename, so readers never observe a partial blob and
// concurrent use is safe.
type Cache struct {
	dir string
}

// New creates the cache directory if needed.
func New(dir string) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache: directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(id string) string {
	return filepath.Join(c.dir, id+".crx")
}

// Get returns the cached blob for id, with ok=false on a miss.
func (c *Cache) Get(id string) ([]byte, bool, error) {
	data, err := os.ReadFile(c.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: read %s: %w", id, err)
	}
	return data, true, nil
}

// Put stores the blob for id atomically.
func (c *Cache) Put(id string, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, "."+id+"-*")
	if err != nil {
		return fmt.Errorf("cache: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: write %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.path(id)); err != nil {
		return fmt.Errorf("cache: commit %s: %w", id, err)
	}
	return nil
}

// Remove deletes the cached blob for id; absent entries are not an error.
func (c *Cache) Remove(id string) error {
	if err := os.Remove(c.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cache: remove %s: %w", id, err)
	}
	return nil
}
