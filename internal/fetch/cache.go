package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cache stores raw fetched HTML on disk so repeated runs can skip the
// network round trip. Pages are keyed by a caller-chosen name.
type Cache struct {
	dir string
}

// NewCache creates the cache directory if needed. A leading "~/" in dir is
// expanded to the user's home directory.
func NewCache(dir string) (*Cache, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Cache{dir: dir}, nil
}

func (c *Cache) path(name string) string {
	return filepath.Join(c.dir, name+".html")
}

// Get returns the cached content for name, or false if no entry exists.
func (c *Cache) Get(name string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(name))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores content for name, overwriting any previous entry.
func (c *Cache) Put(name string, data []byte) error {
	if err := os.WriteFile(c.path(name), data, 0644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}
