package core

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Cache is the directory holding the repository clones of one invocation.
// Close removes it unless retention was requested.
type Cache struct {
	root   string
	retain bool
	closed bool
}

// DefaultCacheRoot returns <user config dir>/rhasspy_skills/repo.
func DefaultCacheRoot() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "locating user config directory")
	}
	return filepath.Join(dir, AppDirName, "repo"), nil
}

// OpenCache prepares root for cloning. Unless retain is set, any previous
// content is deleted first.
func OpenCache(root string, retain bool) (*Cache, error) {
	if root == "" {
		return nil, errors.New("cache root is required")
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "resolving cache root")
	}
	if !retain {
		if err := removeAllForce(root); err != nil {
			return nil, errors.Wrap(err, "cleaning cache")
		}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating cache")
	}
	return &Cache{root: root, retain: retain}, nil
}

// Root returns the absolute cache directory.
func (c *Cache) Root() string { return c.root }

// Retained reports whether the cache survives Close.
func (c *Cache) Retained() bool { return c.retain }

// Dir returns the clone directory for a derived repository name.
func (c *Cache) Dir(name string) string { return filepath.Join(c.root, name) }

// Close releases the cache. It is safe to call more than once.
func (c *Cache) Close() error {
	if c == nil || c.retain || c.closed {
		return nil
	}
	c.closed = true
	return removeAllForce(c.root)
}
