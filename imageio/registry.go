package imageio

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Driver opens or creates containers for one file extension (e.g. ".exr").
// Concrete drivers live outside this module; the core only consumes the
// Container interface they hand back.
type Driver interface {
	// Open opens an existing container for reading.
	Open(path string) (Container, error)

	// Create creates a new container for writing, seeded with spec.
	Create(path string, spec Spec) (Container, error)
}

// Registry maps a file extension to the driver that handles it, mirroring
// the name-or-UID codec registry pattern: one small mutex-guarded map,
// register-by-key, look-up-by-key.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

var defaultRegistry = &Registry{drivers: make(map[string]Driver)}

// Register installs d as the driver for ext (e.g. ".exr") in the default registry.
func Register(ext string, d Driver) {
	defaultRegistry.Register(ext, d)
}

// Open opens path using the driver registered for its extension.
func Open(path string) (Container, error) {
	return defaultRegistry.Open(path)
}

// Create creates path using the driver registered for its extension.
func Create(path string, spec Spec) (Container, error) {
	return defaultRegistry.Create(path, spec)
}

// Register installs d as the driver for ext.
func (r *Registry) Register(ext string, d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[normalizeExt(ext)] = d
}

// Driver returns the driver registered for path's extension.
func (r *Registry) Driver(path string) (Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := normalizeExt(filepath.Ext(path))
	d, ok := r.drivers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoDriver, ext)
	}
	return d, nil
}

// Open opens path using the registered driver for its extension.
func (r *Registry) Open(path string) (Container, error) {
	d, err := r.Driver(path)
	if err != nil {
		return nil, err
	}
	c, err := d.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	return c, nil
}

// Create creates path using the registered driver for its extension.
func (r *Registry) Create(path string, spec Spec) (Container, error) {
	d, err := r.Driver(path)
	if err != nil {
		return nil, err
	}
	c, err := d.Create(path, spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return c, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(ext)
}
