// Package backend defines the storage abstraction that daily archive files
// are read from.
//
// Storage implementations (local, s3, gcs, azurerm) register themselves via
// init() in their sub-packages. The CLI imports these packages as side
// effects to make them available at runtime.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrNotFound is returned by Read when the named file does not exist.
var ErrNotFound = errors.New("archive file not found")

// Backend is read-only access to a flat collection of archive files.
// Names are relative to the backend's configured root or prefix.
type Backend interface {
	// Type returns the registered backend type name.
	Type() string

	// Read opens the named file. It returns ErrNotFound if it does not exist.
	// The caller must close the returned reader.
	Read(ctx context.Context, name string) (io.ReadCloser, error)

	// List returns the names of files whose name starts with prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, name string) (bool, error)
}

// Config selects and configures a backend.
type Config struct {
	Type   string
	Config map[string]string
}

// Factory creates a Backend from its key/value configuration.
type Factory func(config map[string]string) (Backend, error)

var factories = map[string]Factory{}

// Register adds a backend factory under the given name.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create instantiates the backend named by config.Type.
func Create(config Config) (Backend, error) {
	factory, ok := factories[config.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported archive backend %q (registered types: %v)", config.Type, RegisteredTypes())
	}
	if config.Config == nil {
		config.Config = map[string]string{}
	}
	return factory(config.Config)
}

// RegisteredTypes returns the names of all registered backends, sorted.
func RegisteredTypes() []string {
	types := make([]string, 0, len(factories))
	for name := range factories {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}
