// Package local implements an archive backend over a local directory.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davidthor/evlog/pkg/archive/backend"
)

func init() {
	backend.Register("local", NewBackend)
}

// Backend reads archive files from a single directory.
type Backend struct {
	basePath string
}

// NewBackend creates a new local backend.
func NewBackend(config map[string]string) (backend.Backend, error) {
	path := config["path"]
	if path == "" {
		// Default to ~/.evlog/Logs
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".evlog", "Logs")
	}

	return &Backend{basePath: path}, nil
}

func (b *Backend) Type() string {
	return "local"
}

// Path returns the directory the backend reads from.
func (b *Backend) Path() string {
	return b.basePath
}

func (b *Backend) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	fullPath := b.fullPath(name)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", fullPath, err)
	}

	info, err := file.Stat()
	if err == nil && info.IsDir() {
		file.Close()
		return nil, backend.ErrNotFound
	}

	return file, nil
}

// List returns the regular files directly inside the directory whose names
// start with prefix. A missing directory lists as empty.
func (b *Backend) List(ctx context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(b.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", b.basePath, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return names, nil
}

func (b *Backend) Exists(ctx context.Context, name string) (bool, error) {
	fullPath := b.fullPath(name)

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %s: %w", fullPath, err)
	}

	return !info.IsDir(), nil
}

func (b *Backend) fullPath(name string) string {
	return filepath.Join(b.basePath, filepath.FromSlash(name))
}
