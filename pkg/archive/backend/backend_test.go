package backend

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	config map[string]string
}

func (m *memBackend) Type() string { return "mem-test" }

func (m *memBackend) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(name)), nil
}

func (m *memBackend) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

func (m *memBackend) Exists(ctx context.Context, name string) (bool, error) {
	return true, nil
}

func TestCreate_Registered(t *testing.T) {
	Register("mem-test", func(config map[string]string) (Backend, error) {
		return &memBackend{config: config}, nil
	})
	defer delete(factories, "mem-test")

	b, err := Create(Config{Type: "mem-test"})
	require.NoError(t, err)
	assert.Equal(t, "mem-test", b.Type())
	assert.NotNil(t, b.(*memBackend).config, "nil config is replaced with an empty map")
	assert.Contains(t, RegisteredTypes(), "mem-test")
}

func TestCreate_Unknown(t *testing.T) {
	_, err := Create(Config{Type: "floppy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"floppy"`)
}
