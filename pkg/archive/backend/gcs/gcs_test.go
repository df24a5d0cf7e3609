package gcs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/davidthor/evlog/pkg/archive/backend"
)

func newEmulatorBackend(t *testing.T, extra map[string]string) *Backend {
	t.Helper()

	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	cfg := map[string]string{
		"bucket":   "test-bucket",
		"endpoint": server.URL + "/storage/v1/",
	}
	for k, v := range extra {
		cfg[k] = v
	}

	b, err := NewBackend(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gcsb := b.(*Backend)
	t.Cleanup(func() { _ = gcsb.Close() })
	return gcsb
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		config   map[string]string
		errorMsg string
	}{
		{
			name:     "empty config",
			config:   map[string]string{},
			errorMsg: "bucket",
		},
		{
			name: "empty bucket",
			config: map[string]string{
				"bucket": "",
			},
			errorMsg: "bucket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBackend(tt.config)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}

func TestBackend_Type(t *testing.T) {
	b := newEmulatorBackend(t, nil)

	if b.Type() != "gcs" {
		t.Errorf("expected type 'gcs', got %q", b.Type())
	}
}

func TestBackendConfig_WithPrefix(t *testing.T) {
	b := newEmulatorBackend(t, map[string]string{"prefix": "/indigo/Logs/"})

	if b.prefix != "indigo/Logs" {
		t.Errorf("expected prefix 'indigo/Logs', got %q", b.prefix)
	}
	if b.bucket != "test-bucket" {
		t.Errorf("expected bucket 'test-bucket', got %q", b.bucket)
	}
}

func TestBackend_fullPath(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		path     string
		expected string
	}{
		{"no prefix", "", "2024-01-05 Events.txt", "2024-01-05 Events.txt"},
		{"with prefix", "indigo/Logs", "2024-01-05 Events.txt", "indigo/Logs/2024-01-05 Events.txt"},
		{"empty name", "indigo/Logs", "", "indigo/Logs/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Backend{prefix: tt.prefix}
			if got := b.fullPath(tt.path); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBackend_relativeName(t *testing.T) {
	b := &Backend{prefix: "indigo/Logs"}
	if got := b.relativeName("indigo/Logs/2024-01-05 Events.txt"); got != "2024-01-05 Events.txt" {
		t.Errorf("unexpected relative name %q", got)
	}

	b = &Backend{}
	if got := b.relativeName("2024-01-05 Events.txt"); got != "2024-01-05 Events.txt" {
		t.Errorf("unexpected relative name %q", got)
	}
}

func TestBackend_InterfaceCompliance(t *testing.T) {
	var _ backend.Backend = (*Backend)(nil)
}
