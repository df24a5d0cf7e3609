// Package gcs implements a Google Cloud Storage archive backend.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/davidthor/evlog/pkg/archive/backend"
)

func init() {
	backend.Register("gcs", NewBackend)
}

// Backend reads archive files from a Google Cloud Storage bucket.
type Backend struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewBackend creates a new GCS backend.
func NewBackend(cfg map[string]string) (backend.Backend, error) {
	bucketName, ok := cfg["bucket"]
	if !ok || bucketName == "" {
		return nil, fmt.Errorf("gcs backend requires 'bucket' configuration")
	}

	ctx := context.Background()
	var opts []option.ClientOption

	// Support explicit credentials file
	if credentialsFile := cfg["credentials"]; credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	// Support credentials JSON
	if credentialsJSON := cfg["credentials_json"]; credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	// Support custom endpoint (for emulator)
	if endpoint := cfg["endpoint"]; endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
		opts = append(opts, option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &Backend{
		client: client,
		bucket: bucketName,
		prefix: strings.Trim(cfg["prefix"], "/"),
	}, nil
}

func (b *Backend) Type() string {
	return "gcs"
}

func (b *Backend) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	objectPath := b.fullPath(name)

	reader, err := b.client.Bucket(b.bucket).Object(objectPath).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", b.bucket, objectPath, err)
	}

	return reader, nil
}

func (b *Backend) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := b.fullPath(prefix)

	var names []string
	it := b.client.Bucket(b.bucket).Objects(ctx, &storage.Query{
		Prefix: fullPrefix,
	})

	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		names = append(names, b.relativeName(attrs.Name))
	}

	return names, nil
}

func (b *Backend) Exists(ctx context.Context, name string) (bool, error) {
	objectPath := b.fullPath(name)

	_, err := b.client.Bucket(b.bucket).Object(objectPath).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return true, nil
}

func (b *Backend) fullPath(name string) string {
	if b.prefix == "" {
		return name
	}
	if name == "" {
		return b.prefix + "/"
	}
	return path.Join(b.prefix, name)
}

func (b *Backend) relativeName(objectName string) string {
	if b.prefix == "" {
		return objectName
	}
	return strings.TrimPrefix(objectName, b.prefix+"/")
}

// Close closes the GCS client.
func (b *Backend) Close() error {
	return b.client.Close()
}

// Ensure we implement the Backend interface
var _ backend.Backend = (*Backend)(nil)
