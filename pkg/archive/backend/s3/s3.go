// Package s3 implements an S3-compatible archive backend.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/davidthor/evlog/pkg/archive/backend"
)

func init() {
	backend.Register("s3", NewBackend)
}

// Backend reads archive files from an S3-compatible bucket.
type Backend struct {
	client *s3.Client
	bucket string
	prefix string
	region string
}

// NewBackend creates a new S3 backend.
func NewBackend(cfg map[string]string) (backend.Backend, error) {
	bucket, ok := cfg["bucket"]
	if !ok || bucket == "" {
		return nil, fmt.Errorf("s3 backend requires 'bucket' configuration")
	}

	region := cfg["region"]
	if region == "" {
		region = "us-east-1"
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(region))

	// Support explicit credentials
	if accessKey := cfg["access_key"]; accessKey != "" {
		secretKey := cfg["secret_key"]
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg["force_path_style"] == "true"
		// Support custom endpoint (for MinIO, R2, etc.)
		if endpoint := cfg["endpoint"]; endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &Backend{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(cfg["key"], "/"),
		region: region,
	}, nil
}

func (b *Backend) Type() string {
	return "s3"
}

func (b *Backend) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	key := b.fullPath(name)

	output, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", b.bucket, key, err)
	}

	return output.Body, nil
}

func (b *Backend) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := b.fullPath(prefix)

	var names []string
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: &b.bucket,
		Prefix: &fullPrefix,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			names = append(names, b.relativeName(aws.ToString(obj.Key)))
		}
	}

	return names, nil
}

func (b *Backend) Exists(ctx context.Context, name string) (bool, error) {
	key := b.fullPath(name)

	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return false, nil
		}
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
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

// relativeName strips the backend prefix from an object key.
func (b *Backend) relativeName(key string) string {
	if b.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, b.prefix+"/")
}

// Ensure we implement the Backend interface
var _ backend.Backend = (*Backend)(nil)
