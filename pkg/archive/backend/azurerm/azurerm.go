// Package azurerm implements an Azure Blob Storage archive backend.
package azurerm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/davidthor/evlog/pkg/archive/backend"
)

func init() {
	backend.Register("azurerm", NewBackend)
}

// Backend reads archive files from an Azure Blob Storage container.
type Backend struct {
	client        *azblob.Client
	containerName string
	prefix        string
}

// NewBackend creates a new Azure Blob Storage backend.
func NewBackend(cfg map[string]string) (backend.Backend, error) {
	storageAccount, ok := cfg["storage_account_name"]
	if !ok || storageAccount == "" {
		return nil, fmt.Errorf("azurerm backend requires 'storage_account_name' configuration")
	}

	containerName, ok := cfg["container_name"]
	if !ok || containerName == "" {
		return nil, fmt.Errorf("azurerm backend requires 'container_name' configuration")
	}

	client, err := newClient(storageAccount, cfg)
	if err != nil {
		return nil, err
	}

	return &Backend{
		client:        client,
		containerName: containerName,
		prefix:        strings.Trim(cfg["key"], "/"),
	}, nil
}

// newClient picks the first configured credential: access key, SAS token,
// connection string, then DefaultAzureCredential.
func newClient(storageAccount string, cfg map[string]string) (*azblob.Client, error) {
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", storageAccount)

	// Support custom endpoint (for Azurite emulator)
	if endpoint := cfg["endpoint"]; endpoint != "" {
		serviceURL = endpoint
	}

	if accessKey := cfg["access_key"]; accessKey != "" {
		cred, err := azblob.NewSharedKeyCredential(storageAccount, accessKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client with shared key: %w", err)
		}
		return client, nil
	}

	if sasToken := cfg["sas_token"]; sasToken != "" {
		sep := "?"
		if strings.Contains(serviceURL, "?") {
			sep = "&"
		}
		client, err := azblob.NewClientWithNoCredential(serviceURL+sep+strings.TrimPrefix(sasToken, "?"), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client with SAS token: %w", err)
		}
		return client, nil
	}

	if connectionString := cfg["connection_string"]; connectionString != "" {
		client, err := azblob.NewClientFromConnectionString(connectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client from connection string: %w", err)
		}
		return client, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create default Azure credential: %w", err)
	}
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %w", err)
	}
	return client, nil
}

func (b *Backend) Type() string {
	return "azurerm"
}

func (b *Backend) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	blobPath := b.fullPath(name)

	resp, err := b.client.DownloadStream(ctx, b.containerName, blobPath, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read azure://%s/%s: %w", b.containerName, blobPath, err)
	}

	return resp.Body, nil
}

func (b *Backend) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := b.fullPath(prefix)

	var names []string
	pager := b.client.NewListBlobsFlatPager(b.containerName, &container.ListBlobsFlatOptions{
		Prefix: &fullPrefix,
	})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}

		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, b.relativeName(*item.Name))
			}
		}
	}

	return names, nil
}

func (b *Backend) Exists(ctx context.Context, name string) (bool, error) {
	blobPath := b.fullPath(name)

	_, err := b.client.ServiceClient().NewContainerClient(b.containerName).NewBlobClient(blobPath).GetProperties(ctx, nil)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return true, nil
}

func isNotFound(err error) bool {
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return true
	}
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
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

func (b *Backend) relativeName(blobName string) string {
	if b.prefix == "" {
		return blobName
	}
	return strings.TrimPrefix(blobName, b.prefix+"/")
}

// Ensure we implement the Backend interface
var _ backend.Backend = (*Backend)(nil)
