// Package storage provides blob storage operations with an Azure Blob Storage implementation.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/switchyard-io/switchyard/pkg/lifecycle"
)

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the storage container.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the blob at the given key. The caller must close the body.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (*DownloadResult, error)
	// Find returns metadata for the blob at the given key.
	// Returns ErrNotFound if the blob does not exist.
	Find(ctx context.Context, key string) (*BlobInfo, error)
	// List returns one page of blobs under the given prefix, starting at marker.
	List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error)
	// Delete removes the blob at the given key. Returns ErrNotFound if the blob does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// DownloadResult carries a blob stream with its content metadata.
type DownloadResult struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// BlobInfo describes a stored blob.
type BlobInfo struct {
	Key          string    `json:"key"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

// ListResult is one page of blob listings with an optional continuation marker.
type ListResult struct {
	Items      []BlobInfo `json:"items"`
	NextMarker string     `json:"next_marker,omitempty"`
}

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New creates a storage system from the given configuration. A connection
// string takes precedence; otherwise the account URL is used with the default
// Azure credential chain (environment, workload identity, managed identity).
// No connection is established until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage"),
	}, nil
}

func newClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	}

	var credential azcore.TokenCredential
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("default azure credential: %w", err)
	}

	return azblob.NewClient(cfg.AccountURL, credential, nil)
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				a.logger.Error("storage container initialization failed", "error", err)
				return
			}
		}

		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	_, err := a.client.UploadStream(ctx, a.container, key, reader, opts)
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Download(ctx context.Context, key string) (*DownloadResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	result := &DownloadResult{Body: resp.Body}
	if resp.ContentType != nil {
		result.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		result.ContentLength = *resp.ContentLength
	}

	return result, nil
}

func (a *azure) Find(ctx context.Context, key string) (*BlobInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	props, err := a.blobClient(key).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find blob %s: %w", key, err)
	}

	info := &BlobInfo{Key: key}
	if props.ContentType != nil {
		info.ContentType = *props.ContentType
	}
	if props.ContentLength != nil {
		info.SizeBytes = *props.ContentLength
	}
	if props.LastModified != nil {
		info.LastModified = *props.LastModified
	}

	return info, nil
}

func (a *azure) List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error) {
	opts := &azblob.ListBlobsFlatOptions{MaxResults: &maxResults}
	if prefix != "" {
		opts.Prefix = &prefix
	}
	if marker != "" {
		opts.Marker = &marker
	}

	pager := a.client.NewListBlobsFlatPager(a.container, opts)
	if !pager.More() {
		return &ListResult{Items: []BlobInfo{}}, nil
	}

	page, err := pager.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	result := &ListResult{Items: make([]BlobInfo, 0, len(page.Segment.BlobItems))}
	for _, item := range page.Segment.BlobItems {
		if item.Name == nil {
			continue
		}

		info := BlobInfo{Key: *item.Name}
		if props := item.Properties; props != nil {
			if props.ContentType != nil {
				info.ContentType = *props.ContentType
			}
			if props.ContentLength != nil {
				info.SizeBytes = *props.ContentLength
			}
			if props.LastModified != nil {
				info.LastModified = *props.LastModified
			}
		}
		result.Items = append(result.Items, info)
	}

	if page.NextMarker != nil {
		result.NextMarker = *page.NextMarker
	}

	return result, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := a.client.DeleteBlob(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, err := a.blobClient(key).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check blob existence %s: %w", key, err)
	}

	return true, nil
}

func (a *azure) blobClient(key string) *blob.Client {
	return a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)
}

// ParseMaxResults parses a max_results query value, falling back to def when
// empty and capping the parsed value at def.
func ParseMaxResults(raw string, def int32) (int32, error) {
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrInvalidMaxResults
	}

	return min(int32(n), def), nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
