// Package blobstore uploads raw scan images to Azure Blob Storage, mirroring
// the original system's azure.storage.blob.BlobServiceClient usage in
// ingest_scan_data.py and render_inventory.py.
package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	_ "github.com/chai2010/webp"
)

// Container names, matching the original system's two blob containers.
const (
	ContainerScanImagesRaw = "scan-images-raw"
	ContainerScanImages    = "scan-images"
)

// Store uploads scan-related blobs to Azure.
type Store struct {
	client *azblob.Client
}

// New opens a Store from an Azure Storage connection string. Uploads retry
// up to 4 times, the scan pipeline's tolerance for transient Azure errors
// before a handler gives up and the message is nacked.
func New(connectionString string) (*Store, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: 4},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("blobstore: connect: %w", err)
	}
	return &Store{client: client}, nil
}

// UploadWebP decodes webpBytes to confirm it is a valid image (logging its
// dimensions is the caller's job), then uploads the original bytes
// unmodified to container/blobName - the original system uploads the
// robot's webp payload as-is rather than re-encoding it.
func (s *Store) UploadWebP(ctx context.Context, container, blobName string, webpBytes []byte) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(webpBytes))
	if err != nil {
		return image.Config{}, fmt.Errorf("blobstore: decode webp: %w", err)
	}
	if _, err := s.client.UploadBuffer(ctx, container, blobName, webpBytes, nil); err != nil {
		return image.Config{}, fmt.Errorf("blobstore: upload %s/%s: %w", container, blobName, err)
	}
	return cfg, nil
}
