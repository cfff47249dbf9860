// Package scaningest handles ScanData messages (spec.md §3 supplemented
// feature 1): the robot's raw per-image detections and an encoded image are
// persisted ahead of scan compilation, mirroring
// ingest_scan_data.py.
package scaningest

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rubic/ouroboros/internal/blobstore"
	"github.com/rubic/ouroboros/internal/inventorystore"
	"github.com/rubic/ouroboros/internal/model"
)

// Ingester persists ScanData partials and uploads the accompanying raw
// image.
type Ingester struct {
	store  inventorystore.Store
	blobs  *blobstore.Store
	log    zerolog.Logger
}

// New builds an Ingester. blobs may be nil, in which case the image upload
// step is skipped (ouroboros-core passes nil when AZURE_BLOB_CONN is unset).
func New(store inventorystore.Store, blobs *blobstore.Store, log zerolog.Logger) *Ingester {
	return &Ingester{store: store, blobs: blobs, log: log.With().Str("component", "scaningest").Logger()}
}

// Ingest persists every partial item and barcode in data, stamping each
// with data's scan_id, then uploads the raw image to blob storage.
func (ing *Ingester) Ingest(ctx context.Context, data model.ScanData) error {
	ing.log.Info().
		Str("scan_id", data.ScanID).
		Int("partial_items", len(data.PartialItems)).
		Int("barcodes", len(data.Barcodes)).
		Msg("ingesting scan data")

	for _, item := range data.PartialItems {
		item.Meta.ScanID = data.ScanID
		item.Meta.AisleIndex = data.AisleIndex
		if err := ing.store.InsertPartialItem(ctx, item); err != nil {
			return fmt.Errorf("scaningest: insert partial item: %w", err)
		}
	}
	for _, bc := range data.Barcodes {
		bc.Meta.ScanID = data.ScanID
		bc.Meta.AisleIndex = data.AisleIndex
		if err := ing.store.InsertPartialBarcode(ctx, bc); err != nil {
			return fmt.Errorf("scaningest: insert partial barcode: %w", err)
		}
	}

	ing.log.Info().
		Int("partial_items", len(data.PartialItems)).
		Int("barcodes", len(data.Barcodes)).
		Msg("inserted scan data to database")

	if ing.blobs == nil || data.Image == "" || data.ImageFilename == "" {
		return nil
	}

	raw, err := base64.StdEncoding.DecodeString(data.Image)
	if err != nil {
		return fmt.Errorf("scaningest: decode base64 image: %w", err)
	}
	blobName := fmt.Sprintf("%s_%s.webp", data.ImageFilename, data.ScanID)
	cfg, err := ing.blobs.UploadWebP(ctx, blobstore.ContainerScanImagesRaw, blobName, raw)
	if err != nil {
		return fmt.Errorf("scaningest: upload image: %w", err)
	}
	ing.log.Info().Int("bytes", len(raw)).Int("width", cfg.Width).Int("height", cfg.Height).Msg("uploaded scan image to Azure")
	return nil
}
