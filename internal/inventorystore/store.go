// Package inventorystore defines the domain-level queries the scan
// compiler, batch planner, and response processor use against the
// authoritative inventory state (spec.md §4.3), plus two implementations:
// a MongoDB-backed store (mongostore) mirroring the original system's
// collections, and an in-memory store (memstore) used by tests.
package inventorystore

import (
	"context"
	"errors"

	"github.com/rubic/ouroboros/internal/model"
)

// Sentinel errors returned by Store implementations. Handlers match on
// these with errors.Is to decide error-kind-specific logging/policy
// (spec.md §7).
var (
	// ErrNotFound is returned when a lookup by uuid, barcode data, or
	// (vendor, job_type) matches nothing.
	ErrNotFound = errors.New("inventorystore: not found")
	// ErrAmbiguous is returned when a lookup that must be unique (barcode
	// data) matches more than one document.
	ErrAmbiguous = errors.New("inventorystore: ambiguous match")
)

// NearbyDefaultDX and NearbyDefaultDY are the default half-widths of the
// FindNearby box query (spec.md §4.3).
const (
	NearbyDefaultDX = 2.0
	NearbyDefaultDY = 1.0
)

// Store is the persistence port the scan compiler, planner, and response
// processor depend on. It is intentionally flat (no transactions): spec.md
// §5 explicitly does not assume cross-document transactional isolation.
type Store interface {
	// Partial collections (scan ingest writes, scan compiler reads).
	InsertPartialItem(ctx context.Context, item model.PartialItem) error
	InsertPartialBarcode(ctx context.Context, barcode model.PartialBarcode) error
	FindPartialItems(ctx context.Context, f PartialItemFilter) ([]model.PartialItem, error)
	FindPartialBarcodes(ctx context.Context, f PartialBarcodeFilter) ([]model.PartialBarcode, error)
	DistinctPartialItemAisleIndexes(ctx context.Context) ([]int, error)

	// Inventory items.
	InsertItems(ctx context.Context, items []model.Item) error
	InsertItem(ctx context.Context, item model.Item) error
	UpsertItem(ctx context.Context, item model.Item) error
	DeleteItem(ctx context.Context, uuid string) error
	DeleteNonConveyorItems(ctx context.Context) error
	FindItemByUUID(ctx context.Context, uuid string) (model.Item, error)
	FindItemByBarcodeData(ctx context.Context, data string) (model.Item, error)
	FindNearby(ctx context.Context, aisleIndex int, side model.Side, cx, cy float64) ([]model.Item, error)
	FindBestEmpty(ctx context.Context, aisleIndex int, side model.Side, minWidth, minHeight float64) (model.Item, error)
	FindItemsWithUUIDInStack(ctx context.Context, uuid string) ([]model.Item, error)

	// Barcodes.
	InsertBarcode(ctx context.Context, barcode model.Barcode) error
	InsertBarcodes(ctx context.Context, barcodes []model.Barcode) error
	DeleteAllBarcodes(ctx context.Context) error
	DeleteBarcodesByItemUUID(ctx context.Context, itemUUID string) error
	FindBarcodeByData(ctx context.Context, data string) (model.Barcode, error)
	FindBarcodesByData(ctx context.Context, data []string) ([]model.Barcode, error)
	FindPrimaryBarcode(ctx context.Context, itemUUID string) (model.Barcode, error)

	// Job types (read-only, FOS_Translate database in the original system).
	FindJobType(ctx context.Context, vendor, jobType string) (model.JobType, error)

	// Robot batches/jobs.
	InsertBatch(ctx context.Context, batch model.RobotBatch) error
	InsertJob(ctx context.Context, job model.RobotJob) error
	ReplaceBatch(ctx context.Context, batch model.RobotBatch) error
	ReplaceJob(ctx context.Context, job model.RobotJob) error
}

// PartialItemFilter narrows a partial-item query to one compilation
// triple, matching spec.md §4.2 step 1.
type PartialItemFilter struct {
	ScanID              string
	AisleIndex           int
	Side                 model.Side
	ItemType             model.ItemType
	ConfidenceThreshold  float64
	MinWidth             float64
}

// PartialBarcodeFilter narrows a partial-barcode query to one (aisle, side)
// scope.
type PartialBarcodeFilter struct {
	ScanID     string
	AisleIndex int
	Side       model.Side
}
