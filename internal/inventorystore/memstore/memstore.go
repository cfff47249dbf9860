// Package memstore is an in-memory inventorystore.Store, guarded by a
// single mutex the way the teacher's warehouseImpl guards its grid and
// robot map. It backs the unit tests, playing the role
// ouroboros/test/mock_database.py played for the original system.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/rubic/ouroboros/internal/geometry"
	"github.com/rubic/ouroboros/internal/inventorystore"
	"github.com/rubic/ouroboros/internal/model"
)

// Store is an in-memory implementation of inventorystore.Store.
type Store struct {
	mu sync.RWMutex

	partialItems    []model.PartialItem
	partialBarcodes []model.PartialBarcode

	items    map[string]model.Item
	barcodes map[string]model.Barcode // keyed by meta.data

	jobTypes map[jobTypeKey]model.JobType

	batches map[string]model.RobotBatch
	jobs    map[string]model.RobotJob
}

type jobTypeKey struct {
	vendor  string
	jobType string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		items:    make(map[string]model.Item),
		barcodes: make(map[string]model.Barcode),
		jobTypes: make(map[jobTypeKey]model.JobType),
		batches:  make(map[string]model.RobotBatch),
		jobs:     make(map[string]model.RobotJob),
	}
}

// SeedJobType registers a (vendor, job_type) configuration row, standing in
// for the read-only FOS_Translate database in tests.
func (s *Store) SeedJobType(jt model.JobType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobTypes[jobTypeKey{jt.Vendor, jt.JobType}] = jt
}

// SeedItem inserts an item directly, bypassing compilation, for test setup.
func (s *Store) SeedItem(item model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.UUID] = item
}

// SeedBarcode inserts a barcode directly, bypassing compilation, for test
// setup.
func (s *Store) SeedBarcode(bc model.Barcode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.barcodes[bc.Meta.Data] = bc
}

func (s *Store) InsertPartialItem(_ context.Context, item model.PartialItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partialItems = append(s.partialItems, item)
	return nil
}

func (s *Store) InsertPartialBarcode(_ context.Context, bc model.PartialBarcode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partialBarcodes = append(s.partialBarcodes, bc)
	return nil
}

func (s *Store) FindPartialItems(_ context.Context, f inventorystore.PartialItemFilter) ([]model.PartialItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.PartialItem
	for _, p := range s.partialItems {
		if p.Meta.ScanID != f.ScanID || p.Meta.AisleIndex != f.AisleIndex ||
			p.Meta.ItemType != f.ItemType || p.Relative.Side != f.Side {
			continue
		}
		if p.Meta.Confidence < f.ConfidenceThreshold {
			continue
		}
		if p.Absolute.Dimension.X < f.MinWidth {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Absolute.Position.X < out[j].Absolute.Position.X
	})
	return out, nil
}

func (s *Store) FindPartialBarcodes(_ context.Context, f inventorystore.PartialBarcodeFilter) ([]model.PartialBarcode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.PartialBarcode
	for _, p := range s.partialBarcodes {
		if p.Meta.ScanID == f.ScanID && p.Meta.AisleIndex == f.AisleIndex && p.Relative.Side == f.Side {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Absolute.Position.X < out[j].Absolute.Position.X
	})
	return out, nil
}

func (s *Store) DistinctPartialItemAisleIndexes(_ context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int]bool)
	var out []int
	for _, p := range s.partialItems {
		if !seen[p.Meta.AisleIndex] {
			seen[p.Meta.AisleIndex] = true
			out = append(out, p.Meta.AisleIndex)
		}
	}
	sort.Ints(out)
	return out, nil
}

func (s *Store) InsertItems(_ context.Context, items []model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.items[it.UUID] = it
	}
	return nil
}

func (s *Store) InsertItem(_ context.Context, item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.UUID] = item
	return nil
}

func (s *Store) UpsertItem(_ context.Context, item model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.UUID] = item
	return nil
}

func (s *Store) DeleteItem(_ context.Context, uuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[uuid]; !ok {
		return inventorystore.ErrNotFound
	}
	delete(s.items, uuid)
	return nil
}

func (s *Store) DeleteNonConveyorItems(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uuid, it := range s.items {
		if it.Meta.ItemType != model.ItemTypeConveyor {
			delete(s.items, uuid)
		}
	}
	return nil
}

func (s *Store) FindItemByUUID(_ context.Context, uuid string) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[uuid]
	if !ok {
		return model.Item{}, inventorystore.ErrNotFound
	}
	return it, nil
}

func (s *Store) FindItemByBarcodeData(ctx context.Context, data string) (model.Item, error) {
	bc, err := s.FindBarcodeByData(ctx, data)
	if err != nil {
		return model.Item{}, err
	}
	if bc.ItemUUID == nil {
		return model.Item{}, inventorystore.ErrNotFound
	}
	item, err := s.FindItemByUUID(ctx, *bc.ItemUUID)
	if err != nil {
		return model.Item{}, err
	}
	item.PrimaryBarcode = &bc
	return item, nil
}

func (s *Store) FindNearby(_ context.Context, aisleIndex int, side model.Side, cx, cy float64) ([]model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Item
	for _, it := range s.items {
		if it.Meta.Location != model.LocationInventory {
			continue
		}
		if it.Meta.AisleIndex != aisleIndex || it.Relative.Side != side {
			continue
		}
		if abs(it.Absolute.Position.X-cx) < inventorystore.NearbyDefaultDX &&
			abs(it.Absolute.Position.Y-cy) < inventorystore.NearbyDefaultDY {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Store) FindBestEmpty(_ context.Context, aisleIndex int, side model.Side, minWidth, minHeight float64) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best model.Item
	bestArea := -1.0
	for _, it := range s.items {
		if it.Meta.ItemType != model.ItemTypeEmpty {
			continue
		}
		if it.Meta.AisleIndex != aisleIndex || it.Relative.Side != side {
			continue
		}
		if !(it.Relative.Dimension.X > minWidth && it.Relative.Dimension.Y > minHeight) {
			continue
		}
		area := it.Relative.Dimension.X * it.Relative.Dimension.Y
		if bestArea < 0 || area < bestArea {
			best = it
			bestArea = area
		}
	}
	if bestArea < 0 {
		return model.Item{}, inventorystore.ErrNotFound
	}
	return best, nil
}

func (s *Store) FindItemsWithUUIDInStack(_ context.Context, uuid string) ([]model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Item
	for _, it := range s.items {
		for _, stackUUID := range it.Meta.Stack {
			if stackUUID == uuid {
				out = append(out, it)
				break
			}
		}
	}
	return out, nil
}

func (s *Store) InsertBarcode(_ context.Context, bc model.Barcode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.barcodes[bc.Meta.Data] = bc
	return nil
}

func (s *Store) InsertBarcodes(_ context.Context, barcodes []model.Barcode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bc := range barcodes {
		s.barcodes[bc.Meta.Data] = bc
	}
	return nil
}

func (s *Store) DeleteAllBarcodes(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.barcodes = make(map[string]model.Barcode)
	return nil
}

func (s *Store) DeleteBarcodesByItemUUID(_ context.Context, itemUUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for data, bc := range s.barcodes {
		if bc.ItemUUID != nil && *bc.ItemUUID == itemUUID {
			delete(s.barcodes, data)
		}
	}
	return nil
}

func (s *Store) FindBarcodeByData(_ context.Context, data string) (model.Barcode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bc, ok := s.barcodes[data]
	if !ok {
		return model.Barcode{}, inventorystore.ErrNotFound
	}
	return bc, nil
}

func (s *Store) FindBarcodesByData(_ context.Context, data []string) ([]model.Barcode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[string]bool, len(data))
	for _, d := range data {
		want[d] = true
	}
	var out []model.Barcode
	for d, bc := range s.barcodes {
		if want[d] {
			out = append(out, bc)
		}
	}
	return out, nil
}

func (s *Store) FindPrimaryBarcode(_ context.Context, itemUUID string) (model.Barcode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, bc := range s.barcodes {
		if bc.ItemUUID != nil && *bc.ItemUUID == itemUUID && bc.Meta.BarcodeType.IsPrimary() {
			return bc, nil
		}
	}
	return model.Barcode{}, inventorystore.ErrNotFound
}

func (s *Store) FindJobType(_ context.Context, vendor, jobType string) (model.JobType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jt, ok := s.jobTypes[jobTypeKey{vendor, jobType}]
	if !ok {
		return model.JobType{}, inventorystore.ErrNotFound
	}
	return jt, nil
}

func (s *Store) InsertBatch(_ context.Context, batch model.RobotBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[batch.BatchID] = batch
	return nil
}

func (s *Store) InsertJob(_ context.Context, job model.RobotJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = job
	return nil
}

func (s *Store) ReplaceBatch(_ context.Context, batch model.RobotBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[batch.BatchID] = batch
	return nil
}

func (s *Store) ReplaceJob(_ context.Context, job model.RobotJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = job
	return nil
}

// BoundingBoxOf is a small test/debug helper mirroring the free-function
// bounding_box pattern used throughout the response/planner packages.
func BoundingBoxOf(it model.Item) (model.Rectangle, error) {
	return geometry.BoundingBox(it.Absolute.Position, it.Absolute.AlignedAxis, it.Relative.Dimension)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

var _ inventorystore.Store = (*Store)(nil)
