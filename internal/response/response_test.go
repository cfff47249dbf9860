package response_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rubic/ouroboros/internal/inventorystore/memstore"
	"github.com/rubic/ouroboros/internal/model"
	"github.com/rubic/ouroboros/internal/response"
)

func invBox(uuid string, aisle int, side model.Side, x, width, height float64) model.Item {
	return model.Item{
		UUID: uuid,
		Meta: model.ItemMeta{
			ItemType:   model.ItemTypeBox,
			Location:   model.LocationInventory,
			Available:  true,
			AisleIndex: aisle,
		},
		Absolute: model.ItemAbsolute{
			Position:    model.Vector3{X: x, Y: 0},
			Dimension:   model.Vector3{X: width, Y: height},
			AlignedAxis: "x",
		},
		Relative: model.ItemRelative{
			Dimension: model.Vector3{X: width, Y: height},
			Side:      side,
		},
		Barcodes: []model.Barcode{{Meta: model.BarcodeMeta{BarcodeType: model.BarcodeTypeGS1128, Data: "primary-" + uuid}}},
	}
}

func succeeded() *bool {
	b := true
	return &b
}

// TestHandleFetchInventory matches spec.md §8 scenario 5: a successful
// fetch moves the item to the robot, leaves behind an available empty at
// its footprint, and clears the job item's uuid from any stack list it was
// a member of.
func TestHandleFetchInventory(t *testing.T) {
	store := memstore.New()
	target := invBox("item-1", 2, model.SideLeft, 3.0, 0.3, 0.3)
	store.SeedItem(target)

	above := invBox("item-2", 2, model.SideLeft, 3.0, 0.3, 0.3)
	above.Meta.Stack = []string{"item-1"}
	store.SeedItem(above)

	p := response.New(store, zerolog.Nop())
	job := model.RobotJob{
		JobID:   "job-1",
		JobType: model.JobFetchInventory,
		Item:    target,
		Success: succeeded(),
	}

	updates, err := p.ProcessJob(context.Background(), job)
	if err != nil {
		t.Fatalf("ProcessJob returned error: %v", err)
	}
	if len(updates) == 0 {
		t.Fatal("expected at least one update")
	}

	moved, err := store.FindItemByUUID(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("FindItemByUUID(item-1): %v", err)
	}
	if moved.Meta.Location != model.LocationRobot || moved.Meta.Available {
		t.Fatalf("fetched item not moved to robot: %+v", moved.Meta)
	}

	updatedAbove, err := store.FindItemByUUID(context.Background(), "item-2")
	if err != nil {
		t.Fatalf("FindItemByUUID(item-2): %v", err)
	}
	for _, u := range updatedAbove.Meta.Stack {
		if u == "item-1" {
			t.Fatal("fetched item uuid should have been removed from stacked-on item's stack")
		}
	}

	var sawEmpty bool
	for _, u := range updates {
		if u.Change == model.ChangeCreated && u.Item.Meta.ItemType == model.ItemTypeEmpty {
			sawEmpty = true
		}
	}
	if !sawEmpty {
		t.Fatal("expected a created empty in the update set")
	}
}

// TestHandleFetchInventoryRejectsMissingFromInventory checks the
// location=inventory precondition.
func TestHandleFetchInventoryRejectsMissingFromInventory(t *testing.T) {
	store := memstore.New()
	onRobot := invBox("item-1", 2, model.SideLeft, 3.0, 0.3, 0.3)
	onRobot.Meta.Location = model.LocationRobot
	onRobot.Meta.Available = false
	store.SeedItem(onRobot)

	p := response.New(store, zerolog.Nop())
	job := model.RobotJob{JobID: "job-1", JobType: model.JobFetchInventory, Item: onRobot, Success: succeeded()}

	if _, err := p.ProcessJob(context.Background(), job); err == nil {
		t.Fatal("expected error for item not in inventory")
	}
}

// TestHandleStoreInventoryPreservesReportedPosition matches the
// reconciliation rule that a stored item keeps the position the robot
// reported, not the destination's prior footprint; only its meta fields and
// the destination record change.
func TestHandleStoreInventoryPreservesReportedPosition(t *testing.T) {
	store := memstore.New()
	dest := invBox("empty-1", 2, model.SideLeft, 5.0, 1.0, 1.0)
	dest.Meta.ItemType = model.ItemTypeEmpty
	dest.Meta.Available = true
	dest.Barcodes = nil
	store.SeedItem(dest)

	storedItem := invBox("item-1", 2, model.SideLeft, 5.0, 0.3, 0.3)
	storedItem.Meta.Location = model.LocationRobot
	storedItem.Meta.Available = false

	p := response.New(store, zerolog.Nop())
	destRef := dest
	job := model.RobotJob{
		JobID:       "job-1",
		JobType:     model.JobStoreInventory,
		Item:        storedItem,
		Destination: &destRef,
		Success:     succeeded(),
	}

	if _, err := p.ProcessJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessJob returned error: %v", err)
	}

	stored, err := store.FindItemByUUID(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("FindItemByUUID(item-1): %v", err)
	}
	if stored.Absolute.Position.X != 5.0 {
		t.Fatalf("stored item position.X = %v, want unchanged 5.0", stored.Absolute.Position.X)
	}
	if stored.Meta.ItemType != model.ItemTypeBox || !stored.Meta.Available || stored.Meta.Location != model.LocationInventory {
		t.Fatalf("stored item meta not reconciled: %+v", stored.Meta)
	}

	if _, err := store.FindItemByUUID(context.Background(), "empty-1"); err == nil {
		t.Fatal("destination empty should have been deleted")
	}
}

// TestHandleFetchDesignated matches spec.md §8 scenario 3: a fresh item
// from a conveyor is assigned a uuid and inserted with its barcode.
func TestHandleFetchDesignated(t *testing.T) {
	store := memstore.New()
	p := response.New(store, zerolog.Nop())

	item := model.Item{
		Meta: model.ItemMeta{ItemType: model.ItemTypeBox, Location: model.LocationRobot},
		Barcodes: []model.Barcode{
			{Meta: model.BarcodeMeta{BarcodeType: model.BarcodeTypeGS1128, Data: "fresh-barcode"}},
		},
	}
	job := model.RobotJob{JobID: "job-1", JobType: model.JobFetchDesignated, Item: item, Success: succeeded()}

	updates, err := p.ProcessJob(context.Background(), job)
	if err != nil {
		t.Fatalf("ProcessJob returned error: %v", err)
	}
	if len(updates) != 1 || updates[0].Item.UUID == "" {
		t.Fatalf("expected one update with an assigned uuid, got %+v", updates)
	}

	found, err := store.FindItemByBarcodeData(context.Background(), "fresh-barcode")
	if err != nil {
		t.Fatalf("FindItemByBarcodeData: %v", err)
	}
	if found.UUID != updates[0].Item.UUID {
		t.Fatalf("inserted item uuid mismatch: %s vs %s", found.UUID, updates[0].Item.UUID)
	}
}

// TestHandleFetchDesignatedRejectsDuplicateBarcode matches the collision
// check against existing inventory.
func TestHandleFetchDesignatedRejectsDuplicateBarcode(t *testing.T) {
	store := memstore.New()
	existing := invBox("item-1", 1, model.SideLeft, 1.0, 0.3, 0.3)
	existing.Barcodes = []model.Barcode{{Meta: model.BarcodeMeta{BarcodeType: model.BarcodeTypeGS1128, Data: "dup"}}}
	store.SeedItem(existing)
	store.SeedBarcode(model.Barcode{Meta: model.BarcodeMeta{BarcodeType: model.BarcodeTypeGS1128, Data: "dup"}, ItemUUID: strPtr("item-1")})

	p := response.New(store, zerolog.Nop())
	item := model.Item{
		Meta:     model.ItemMeta{ItemType: model.ItemTypeBox, Location: model.LocationRobot},
		Barcodes: []model.Barcode{{Meta: model.BarcodeMeta{BarcodeType: model.BarcodeTypeGS1128, Data: "dup"}}},
	}
	job := model.RobotJob{JobID: "job-1", JobType: model.JobFetchDesignated, Item: item, Success: succeeded()}

	if _, err := p.ProcessJob(context.Background(), job); err != response.ErrDuplicateItem {
		t.Fatalf("ProcessJob error = %v, want ErrDuplicateItem", err)
	}
}

// TestHandleStoreDesignated matches spec.md §8 scenario 4: an item stored
// onto a conveyor is removed from inventory entirely.
func TestHandleStoreDesignated(t *testing.T) {
	store := memstore.New()
	item := invBox("item-1", 1, model.SideLeft, 1.0, 0.3, 0.3)
	store.SeedItem(item)
	store.SeedBarcode(item.Barcodes[0])

	p := response.New(store, zerolog.Nop())
	job := model.RobotJob{JobID: "job-1", JobType: model.JobStoreDesignated, Item: item, Success: succeeded()}

	updates, err := p.ProcessJob(context.Background(), job)
	if err != nil {
		t.Fatalf("ProcessJob returned error: %v", err)
	}
	if len(updates) != 1 || updates[0].Change != model.ChangeDeleted {
		t.Fatalf("expected a single DELETED update, got %+v", updates)
	}
	if _, err := store.FindItemByUUID(context.Background(), "item-1"); err == nil {
		t.Fatal("item should have been deleted from inventory")
	}
}

// TestProcessJobSkipsFailedJob matches spec.md §7: a job reported as failed
// by the robot produces no updates and no error, letting the rest of the
// batch proceed.
func TestProcessJobSkipsFailedJob(t *testing.T) {
	store := memstore.New()
	p := response.New(store, zerolog.Nop())

	failed := false
	job := model.RobotJob{
		JobID:   "job-1",
		JobType: model.JobFetchInventory,
		Item:    invBox("item-1", 1, model.SideLeft, 1.0, 0.3, 0.3),
		Success: &failed,
	}

	updates, err := p.ProcessJob(context.Background(), job)
	if err != nil {
		t.Fatalf("ProcessJob returned error for a failed job: %v", err)
	}
	if len(updates) != 0 {
		t.Fatalf("expected no updates for a failed job, got %+v", updates)
	}
}

// TestProcessJobRejectsMissingPrimaryBarcode matches the universal
// precondition applied across all four job kinds.
func TestProcessJobRejectsMissingPrimaryBarcode(t *testing.T) {
	store := memstore.New()
	p := response.New(store, zerolog.Nop())

	item := invBox("item-1", 1, model.SideLeft, 1.0, 0.3, 0.3)
	item.Barcodes = nil
	job := model.RobotJob{JobID: "job-1", JobType: model.JobFetchInventory, Item: item, Success: succeeded()}

	if _, err := p.ProcessJob(context.Background(), job); err != response.ErrMissingPrimaryBarcode {
		t.Fatalf("ProcessJob error = %v, want ErrMissingPrimaryBarcode", err)
	}
}

func strPtr(s string) *string { return &s }
