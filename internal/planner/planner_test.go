package planner_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rubic/ouroboros/internal/inventorystore/memstore"
	"github.com/rubic/ouroboros/internal/model"
	"github.com/rubic/ouroboros/internal/planner"
)

func box(uuid string, aisle int, side model.Side, x, width, height float64) model.Item {
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
	}
}

func barcode(data, itemUUID string) model.Barcode {
	return model.Barcode{
		Meta:     model.BarcodeMeta{BarcodeType: model.BarcodeTypeGS1128, Data: data},
		ItemUUID: &itemUUID,
	}
}

// TestPlanSimpleFetch matches spec.md §8 scenario 1: a single unstacked box
// fetched by barcode yields one FETCH_INVENTORY job for that item.
func TestPlanSimpleFetch(t *testing.T) {
	store := memstore.New()
	store.SeedJobType(model.JobType{Vendor: "RUBIC", JobType: "FETCH_INVENTORY", GenericType: "FETCH_INVENTORY"})
	store.SeedItem(box("c4440f", 1, model.SideLeft, 1.0, 0.3, 0.3))
	store.SeedBarcode(barcode("00100897774117552794", "c4440f"))

	p := planner.New(store, zerolog.Nop())
	uid := "00100897774117552794"
	batch, err := p.Plan(context.Background(), []model.JobRequest{
		{JobType: "FETCH_INVENTORY", Vendor: "RUBIC", UID: &uid},
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(batch.Jobs) != 1 {
		t.Fatalf("Plan produced %d jobs, want 1", len(batch.Jobs))
	}
	if batch.Jobs[0].JobType != model.JobFetchInventory || batch.Jobs[0].Item.UUID != "c4440f" {
		t.Fatalf("unexpected job: %+v", batch.Jobs[0])
	}
}

// TestPlanStackedFetch matches spec.md §8 scenario 2: fetching a target with
// one box stacked on it emits fetch-stacked, fetch-target(future_uuid),
// store-stacked(destination=future_uuid), in that order.
func TestPlanStackedFetch(t *testing.T) {
	store := memstore.New()
	store.SeedJobType(model.JobType{Vendor: "RUBIC", JobType: "FETCH_INVENTORY", GenericType: "FETCH_INVENTORY"})

	target := box("3ebae2", 1, model.SideLeft, 1.0, 0.3, 0.3)
	target.Meta.Stack = []string{"4a6f4a"}
	above := box("4a6f4a", 1, model.SideLeft, 1.0, 0.3, 0.3)

	store.SeedItem(target)
	store.SeedItem(above)
	store.SeedBarcode(barcode("00100897774116019311", "3ebae2"))
	store.SeedBarcode(barcode("above-barcode", "4a6f4a"))

	p := planner.New(store, zerolog.Nop())
	uid := "00100897774116019311"
	batch, err := p.Plan(context.Background(), []model.JobRequest{
		{JobType: "FETCH_INVENTORY", Vendor: "RUBIC", UID: &uid},
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(batch.Jobs) != 3 {
		t.Fatalf("Plan produced %d jobs, want 3", len(batch.Jobs))
	}

	if batch.Jobs[0].JobType != model.JobFetchInventory || batch.Jobs[0].Item.UUID != "4a6f4a" {
		t.Fatalf("job 0 = %+v, want fetch of stacked item 4a6f4a", batch.Jobs[0])
	}
	if batch.Jobs[1].JobType != model.JobFetchInventory || batch.Jobs[1].Item.UUID != "3ebae2" {
		t.Fatalf("job 1 = %+v, want fetch of target 3ebae2", batch.Jobs[1])
	}
	if batch.Jobs[1].FutureUUID == nil {
		t.Fatal("job 1 (target fetch) should carry a future_uuid")
	}
	if batch.Jobs[2].JobType != model.JobStoreInventory || batch.Jobs[2].Item.UUID != "4a6f4a" {
		t.Fatalf("job 2 = %+v, want store of stacked item 4a6f4a", batch.Jobs[2])
	}
	if batch.Jobs[2].Destination == nil || batch.Jobs[2].Destination.UUID != *batch.Jobs[1].FutureUUID {
		t.Fatalf("job 2 destination uuid should equal job 1's future_uuid")
	}
}

// TestPlanRejectsMultipleStacked matches spec.md §3's invariant: a target
// with more than one item in its stack list is rejected.
func TestPlanRejectsMultipleStacked(t *testing.T) {
	store := memstore.New()
	store.SeedJobType(model.JobType{Vendor: "RUBIC", JobType: "FETCH_INVENTORY", GenericType: "FETCH_INVENTORY"})

	target := box("target", 1, model.SideLeft, 1.0, 0.3, 0.3)
	target.Meta.Stack = []string{"a", "b"}
	store.SeedItem(target)
	store.SeedBarcode(barcode("uid-1", "target"))

	p := planner.New(store, zerolog.Nop())
	uid := "uid-1"
	_, err := p.Plan(context.Background(), []model.JobRequest{
		{JobType: "FETCH_INVENTORY", Vendor: "RUBIC", UID: &uid},
	})
	if err != planner.ErrMultipleStacked {
		t.Fatalf("Plan error = %v, want ErrMultipleStacked", err)
	}
}

// TestPlanFetchDesignated matches spec.md §8 scenario 3.
func TestPlanFetchDesignated(t *testing.T) {
	store := memstore.New()
	conveyorUUID := "5d62ca"
	store.SeedJobType(model.JobType{
		Vendor: "NLS", JobType: "INT1", GenericType: "FETCH_DESIGNATED", ItemUUID: &conveyorUUID,
	})
	conveyor := model.Item{
		UUID: conveyorUUID,
		Meta: model.ItemMeta{ItemType: model.ItemTypeConveyor, Location: model.LocationInventory, Available: true},
	}
	store.SeedItem(conveyor)

	p := planner.New(store, zerolog.Nop())
	batch, err := p.Plan(context.Background(), []model.JobRequest{
		{JobType: "INT1", Vendor: "NLS"},
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(batch.Jobs) != 1 || batch.Jobs[0].JobType != model.JobFetchDesignated {
		t.Fatalf("unexpected jobs: %+v", batch.Jobs)
	}
	if batch.Jobs[0].Item.UUID != conveyorUUID || batch.Jobs[0].Item.Meta.ItemType != model.ItemTypeConveyor {
		t.Fatalf("unexpected fetch-designated item: %+v", batch.Jobs[0].Item)
	}
}

// TestPlanStoreWithExplicitDestination matches spec.md §8 scenario 4.
func TestPlanStoreWithExplicitDestination(t *testing.T) {
	store := memstore.New()
	store.SeedJobType(model.JobType{Vendor: "RUBIC", JobType: "STORE_INVENTORY", GenericType: "STORE_INVENTORY"})

	onRobot := box("item-667", 1, model.SideLeft, 1.0, 0.3, 0.3)
	onRobot.Meta.Location = model.LocationRobot
	onRobot.Meta.Available = false
	store.SeedItem(onRobot)
	store.SeedBarcode(barcode("uid-667", "item-667"))

	dest := box("aa451fb0", 1, model.SideLeft, 1.0, 1.0, 1.0)
	dest.Meta.ItemType = model.ItemTypeEmpty
	store.SeedItem(dest)

	p := planner.New(store, zerolog.Nop())
	uid := "uid-667"
	destUUID := "aa451fb0"
	batch, err := p.Plan(context.Background(), []model.JobRequest{
		{JobType: "STORE_INVENTORY", Vendor: "RUBIC", UID: &uid, DestinationUUID: &destUUID},
	})
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(batch.Jobs) != 1 || batch.Jobs[0].JobType != model.JobStoreInventory {
		t.Fatalf("unexpected jobs: %+v", batch.Jobs)
	}
	if batch.Jobs[0].Item.UUID != "item-667" {
		t.Fatalf("job item uuid = %s, want item-667", batch.Jobs[0].Item.UUID)
	}
	if batch.Jobs[0].Destination == nil || batch.Jobs[0].Destination.UUID != destUUID {
		t.Fatalf("job destination uuid = %+v, want %s", batch.Jobs[0].Destination, destUUID)
	}
}

// TestPlanDeterminism matches spec.md §8: planning the same batch twice
// against identical inventory yields jobs of identical job_type and item
// uuid in the same ordering.
func TestPlanDeterminism(t *testing.T) {
	newStore := func() *memstore.Store {
		store := memstore.New()
		store.SeedJobType(model.JobType{Vendor: "RUBIC", JobType: "FETCH_INVENTORY", GenericType: "FETCH_INVENTORY"})
		store.SeedItem(box("c4440f", 1, model.SideLeft, 1.0, 0.3, 0.3))
		store.SeedBarcode(barcode("uid-1", "c4440f"))
		return store
	}

	uid := "uid-1"
	reqs := []model.JobRequest{{JobType: "FETCH_INVENTORY", Vendor: "RUBIC", UID: &uid}}

	p1 := planner.New(newStore(), zerolog.Nop())
	batch1, err := p1.Plan(context.Background(), reqs)
	if err != nil {
		t.Fatalf("first Plan returned error: %v", err)
	}

	p2 := planner.New(newStore(), zerolog.Nop())
	batch2, err := p2.Plan(context.Background(), reqs)
	if err != nil {
		t.Fatalf("second Plan returned error: %v", err)
	}

	if len(batch1.Jobs) != len(batch2.Jobs) {
		t.Fatalf("job count differs: %d vs %d", len(batch1.Jobs), len(batch2.Jobs))
	}
	for i := range batch1.Jobs {
		if batch1.Jobs[i].JobType != batch2.Jobs[i].JobType || batch1.Jobs[i].Item.UUID != batch2.Jobs[i].Item.UUID {
			t.Fatalf("job %d differs: %+v vs %+v", i, batch1.Jobs[i], batch2.Jobs[i])
		}
	}
}
