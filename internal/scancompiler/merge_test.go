package scancompiler_test

import (
	"testing"

	"github.com/rubic/ouroboros/internal/model"
	"github.com/rubic/ouroboros/internal/scancompiler"
)

func partialItem(x, width, height float64) model.PartialItem {
	return model.PartialItem{
		Meta: model.PartialItemMeta{
			ItemType:   model.ItemTypeBox,
			Confidence: 0.9,
			ScanID:     "scan-1",
			AisleIndex: 3,
		},
		Absolute: model.PartialItemAbsolute{
			Position:    model.Vector3{X: x, Y: 0},
			Dimension:   model.Vector3{X: width, Y: height},
			AlignedAxis: "x",
		},
		Relative: model.PartialItemRelative{
			Side:      model.SideLeft,
			Dimension: model.Vector3{X: width, Y: height},
		},
	}
}

func TestMergePartialItemsClustersOverlapping(t *testing.T) {
	// Two detections of the same box, heavily overlapping.
	a := partialItem(1.0, 1.0, 1.0)
	b := partialItem(1.1, 1.0, 1.0)
	// A separate, distant box.
	c := partialItem(10.0, 1.0, 1.0)

	items, err := scancompiler.MergePartialItems([]model.PartialItem{a, b, c})
	if err != nil {
		t.Fatalf("MergePartialItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("MergePartialItems = %d items, want 2", len(items))
	}
}

func TestMergePartialItemsRejectsInconsistentFields(t *testing.T) {
	a := partialItem(1.0, 1.0, 1.0)
	b := partialItem(1.0, 1.0, 1.0)
	b.Meta.ScanID = "scan-2"
	b.Absolute.Position.X = 1.0 // force into the same cluster

	_, err := scancompiler.MergePartialItems([]model.PartialItem{a, b})
	if err == nil {
		t.Fatal("expected error for inconsistent scan_id within one cluster")
	}
}

func TestMergePartialItemsNoOverlapStaySeparate(t *testing.T) {
	a := partialItem(0, 1.0, 1.0)
	b := partialItem(5, 1.0, 1.0)

	items, err := scancompiler.MergePartialItems([]model.PartialItem{a, b})
	if err != nil {
		t.Fatalf("MergePartialItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("MergePartialItems = %d items, want 2 separate items", len(items))
	}
}
