package scancompiler_test

import (
	"testing"

	"github.com/rubic/ouroboros/internal/model"
	"github.com/rubic/ouroboros/internal/scancompiler"
)

func partialBarcode(x float64, data string) model.PartialBarcode {
	return model.PartialBarcode{
		Meta: model.PartialBarcodeMeta{
			BarcodeType: model.BarcodeTypeGS1128,
			Data:        data,
			ScanID:      "scan-1",
			AisleIndex:  3,
		},
		Absolute: model.PartialBarcodeAbsolute{
			Position:    model.Vector3{X: x, Y: 0},
			Dimension:   model.Vector3{X: 0.05, Y: 0.05},
			AlignedAxis: "x",
		},
		Relative: model.PartialBarcodeRelative{
			Side: model.SideLeft,
		},
	}
}

func TestMergeBarcodesClustersByDataAndDistance(t *testing.T) {
	a := partialBarcode(1.0, "CODE-A")
	b := partialBarcode(1.01, "CODE-A")
	c := partialBarcode(1.0, "CODE-B") // same position, different data: no merge

	barcodes, err := scancompiler.MergeBarcodes([]model.PartialBarcode{a, b, c})
	if err != nil {
		t.Fatalf("MergeBarcodes returned error: %v", err)
	}
	if len(barcodes) != 2 {
		t.Fatalf("MergeBarcodes = %d barcodes, want 2 (one per data value)", len(barcodes))
	}
}

func TestMergeBarcodesDistantDuplicatesDoNotMerge(t *testing.T) {
	a := partialBarcode(0.0, "CODE-A")
	b := partialBarcode(5.0, "CODE-A")

	barcodes, err := scancompiler.MergeBarcodes([]model.PartialBarcode{a, b})
	if err != nil {
		t.Fatalf("MergeBarcodes returned error: %v", err)
	}
	if len(barcodes) != 2 {
		t.Fatalf("MergeBarcodes = %d barcodes, want 2 (too far apart to merge)", len(barcodes))
	}
}

func TestCombineBarcodesAssignsFirstContainingItem(t *testing.T) {
	item := model.Item{
		UUID: "item-1",
		Absolute: model.ItemAbsolute{
			Position:    model.Vector3{X: 1.0, Y: 0},
			AlignedAxis: "x",
		},
		Relative: model.ItemRelative{Dimension: model.Vector3{X: 2.0, Y: 1.0}},
	}
	bc := model.Barcode{
		Absolute: model.BarcodeAbsolute{
			Position:    model.Vector3{X: 1.0, Y: 0.3},
			Dimension:   model.Vector3{X: 0.1, Y: 0.05},
			AlignedAxis: "x",
		},
	}

	items := []model.Item{item}
	barcodes := []model.Barcode{bc}
	if err := scancompiler.CombineBarcodes(items, barcodes); err != nil {
		t.Fatalf("CombineBarcodes returned error: %v", err)
	}
	if len(items[0].Barcodes) != 1 {
		t.Fatalf("expected barcode assigned to item, got %d barcodes", len(items[0].Barcodes))
	}
	if barcodes[0].ItemUUID == nil || *barcodes[0].ItemUUID != "item-1" {
		t.Fatalf("expected barcode.ItemUUID = item-1, got %v", barcodes[0].ItemUUID)
	}
}
