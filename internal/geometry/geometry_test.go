package geometry_test

import (
	"testing"

	"github.com/rubic/ouroboros/internal/geometry"
	"github.com/rubic/ouroboros/internal/model"
)

func rect(blx, bly, trx, try float64) model.Rectangle {
	return model.Rectangle{
		BottomLeft: model.Vector2{X: blx, Y: bly},
		TopRight:   model.Vector2{X: trx, Y: try},
	}
}

func TestAreaAndOverlap(t *testing.T) {
	a := rect(0, 0, 2, 2)
	b := rect(1, 1, 3, 3)

	if got := geometry.Area(a); got != 4 {
		t.Fatalf("Area(a) = %v, want 4", got)
	}
	if got := geometry.OverlapArea(a, b); got != 1 {
		t.Fatalf("OverlapArea(a,b) = %v, want 1", got)
	}

	c := rect(10, 10, 11, 11)
	if got := geometry.OverlapArea(a, c); got != 0 {
		t.Fatalf("OverlapArea(a,c) = %v, want 0", got)
	}
}

func TestIsStackedOn(t *testing.T) {
	bottom := rect(0, 0, 1, 1)
	// Top sits right on the bottom's top edge, with full horizontal overlap.
	top := rect(0.1, 1.01, 0.9, 2)
	if !geometry.IsStackedOn(top, bottom) {
		t.Fatal("expected top to be stacked on bottom")
	}

	// Too far apart vertically.
	farTop := rect(0.1, 1.2, 0.9, 2)
	if geometry.IsStackedOn(farTop, bottom) {
		t.Fatal("expected far top to not be stacked on bottom")
	}

	// Horizontal overlap consumed entirely by the margin shrink.
	edgeTop := rect(0.95, 1.01, 1.2, 2)
	if geometry.IsStackedOn(edgeTop, bottom) {
		t.Fatal("expected edge-aligned top to not be considered stacked")
	}
}

func TestSliceRectangleSelfIsEmpty(t *testing.T) {
	r := rect(0, 0, 1, 1)
	slices, err := geometry.SliceRectangle(r, r)
	if err != nil {
		t.Fatalf("SliceRectangle(r,r) returned error: %v", err)
	}
	if len(slices) != 0 {
		t.Fatalf("SliceRectangle(r,r) = %v, want empty", slices)
	}
}

func TestSliceRectangleNoOverlap(t *testing.T) {
	base := rect(0, 0, 1, 1)
	cutter := rect(5, 5, 6, 6)
	if _, err := geometry.SliceRectangle(base, cutter); err != geometry.ErrNoOverlap {
		t.Fatalf("SliceRectangle with no overlap = %v, want ErrNoOverlap", err)
	}
}

func TestSliceRectangleLeavesStrips(t *testing.T) {
	base := rect(0, 0, 3, 1)
	cutter := rect(1, 0, 2, 1)
	slices, err := geometry.SliceRectangle(base, cutter)
	if err != nil {
		t.Fatalf("SliceRectangle returned error: %v", err)
	}
	if len(slices) != 2 {
		t.Fatalf("SliceRectangle = %d slices, want 2 (left+right strips)", len(slices))
	}
}

func TestBoundingBox(t *testing.T) {
	pos := model.Vector3{X: 2, Y: 1, Z: 0}
	dim := model.Vector3{X: 1, Y: 0.5}
	bb, err := geometry.BoundingBox(pos, "x", dim)
	if err != nil {
		t.Fatalf("BoundingBox returned error: %v", err)
	}
	want := rect(1.5, 1, 2.5, 1.5)
	if bb != want {
		t.Fatalf("BoundingBox = %+v, want %+v", bb, want)
	}
}

func TestBoundingBoxMissingAxis(t *testing.T) {
	_, err := geometry.BoundingBox(model.Vector3{}, "", model.Vector3{})
	if err != geometry.ErrMissingAlignedAxis {
		t.Fatalf("BoundingBox with no axis = %v, want ErrMissingAlignedAxis", err)
	}
}
