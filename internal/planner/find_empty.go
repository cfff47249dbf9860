package planner

import (
	"context"
	"fmt"
	"math"

	"github.com/rubic/ouroboros/internal/geometry"
	"github.com/rubic/ouroboros/internal/inventorystore"
	"github.com/rubic/ouroboros/internal/model"
)

// storeMargin and alignmentMargin are fixed by the domain (spec.md §4.4.1).
const (
	storeMargin     = 0.03
	alignmentMargin = 0.1
)

// findEmptyForStore picks a destination empty for a target item with no
// explicit destination_uuid: the smallest-area empty large enough to hold
// it, then narrowed to a preferred side if one is clearly implied by
// neighboring boxes.
func findEmptyForStore(ctx context.Context, store inventorystore.Store, target model.Item) (model.Item, error) {
	width := target.Relative.Dimension.X + 2*storeMargin
	height := target.Relative.Dimension.Y + storeMargin

	empty, err := store.FindBestEmpty(ctx, target.Meta.AisleIndex, target.Relative.Side, width, height)
	if err != nil {
		return model.Item{}, fmt.Errorf("%w: %v", ErrNoEmptyFound, err)
	}
	return buildPositionedEmpty(ctx, store, empty, width)
}

func buildPositionedEmpty(ctx context.Context, store inventorystore.Store, empty model.Item, width float64) (model.Item, error) {
	side, err := chooseSideInEmpty(ctx, store, empty)
	if err != nil {
		return model.Item{}, err
	}
	if side == nil {
		return empty, nil
	}

	emptyBBox, err := empty.BoundingBox()
	if err != nil {
		return model.Item{}, err
	}

	var leftLimit, rightLimit float64
	switch *side {
	case model.SideLeft:
		leftLimit = emptyBBox.BottomLeft.X
		rightLimit = leftLimit + width
	case model.SideRight:
		rightLimit = emptyBBox.TopRight.X
		leftLimit = rightLimit - width
	}
	return constructEmpty(empty, leftLimit, rightLimit), nil
}

// chooseSideInEmpty inspects items near the empty to decide whether storing
// should be flush left, flush right, or centered (no preference, nil).
func chooseSideInEmpty(ctx context.Context, store inventorystore.Store, empty model.Item) (*model.Side, error) {
	emptyBBox, err := empty.BoundingBox()
	if err != nil {
		return nil, err
	}
	cx := empty.Absolute.Position.Axis(empty.Absolute.AlignedAxis)
	nearby, err := store.FindNearby(ctx, empty.Meta.AisleIndex, empty.Relative.Side, cx, empty.Absolute.Position.Y)
	if err != nil {
		return nil, err
	}

	var itemsBelow []model.Item
	for _, it := range nearby {
		if it.Meta.ItemType != model.ItemTypeBox {
			continue
		}
		bb, err := it.BoundingBox()
		if err != nil {
			continue
		}
		if horizontalOverlap(bb, emptyBBox) <= 0 {
			continue
		}
		if math.Abs(bb.TopRight.Y-empty.Absolute.Position.Y) < alignmentMargin {
			itemsBelow = append(itemsBelow, it)
		}
	}
	if len(itemsBelow) > 0 {
		return nil, nil
	}

	return findNearestBoxSide(empty, emptyBBox, nearby)
}

func findNearestBoxSide(empty model.Item, emptyBBox model.Rectangle, nearby []model.Item) (*model.Side, error) {
	left, err := getLeftEdge(empty, emptyBBox, nearby)
	if err != nil {
		return nil, err
	}
	right, err := getRightEdge(empty, emptyBBox, nearby)
	if err != nil {
		return nil, err
	}

	leftDist := math.Inf(1)
	if left != nil && left.Meta.ItemType == model.ItemTypeBox {
		bb, _ := left.BoundingBox()
		leftDist = math.Abs(bb.TopRight.X - emptyBBox.BottomLeft.X)
	}
	rightDist := math.Inf(1)
	if right != nil && right.Meta.ItemType == model.ItemTypeBox {
		bb, _ := right.BoundingBox()
		rightDist = math.Abs(bb.BottomLeft.X - emptyBBox.TopRight.X)
	}

	if math.IsInf(leftDist, 1) && math.IsInf(rightDist, 1) {
		return nil, nil
	}
	side := model.SideLeft
	if rightDist < leftDist {
		side = model.SideRight
	}
	return &side, nil
}

// getLeftEdge finds the nearby item whose right edge aligns with the
// empty's left edge within alignmentMargin.
func getLeftEdge(empty model.Item, emptyBBox model.Rectangle, nearby []model.Item) (*model.Item, error) {
	for i := range nearby {
		it := nearby[i]
		if math.Abs(it.Absolute.Position.Y-empty.Absolute.Position.Y) >= alignmentMargin {
			continue
		}
		bb, err := it.BoundingBox()
		if err != nil {
			continue
		}
		if math.Abs(bb.TopRight.X-emptyBBox.BottomLeft.X) < alignmentMargin {
			return &it, nil
		}
	}
	return nil, nil
}

// getRightEdge finds the nearby item whose left edge aligns with the
// empty's right edge within alignmentMargin.
func getRightEdge(empty model.Item, emptyBBox model.Rectangle, nearby []model.Item) (*model.Item, error) {
	for i := range nearby {
		it := nearby[i]
		if math.Abs(it.Absolute.Position.Y-empty.Absolute.Position.Y) >= alignmentMargin {
			continue
		}
		bb, err := it.BoundingBox()
		if err != nil {
			continue
		}
		if math.Abs(bb.BottomLeft.X-emptyBBox.TopRight.X) < alignmentMargin {
			return &it, nil
		}
	}
	return nil, nil
}

// constructEmpty builds a new empty sharing base's identity and pose but
// narrowed along the aligned axis to [leftLimit, rightLimit].
func constructEmpty(base model.Item, leftLimit, rightLimit float64) model.Item {
	bb, _ := base.BoundingBox()
	center := (leftLimit + rightLimit) / 2
	width := rightLimit - leftLimit

	position := base.Absolute.Position
	switch base.Absolute.AlignedAxis {
	case "x":
		position.X = center
	case "z":
		position.Z = center
	}
	position.Y = bb.BottomLeft.Y

	out := base
	out.Absolute.Position = position
	out.Relative.Dimension = model.Vector3{X: width, Y: base.Relative.Dimension.Y, Z: base.Relative.Dimension.Z}
	out.Absolute.Dimension = model.Vector3{X: width, Y: base.Absolute.Dimension.Y, Z: base.Absolute.Dimension.Z}
	return out
}

// horizontalOverlap is the x-only overlap span, independent of vertical
// separation, used to tell whether a nearby box lies under an empty's
// horizontal span (spec.md §4.4.1's `overlap()` helper).
func horizontalOverlap(a, b model.Rectangle) float64 {
	x := math.Min(a.TopRight.X, b.TopRight.X) - math.Max(a.BottomLeft.X, b.BottomLeft.X)
	if x < 0 {
		return 0
	}
	return x
}
