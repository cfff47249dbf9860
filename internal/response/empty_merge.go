package response

import (
	"context"
	"math"

	"github.com/rubic/ouroboros/internal/model"
)

// mergeMargin is the alignment tolerance used to decide whether a nearby
// item's edge abuts the empty being merged (spec.md §4.5.1).
const mergeMargin = 0.1

// mergeEmpty implements spec.md §4.5.1's empty-merge algorithm: a freshly
// created empty is expanded to absorb the shelf space its neighbors leave
// available, rather than persisted at its bare single-item footprint.
// Returns the (possibly expanded) empty and any ItemUpdates for absorbed
// neighbors that were deleted.
func (p *Processor) mergeEmpty(ctx context.Context, empty model.Item) (model.Item, []model.ItemUpdate, error) {
	cx := empty.Absolute.Position.Axis(empty.Absolute.AlignedAxis)
	nearby, err := p.store.FindNearby(ctx, empty.Meta.AisleIndex, empty.Relative.Side, cx, empty.Absolute.Position.Y)
	if err != nil {
		return empty, nil, err
	}
	nearby = excludeUUID(nearby, empty.UUID)

	emptyBBox, err := empty.BoundingBox()
	if err != nil {
		return empty, nil, err
	}

	below, err := findBelowBox(empty, emptyBBox, nearby)
	if err != nil {
		return empty, nil, err
	}

	var deleted []model.ItemUpdate
	if below != nil {
		empty, err = expandOverBelow(empty, emptyBBox, *below, nearby)
		if err != nil {
			return empty, nil, err
		}
	} else {
		empty, deleted, err = p.expandToSideEdges(ctx, empty, emptyBBox, nearby)
		if err != nil {
			return empty, deleted, err
		}
	}

	emptyBBox, err = empty.BoundingBox()
	if err != nil {
		return empty, deleted, err
	}
	var aboveDeleted []model.ItemUpdate
	empty, aboveDeleted, err = p.expandAbove(ctx, empty, emptyBBox, nearby)
	if err != nil {
		return empty, deleted, err
	}
	deleted = append(deleted, aboveDeleted...)

	return empty, deleted, nil
}

// findBelowBox picks the nearby box, if any, whose top edge sits within
// mergeMargin of the empty's bottom and whose horizontal span overlaps it -
// the box the empty is resting directly above.
func findBelowBox(empty model.Item, emptyBBox model.Rectangle, nearby []model.Item) (*model.Item, error) {
	var best *model.Item
	bestOverlap := -1.0
	for i := range nearby {
		it := nearby[i]
		if it.Meta.ItemType != model.ItemTypeBox {
			continue
		}
		bb, err := it.BoundingBox()
		if err != nil {
			continue
		}
		overlap := horizontalSpan(bb, emptyBBox)
		if overlap <= 0 {
			continue
		}
		if math.Abs(bb.TopRight.Y-empty.Absolute.Position.Y) >= mergeMargin {
			continue
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			item := it
			best = &item
		}
	}
	return best, nil
}

// expandOverBelow widens empty to the below box's horizontal span, further
// clamped by any adjacent box edges so the expansion never overlaps a box
// beside it.
func expandOverBelow(empty model.Item, emptyBBox model.Rectangle, below model.Item, nearby []model.Item) (model.Item, error) {
	belowBBox, err := below.BoundingBox()
	if err != nil {
		return model.Item{}, err
	}
	leftLimit := belowBBox.BottomLeft.X
	rightLimit := belowBBox.TopRight.X

	left, right := findEdges(empty, emptyBBox, nearby)
	if left != nil && left.Meta.ItemType == model.ItemTypeBox {
		lb, err := left.BoundingBox()
		if err == nil && lb.TopRight.X > leftLimit {
			leftLimit = lb.TopRight.X
		}
	}
	if right != nil && right.Meta.ItemType == model.ItemTypeBox {
		rb, err := right.BoundingBox()
		if err == nil && rb.BottomLeft.X < rightLimit {
			rightLimit = rb.BottomLeft.X
		}
	}
	return constructEmptySpan(empty, leftLimit, rightLimit), nil
}

// expandToSideEdges handles the no-below-box case: clamp to any box edges
// beside the empty, or absorb (delete and extend over) any adjacent empty.
func (p *Processor) expandToSideEdges(ctx context.Context, empty model.Item, emptyBBox model.Rectangle, nearby []model.Item) (model.Item, []model.ItemUpdate, error) {
	left, right := findEdges(empty, emptyBBox, nearby)
	leftLimit := emptyBBox.BottomLeft.X
	rightLimit := emptyBBox.TopRight.X
	var deleted []model.ItemUpdate

	if left != nil {
		lb, err := left.BoundingBox()
		if err != nil {
			return empty, deleted, err
		}
		switch left.Meta.ItemType {
		case model.ItemTypeBox:
			leftLimit = lb.TopRight.X
		case model.ItemTypeEmpty:
			leftLimit = lb.BottomLeft.X
			if err := p.store.DeleteItem(ctx, left.UUID); err != nil {
				return empty, deleted, err
			}
			deleted = append(deleted, model.ItemUpdate{Change: model.ChangeDeleted, Item: *left})
		}
	}
	if right != nil {
		rb, err := right.BoundingBox()
		if err != nil {
			return empty, deleted, err
		}
		switch right.Meta.ItemType {
		case model.ItemTypeBox:
			rightLimit = rb.BottomLeft.X
		case model.ItemTypeEmpty:
			rightLimit = rb.TopRight.X
			if err := p.store.DeleteItem(ctx, right.UUID); err != nil {
				return empty, deleted, err
			}
			deleted = append(deleted, model.ItemUpdate{Change: model.ChangeDeleted, Item: *right})
		}
	}

	return constructEmptySpan(empty, leftLimit, rightLimit), deleted, nil
}

// expandAbove extends empty's height to absorb an aligned empty directly
// above it, if one exists.
func (p *Processor) expandAbove(ctx context.Context, empty model.Item, emptyBBox model.Rectangle, nearby []model.Item) (model.Item, []model.ItemUpdate, error) {
	var best *model.Item
	bestOverlap := -1.0
	for i := range nearby {
		it := nearby[i]
		if it.Meta.ItemType != model.ItemTypeEmpty {
			continue
		}
		bb, err := it.BoundingBox()
		if err != nil {
			continue
		}
		overlap := horizontalSpan(bb, emptyBBox)
		if overlap <= 0 {
			continue
		}
		if math.Abs(it.Absolute.Position.Y-emptyBBox.TopRight.Y) >= mergeMargin {
			continue
		}
		if overlap > bestOverlap {
			bestOverlap = overlap
			item := it
			best = &item
		}
	}
	if best == nil {
		return empty, nil, nil
	}

	bb, err := best.BoundingBox()
	if err != nil {
		return empty, nil, err
	}
	newHeight := bb.TopRight.Y - emptyBBox.BottomLeft.Y
	out := empty
	out.Relative.Dimension.Y = newHeight
	out.Absolute.Dimension.Y = newHeight

	if err := p.store.DeleteItem(ctx, best.UUID); err != nil {
		return empty, nil, err
	}
	return out, []model.ItemUpdate{{Change: model.ChangeDeleted, Item: *best}}, nil
}

// findEdges locates the nearby item, if any, whose right edge aligns with
// empty's left edge (left) and whose left edge aligns with empty's right
// edge (right), within mergeMargin, at approximately the same height.
func findEdges(empty model.Item, emptyBBox model.Rectangle, nearby []model.Item) (left, right *model.Item) {
	for i := range nearby {
		it := nearby[i]
		if math.Abs(it.Absolute.Position.Y-empty.Absolute.Position.Y) >= mergeMargin {
			continue
		}
		bb, err := it.BoundingBox()
		if err != nil {
			continue
		}
		if left == nil && math.Abs(bb.TopRight.X-emptyBBox.BottomLeft.X) < mergeMargin {
			item := it
			left = &item
		}
		if right == nil && math.Abs(bb.BottomLeft.X-emptyBBox.TopRight.X) < mergeMargin {
			item := it
			right = &item
		}
	}
	return left, right
}

// constructEmptySpan rebuilds base narrowed/widened to [leftLimit,
// rightLimit] along its aligned axis, preserving identity, aligned axis,
// and side.
func constructEmptySpan(base model.Item, leftLimit, rightLimit float64) model.Item {
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

// horizontalSpan is the x-only overlap between two bounding boxes,
// independent of vertical separation - used to rank which neighbor sits
// most directly below or above an empty.
func horizontalSpan(a, b model.Rectangle) float64 {
	x := math.Min(a.TopRight.X, b.TopRight.X) - math.Max(a.BottomLeft.X, b.BottomLeft.X)
	if x < 0 {
		return 0
	}
	return x
}

func excludeUUID(items []model.Item, uuid string) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.UUID != uuid {
			out = append(out, it)
		}
	}
	return out
}
