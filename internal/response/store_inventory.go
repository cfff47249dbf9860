package response

import (
	"context"
	"fmt"

	"github.com/rubic/ouroboros/internal/geometry"
	"github.com/rubic/ouroboros/internal/model"
	"github.com/rubic/ouroboros/internal/scancompiler"
)

// handleStoreInventory implements spec.md §4.5's STORE_INVENTORY
// reconciliation: the stored item becomes an available inventory box at
// wherever the robot reports it landed, the destination empty is sliced
// around the item's new footprint into leftover empties, the destination is
// deleted, and stacks are recomputed for boxes nearby.
func (p *Processor) handleStoreInventory(ctx context.Context, job model.RobotJob) ([]model.ItemUpdate, error) {
	if job.Destination == nil {
		return nil, fmt.Errorf("response: store_inventory job %s missing destination", job.JobID)
	}

	destination, err := p.store.FindItemByUUID(ctx, job.Destination.UUID)
	if err != nil {
		return nil, fmt.Errorf("response: store_inventory loading destination %s: %w", job.Destination.UUID, err)
	}

	item := job.Item
	item.Meta.ItemType = model.ItemTypeBox
	item.Meta.Available = true
	item.Meta.Location = model.LocationInventory
	item.Meta.Destination = nil
	for bi := range item.Barcodes {
		aisle := item.Meta.AisleIndex
		item.Barcodes[bi].Meta.AisleIndex = &aisle
	}
	if err := p.store.UpsertItem(ctx, item); err != nil {
		return nil, err
	}
	updates := []model.ItemUpdate{{Change: model.ChangeUpdated, Item: item}}

	destBBox, err := destination.BoundingBox()
	if err != nil {
		return nil, err
	}
	itemBBox, err := item.BoundingBox()
	if err != nil {
		return nil, err
	}

	strips, err := geometry.SliceRectangle(destBBox, itemBBox)
	if err != nil && err != geometry.ErrNoOverlap {
		return nil, err
	}
	for _, strip := range strips {
		empty := emptyFromSlice(destination, strip)
		if err := p.store.InsertItem(ctx, empty); err != nil {
			return nil, err
		}
		updates = append(updates, model.ItemUpdate{Change: model.ChangeCreated, Item: empty})
	}

	if err := p.store.DeleteItem(ctx, destination.UUID); err != nil {
		return nil, err
	}
	updates = append(updates, model.ItemUpdate{Change: model.ChangeDeleted, Item: destination})

	stackUpdates, err := p.recomputeNearbyStacks(ctx, item)
	if err != nil {
		return nil, err
	}
	updates = append(updates, stackUpdates...)

	return updates, nil
}

// emptyFromSlice builds a new empty occupying one slice-rectangle strip of
// destination's former footprint, inheriting its meta, pose, and side.
func emptyFromSlice(destination model.Item, strip model.Rectangle) model.Item {
	center := geometry.BottomCenter(strip)
	position := destination.Absolute.Position
	switch destination.Absolute.AlignedAxis {
	case "x":
		position.X = center.X
	case "z":
		position.Z = center.X
	}
	position.Y = center.Y

	return model.Item{
		UUID: model.NewItemUUID(),
		Meta: model.ItemMeta{
			ItemType:   model.ItemTypeEmpty,
			Location:   model.LocationInventory,
			Available:  true,
			AisleIndex: destination.Meta.AisleIndex,
			ScanID:     destination.Meta.ScanID,
		},
		Absolute: model.ItemAbsolute{
			Position:    position,
			Dimension:   model.Vector3{X: strip.Width(), Y: strip.Height(), Z: destination.Absolute.Dimension.Z},
			AlignedAxis: destination.Absolute.AlignedAxis,
			Waypoint:    destination.Absolute.Waypoint,
			DepthIndex:  destination.Absolute.DepthIndex,
			StackIndex:  destination.Absolute.StackIndex,
		},
		Relative: model.ItemRelative{
			Dimension: model.Vector3{X: strip.Width(), Y: strip.Height(), Z: destination.Relative.Dimension.Z},
			Side:      destination.Relative.Side,
		},
	}
}

// recomputeNearbyStacks refreshes meta.stack for every inventory box near
// the newly stored item, appending (deduplicated) any uuids that now rest
// on them.
func (p *Processor) recomputeNearbyStacks(ctx context.Context, item model.Item) ([]model.ItemUpdate, error) {
	cx := item.Absolute.Position.Axis(item.Absolute.AlignedAxis)
	nearby, err := p.store.FindNearby(ctx, item.Meta.AisleIndex, item.Relative.Side, cx, item.Absolute.Position.Y)
	if err != nil {
		return nil, err
	}

	var boxes []model.Item
	for _, it := range nearby {
		if it.Meta.ItemType == model.ItemTypeBox && it.Meta.Available {
			boxes = append(boxes, it)
		}
	}
	if !containsUUID(boxes, item.UUID) {
		boxes = append(boxes, item)
	}

	stacks, err := scancompiler.GenerateItemStack(boxes)
	if err != nil {
		return nil, err
	}

	var updates []model.ItemUpdate
	for _, box := range boxes {
		additions := stacks[box.UUID]
		if len(additions) == 0 {
			continue
		}
		merged := dedupeUUIDs(append(append([]string{}, box.Meta.Stack...), additions...))
		if sameUUIDs(merged, box.Meta.Stack) {
			continue
		}
		box.Meta.Stack = merged
		if err := p.store.UpsertItem(ctx, box); err != nil {
			return nil, err
		}
		updates = append(updates, model.ItemUpdate{Change: model.ChangeUpdated, Item: box})
	}
	return updates, nil
}

func containsUUID(items []model.Item, uuid string) bool {
	for _, it := range items {
		if it.UUID == uuid {
			return true
		}
	}
	return false
}

func dedupeUUIDs(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, u := range list {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

func sameUUIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, u := range a {
		seen[u] = true
	}
	for _, u := range b {
		if !seen[u] {
			return false
		}
	}
	return true
}
