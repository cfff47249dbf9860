package response

import (
	"context"
	"fmt"

	"github.com/rubic/ouroboros/internal/model"
)

// handleFetchInventory implements spec.md §4.5's FETCH_INVENTORY
// reconciliation: the fetched item moves to the robot, a new empty appears
// in its place (merged with neighbors unless a future_uuid pinned its
// identity for an in-batch store), and any item whose stack lists the
// fetched item (an item it was resting on) has the fetched uuid removed
// from its stack.
func (p *Processor) handleFetchInventory(ctx context.Context, job model.RobotJob) ([]model.ItemUpdate, error) {
	dbItem, err := p.store.FindItemByUUID(ctx, job.Item.UUID)
	if err != nil {
		return nil, fmt.Errorf("response: fetch_inventory loading %s: %w", job.Item.UUID, err)
	}
	if dbItem.Meta.Location != model.LocationInventory {
		return nil, fmt.Errorf("%w: %s", ErrNotInventory, job.Item.UUID)
	}

	dbItem.Meta.Available = false
	dbItem.Meta.Location = model.LocationRobot
	if err := p.store.UpsertItem(ctx, dbItem); err != nil {
		return nil, err
	}
	updates := []model.ItemUpdate{{Change: model.ChangeUpdated, Item: dbItem}}

	emptyUUID := model.NewItemUUID()
	reserved := job.FutureUUID != nil
	if reserved {
		emptyUUID = *job.FutureUUID
	}
	empty := newEmptyFootprint(dbItem, emptyUUID)

	var deleted []model.ItemUpdate
	if !reserved {
		empty, deleted, err = p.mergeEmpty(ctx, empty)
		if err != nil {
			return nil, err
		}
	}
	if err := p.store.InsertItem(ctx, empty); err != nil {
		return nil, err
	}
	updates = append(updates, model.ItemUpdate{Change: model.ChangeCreated, Item: empty})
	updates = append(updates, deleted...)

	stackedOn, err := p.store.FindItemsWithUUIDInStack(ctx, job.Item.UUID)
	if err != nil {
		return nil, err
	}
	for _, above := range stackedOn {
		above.Meta.Stack = removeUUID(above.Meta.Stack, job.Item.UUID)
		if err := p.store.UpsertItem(ctx, above); err != nil {
			return nil, err
		}
		updates = append(updates, model.ItemUpdate{Change: model.ChangeUpdated, Item: above})
	}

	return updates, nil
}

// newEmptyFootprint builds a fresh empty item occupying the same
// absolute/relative footprint as source, under a new identity.
func newEmptyFootprint(source model.Item, uuid string) model.Item {
	return model.Item{
		UUID: uuid,
		Meta: model.ItemMeta{
			ItemType:   model.ItemTypeEmpty,
			Location:   model.LocationInventory,
			Available:  true,
			AisleIndex: source.Meta.AisleIndex,
			ScanID:     source.Meta.ScanID,
		},
		Absolute: source.Absolute,
		Relative: source.Relative,
	}
}

func removeUUID(list []string, target string) []string {
	out := make([]string, 0, len(list))
	for _, u := range list {
		if u != target {
			out = append(out, u)
		}
	}
	return out
}
