package planner

import (
	"context"

	"github.com/rubic/ouroboros/internal/inventorystore"
	"github.com/rubic/ouroboros/internal/model"
)

// fetchedItems threads barcode_data → the FETCH_INVENTORY request's
// destination_uuid (nil when the request named none) across every builder
// invocation within one batch, so a STORE_INVENTORY request later in the
// same batch can target a slot a FETCH_INVENTORY earlier in the batch is
// about to empty (spec.md §4.4/§5: "fetched_items is per-batch; it is not
// shared across batches").
type fetchedItems map[string]*string

// builderContext is the shared dependency set every job builder needs:
// store access and the in-flight fetchedItems map for this batch.
type builderContext struct {
	store   inventorystore.Store
	fetched fetchedItems
}

func getItemFromBarcode(ctx context.Context, store inventorystore.Store, data string) (model.Item, error) {
	item, err := store.FindItemByBarcodeData(ctx, data)
	if err != nil {
		return model.Item{}, err
	}
	primary, err := store.FindPrimaryBarcode(ctx, item.UUID)
	if err == nil {
		item.PrimaryBarcode = &primary
	}
	return item, nil
}

func getItem(ctx context.Context, store inventorystore.Store, uuid string) (model.Item, error) {
	return store.FindItemByUUID(ctx, uuid)
}

func getPrimaryBarcode(ctx context.Context, store inventorystore.Store, itemUUID string) (model.Barcode, error) {
	return store.FindPrimaryBarcode(ctx, itemUUID)
}

// createFutureEmpty builds the synthetic empty item a FETCH_INVENTORY job's
// destination will become once the robot executes it: same footprint as
// the item being fetched, available in inventory, carrying futureUUID as
// its identity ahead of time.
func createFutureEmpty(futureUUID string, item model.Item) model.Item {
	return model.Item{
		UUID: futureUUID,
		Meta: model.ItemMeta{
			ItemType:   model.ItemTypeEmpty,
			Location:   model.LocationInventory,
			Available:  true,
			AisleIndex: item.Meta.AisleIndex,
			ScanID:     item.Meta.ScanID,
		},
		Absolute: item.Absolute,
		Relative: item.Relative,
	}
}
