package scancompiler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rubic/ouroboros/internal/inventorystore"
	"github.com/rubic/ouroboros/internal/model"
)

// defaultItemTypes and defaultSides are the values itemTypesFor and sidesFor
// sweep when a compile request leaves that filter unset, matching the
// client-facing "compile everything of this scope" shorthand (spec.md §4.2).
var defaultItemTypes = []model.ItemType{model.ItemTypeEmpty, model.ItemTypeBox}
var defaultSides = []model.Side{model.SideLeft, model.SideRight}

// Compiler turns a CompileScanDataRequest into canonical Items and Barcodes
// persisted to the inventory store.
type Compiler struct {
	store inventorystore.Store
	log   zerolog.Logger
}

// New builds a Compiler backed by the given store.
func New(store inventorystore.Store, log zerolog.Logger) *Compiler {
	return &Compiler{store: store, log: log.With().Str("component", "scancompiler").Logger()}
}

// Run compiles one CompileScanDataRequest end to end: it optionally clears
// prior non-conveyor inventory, sweeps every (aisle, side, item_type) in
// scope, merges partial items and barcodes within each, and persists the
// result. Partial detections themselves are left in place; only the
// canonical inventory_items/barcode_collection are rebuilt.
func (c *Compiler) Run(ctx context.Context, req model.CompileScanDataRequest) error {
	if req.Overwrite {
		if err := c.store.DeleteNonConveyorItems(ctx); err != nil {
			return err
		}
	}

	aisles, err := c.aislesFor(ctx, req)
	if err != nil {
		return err
	}
	itemTypes := itemTypesFor(req)
	sides := sidesFor(req)

	var allItems []model.Item
	for _, aisle := range aisles {
		for _, side := range sides {
			perType := make(map[model.ItemType][]model.Item)
			for _, itemType := range itemTypes {
				partials, err := c.store.FindPartialItems(ctx, inventorystore.PartialItemFilter{
					ScanID:              req.ScanID,
					AisleIndex:          aisle,
					Side:                side,
					ItemType:            itemType,
					ConfidenceThreshold: req.ConfidenceThreshold,
					MinWidth:            0.08,
				})
				if err != nil {
					return err
				}
				if len(partials) == 0 {
					c.log.Warn().Int("aisle_index", aisle).Str("side", string(side)).
						Str("item_type", string(itemType)).Msg("no partial items for scope")
					continue
				}
				items, err := MergePartialItems(partials)
				if err != nil {
					return err
				}
				perType[itemType] = items
			}

			if boxes, ok := perType[model.ItemTypeBox]; ok && len(boxes) > 0 {
				if err := c.compilePartialBarcodes(ctx, req, aisle, side, req.Overwrite, boxes); err != nil {
					return err
				}
			}

			for _, items := range perType {
				allItems = append(allItems, items...)
			}
		}
	}

	if len(allItems) == 0 {
		return nil
	}
	if err := c.store.InsertItems(ctx, allItems); err != nil {
		return err
	}
	for _, item := range allItems {
		if len(item.Barcodes) > 0 {
			if err := c.store.InsertBarcodes(ctx, item.Barcodes); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compiler) compilePartialBarcodes(ctx context.Context, req model.CompileScanDataRequest, aisle int, side model.Side, overwrite bool, boxes []model.Item) error {
	if overwrite {
		if err := c.store.DeleteAllBarcodes(ctx); err != nil {
			return err
		}
	}

	partials, err := c.store.FindPartialBarcodes(ctx, inventorystore.PartialBarcodeFilter{
		ScanID:     req.ScanID,
		AisleIndex: aisle,
		Side:       side,
	})
	if err != nil {
		return err
	}
	if len(partials) == 0 {
		return nil
	}

	barcodes, err := MergeBarcodes(partials)
	if err != nil {
		return err
	}
	if err := CombineBarcodes(boxes, barcodes); err != nil {
		return err
	}

	for bi := range boxes {
		item := &boxes[bi]
		for ci := range item.Barcodes {
			bc := &item.Barcodes[ci]
			bc.Relative.Position = model.Vector3{
				X: bc.Absolute.Position.X - item.Absolute.Position.X,
				Y: bc.Absolute.Position.Y - item.Absolute.Position.Y,
				Z: bc.Absolute.Position.Z - item.Absolute.Position.Z,
			}
			bc.Relative.Header.FrameID = "parent_item"
		}
	}
	return nil
}

func (c *Compiler) aislesFor(ctx context.Context, req model.CompileScanDataRequest) ([]int, error) {
	if req.AisleIndex != nil {
		return []int{*req.AisleIndex}, nil
	}
	return c.store.DistinctPartialItemAisleIndexes(ctx)
}

func itemTypesFor(req model.CompileScanDataRequest) []model.ItemType {
	if req.ItemType != nil {
		return []model.ItemType{*req.ItemType}
	}
	return defaultItemTypes
}

func sidesFor(req model.CompileScanDataRequest) []model.Side {
	if req.Side != nil {
		return []model.Side{*req.Side}
	}
	return defaultSides
}
