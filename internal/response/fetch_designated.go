package response

import (
	"context"

	"github.com/rubic/ouroboros/internal/model"
)

// handleFetchDesignated implements spec.md §4.5's FETCH_DESIGNATED
// reconciliation: the robot reports a fresh item from the conveyor; it is
// assigned a uuid if it lacks one, moved onto the robot, and inserted into
// inventory alongside its barcodes - unless its primary barcode data
// collides with an item already in inventory.
func (p *Processor) handleFetchDesignated(ctx context.Context, job model.RobotJob) ([]model.ItemUpdate, error) {
	item := job.Item
	if item.UUID == "" {
		item.UUID = model.NewItemUUID()
	}
	item.Meta.Location = model.LocationRobot
	item.Meta.Destination = nil
	item.Meta.Available = false

	var primaryData []string
	for _, bc := range item.Barcodes {
		if bc.Meta.BarcodeType.IsPrimary() {
			primaryData = append(primaryData, bc.Meta.Data)
		}
	}
	if len(primaryData) == 0 {
		return nil, ErrMissingPrimaryBarcode
	}

	existing, err := p.store.FindBarcodesByData(ctx, primaryData)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrDuplicateItem
	}

	if err := p.store.InsertItem(ctx, item); err != nil {
		return nil, err
	}
	for bi := range item.Barcodes {
		uuid := item.UUID
		item.Barcodes[bi].ItemUUID = &uuid
	}
	if len(item.Barcodes) > 0 {
		if err := p.store.InsertBarcodes(ctx, item.Barcodes); err != nil {
			return nil, err
		}
	}

	return []model.ItemUpdate{{Change: model.ChangeUpdated, Item: item}}, nil
}
