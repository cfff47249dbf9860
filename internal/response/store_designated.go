package response

import (
	"context"
	"fmt"

	"github.com/rubic/ouroboros/internal/model"
)

// handleStoreDesignated implements spec.md §4.5's STORE_DESIGNATED
// reconciliation: the item placed onto a designated destination (typically
// a conveyor) leaves inventory entirely.
func (p *Processor) handleStoreDesignated(ctx context.Context, job model.RobotJob) ([]model.ItemUpdate, error) {
	item := job.Item
	if err := p.store.DeleteItem(ctx, item.UUID); err != nil {
		return nil, fmt.Errorf("response: store_designated deleting item %s: %w", item.UUID, err)
	}
	if err := p.store.DeleteBarcodesByItemUUID(ctx, item.UUID); err != nil {
		return nil, err
	}
	return []model.ItemUpdate{{Change: model.ChangeDeleted, Item: item}}, nil
}
