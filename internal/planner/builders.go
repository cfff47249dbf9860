package planner

import (
	"context"
	"fmt"

	"github.com/rubic/ouroboros/internal/model"
)

// buildFetchInventory implements spec.md §4.4's FETCH_INVENTORY builder:
// reject a target with more than one item stacked on it, fetch any single stacked item
// out of the way first, then the target, then restore the stacked item onto
// a synthetic empty at the target's former position.
func buildFetchInventory(ctx context.Context, bc *builderContext, req model.JobRequest) ([]model.RobotJob, error) {
	if req.UID == nil {
		return nil, fmt.Errorf("planner: fetch_inventory request missing uid")
	}

	target, err := getItemFromBarcode(ctx, bc.store, *req.UID)
	if err != nil {
		return nil, err
	}
	if len(target.Meta.Stack) > 1 {
		return nil, ErrMultipleStacked
	}

	var stacked []model.Item
	for _, uuid := range target.Meta.Stack {
		item, err := getItem(ctx, bc.store, uuid)
		if err != nil {
			return nil, err
		}
		if len(item.Meta.Stack) > 0 {
			return nil, ErrDoubleStacked
		}
		if item.Meta.ItemType == model.ItemTypeEmpty {
			continue
		}
		primary, err := getPrimaryBarcode(ctx, bc.store, item.UUID)
		if err != nil {
			return nil, err
		}
		item.PrimaryBarcode = &primary
		stacked = append(stacked, item)
	}

	futureUUID := model.NewItemUUID()
	if req.DestinationUUID != nil {
		futureUUID = *req.DestinationUUID
	}

	jobs := make([]model.RobotJob, 0, 1+2*len(stacked))
	for _, item := range stacked {
		jobs = append(jobs, model.RobotJob{JobID: model.NewJobID(), JobType: model.JobFetchInventory, Item: item})
	}

	targetJob := model.RobotJob{JobID: model.NewJobID(), JobType: model.JobFetchInventory, Item: target}
	if len(stacked) > 0 {
		targetJob.FutureUUID = &futureUUID
	} else {
		targetJob.FutureUUID = req.DestinationUUID
	}
	jobs = append(jobs, targetJob)

	for _, item := range stacked {
		dest := createFutureEmpty(futureUUID, target)
		jobs = append(jobs, model.RobotJob{JobID: model.NewJobID(), JobType: model.JobStoreInventory, Item: item, Destination: &dest})
	}

	bc.fetched[*req.UID] = req.DestinationUUID
	return jobs, nil
}

// buildStoreInventory implements spec.md §4.4's STORE_INVENTORY builder:
// validate the source is on the robot (or anticipated via fetchedItems),
// resolve a destination empty, and emit one job.
func buildStoreInventory(ctx context.Context, bc *builderContext, req model.JobRequest) ([]model.RobotJob, error) {
	if req.UID == nil {
		return nil, fmt.Errorf("planner: store_inventory request missing uid")
	}

	target, err := getItemFromBarcode(ctx, bc.store, *req.UID)
	if err != nil {
		return nil, err
	}

	_, anticipated := bc.fetched[*req.UID]
	onRobot := target.Meta.Location == model.LocationRobot && target.Meta.Destination == nil && !target.Meta.Available
	if !onRobot && !anticipated {
		return nil, ErrInvalidSource
	}

	destination, err := resolveStoreDestination(ctx, bc, target, req.DestinationUUID)
	if err != nil {
		return nil, err
	}
	if !isValidStoreDestination(destination) {
		return nil, ErrInvalidDestination
	}

	return []model.RobotJob{{
		JobID:       model.NewJobID(),
		JobType:     model.JobStoreInventory,
		Item:        target,
		Destination: &destination,
	}}, nil
}

// resolveStoreDestination implements spec.md §4.4 step 3's three-way
// destination resolution. Note destinationUUID's second branch is matched
// against fetchedItems as a *key*, not a uuid value: a client requesting a
// store into a slot a prior request in this same batch just emptied passes
// that prior request's barcode data as destination_uuid, reusing the field
// to name the in-flight fetch rather than a real uuid.
func resolveStoreDestination(ctx context.Context, bc *builderContext, target model.Item, destinationUUID *string) (model.Item, error) {
	if destinationUUID == nil {
		return findEmptyForStore(ctx, bc.store, target)
	}
	if futureUUID, ok := bc.fetched[*destinationUUID]; ok && futureUUID != nil {
		anticipatedTarget, err := getItemFromBarcode(ctx, bc.store, *destinationUUID)
		if err != nil {
			return model.Item{}, err
		}
		return createFutureEmpty(*futureUUID, anticipatedTarget), nil
	}
	return getItem(ctx, bc.store, *destinationUUID)
}

func isValidStoreDestination(dest model.Item) bool {
	return dest.Meta.Available && dest.Meta.Location == model.LocationInventory &&
		dest.Meta.Destination == nil && dest.Meta.ItemType == model.ItemTypeEmpty
}

// buildFetchDesignated implements spec.md §4.4's FETCH_DESIGNATED builder:
// a predetermined item_uuid (e.g. a conveyor placeholder) is fetched
// unconditionally.
func buildFetchDesignated(ctx context.Context, bc *builderContext, jt model.JobType) ([]model.RobotJob, error) {
	if jt.ItemUUID == nil {
		return nil, ErrMissingItemUUID
	}
	item, err := getItem(ctx, bc.store, *jt.ItemUUID)
	if err != nil {
		return nil, err
	}
	return []model.RobotJob{{JobID: model.NewJobID(), JobType: model.JobFetchDesignated, Item: item}}, nil
}

// buildStoreDesignated implements spec.md §4.4's STORE_DESIGNATED builder:
// the requested item is placed onto a job-type's predetermined item_uuid,
// typically a conveyor.
func buildStoreDesignated(ctx context.Context, bc *builderContext, req model.JobRequest, jt model.JobType) ([]model.RobotJob, error) {
	if req.UID == nil {
		return nil, fmt.Errorf("planner: store_designated request missing uid")
	}
	if jt.ItemUUID == nil {
		return nil, ErrMissingItemUUID
	}

	item, err := getItemFromBarcode(ctx, bc.store, *req.UID)
	if err != nil {
		return nil, err
	}
	destination, err := getItem(ctx, bc.store, *jt.ItemUUID)
	if err != nil {
		return nil, err
	}

	return []model.RobotJob{{
		JobID:       model.NewJobID(),
		JobType:     model.JobStoreDesignated,
		Item:        item,
		Destination: &destination,
	}}, nil
}
