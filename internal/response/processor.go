// Package response reconciles robot job outcomes back into the inventory
// store (spec.md §4.5): moving items, creating/merging/splitting empty
// regions, and updating stacks. Each of the four job kinds has its own
// handler; a failing job is logged and skipped, it does not abort the rest
// of the batch (spec.md §7).
package response

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rubic/ouroboros/internal/inventorystore"
	"github.com/rubic/ouroboros/internal/model"
)

// Processor reconciles RobotBatchResponse messages against the inventory
// store.
type Processor struct {
	store inventorystore.Store
	log   zerolog.Logger
}

// New builds a Processor backed by the given store.
func New(store inventorystore.Store, log zerolog.Logger) *Processor {
	return &Processor{store: store, log: log.With().Str("component", "response").Logger()}
}

// ProcessBatch reconciles every job in a RobotBatchResponse, in order,
// returning the accumulated ItemUpdates for publication on
// `inventory/updates`. One job's failure is logged and excluded from the
// result; it does not stop the remaining jobs (spec.md §7).
func (p *Processor) ProcessBatch(ctx context.Context, resp model.RobotBatchResponse) []model.ItemUpdate {
	var updates []model.ItemUpdate
	for _, job := range resp.Jobs {
		jobUpdates, err := p.ProcessJob(ctx, job)
		if err != nil {
			p.log.Error().Err(err).Str("job_id", job.JobID).Str("job_type", string(job.JobType)).Msg("response handler failed")
			continue
		}
		updates = append(updates, jobUpdates...)
	}
	return updates
}

// ProcessJob reconciles one RobotJob. On job.Success=false it logs and
// returns no updates. On success it dispatches to the job-type-specific
// handler, after checking the shared precondition that the job's item
// carries a primary barcode.
func (p *Processor) ProcessJob(ctx context.Context, job model.RobotJob) ([]model.ItemUpdate, error) {
	if job.Success != nil && !*job.Success {
		msg := ""
		if job.ErrorMessage != nil {
			msg = *job.ErrorMessage
		}
		p.log.Warn().Str("job_id", job.JobID).Str("job_type", string(job.JobType)).Str("error", msg).Msg("robot job failed")
		return nil, nil
	}

	if job.Item.PrimaryBarcode == nil && !job.Item.HasPrimaryBarcode() {
		return nil, ErrMissingPrimaryBarcode
	}

	if err := p.store.ReplaceJob(ctx, job); err != nil {
		return nil, fmt.Errorf("response: replacing job %s: %w", job.JobID, err)
	}

	switch job.JobType {
	case model.JobFetchInventory:
		return p.handleFetchInventory(ctx, job)
	case model.JobStoreInventory:
		return p.handleStoreInventory(ctx, job)
	case model.JobFetchDesignated:
		return p.handleFetchDesignated(ctx, job)
	case model.JobStoreDesignated:
		return p.handleStoreDesignated(ctx, job)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobType, job.JobType)
	}
}
