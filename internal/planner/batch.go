// Package planner turns a client BatchRequest into an ordered
// RobotBatchRequest (spec.md §4.4): one of four job builders per request,
// sharing a per-batch fetchedItems map that lets a STORE_INVENTORY request
// later in the same batch target a slot a FETCH_INVENTORY earlier in the
// batch is about to empty.
package planner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rubic/ouroboros/internal/inventorystore"
	"github.com/rubic/ouroboros/internal/model"
)

// Generic job-type kinds a JobType's generic_type resolves to; closed set,
// matching the four RobotJobType values (spec.md §9: "tagged-variant
// dispatch keyed by job_type/generic_type - closed set, no plugin
// extensibility required").
const (
	genericFetchInventory  = string(model.JobFetchInventory)
	genericStoreInventory  = string(model.JobStoreInventory)
	genericFetchDesignated = string(model.JobFetchDesignated)
	genericStoreDesignated = string(model.JobStoreDesignated)
)

// Planner builds ordered RobotBatchRequests from client BatchRequests.
type Planner struct {
	store inventorystore.Store
	log   zerolog.Logger
}

// New builds a Planner backed by the given store.
func New(store inventorystore.Store, log zerolog.Logger) *Planner {
	return &Planner{store: store, log: log.With().Str("component", "planner").Logger()}
}

// Plan resolves every JobRequest in requests into one or more RobotJobs, in
// the order spec.md §4.4/§5 requires, and persists the resulting batch and
// jobs for later replace-by-id on response. Any single request's failure
// aborts the whole batch: no partial emission.
func (p *Planner) Plan(ctx context.Context, requests []model.JobRequest) (model.RobotBatch, error) {
	jobTypes := newJobTypeCache()
	bc := &builderContext{store: p.store, fetched: make(fetchedItems)}

	var jobs []model.RobotJob
	for _, req := range requests {
		p.log.Debug().Str("job_type", req.JobType).Str("vendor", req.Vendor).Str("request_id", req.RequestID).Msg("planning request")

		jt, err := jobTypes.get(ctx, p.store.FindJobType, req.Vendor, req.JobType)
		if err != nil {
			return model.RobotBatch{}, fmt.Errorf("planner: loading job type (%s, %s): %w", req.Vendor, req.JobType, err)
		}

		built, err := p.buildJobs(ctx, bc, req, jt)
		if err != nil {
			p.log.Error().Err(err).Str("request_id", req.RequestID).Msg("planning request failed")
			return model.RobotBatch{}, err
		}
		jobs = append(jobs, built...)
	}

	batch := model.RobotBatch{BatchID: model.NewBatchID(), Jobs: jobs}
	if err := p.store.InsertBatch(ctx, batch); err != nil {
		return model.RobotBatch{}, fmt.Errorf("planner: persisting batch: %w", err)
	}
	for _, job := range batch.Jobs {
		if err := p.store.InsertJob(ctx, job); err != nil {
			return model.RobotBatch{}, fmt.Errorf("planner: persisting job %s: %w", job.JobID, err)
		}
	}

	p.log.Info().Str("batch_id", batch.BatchID).Int("jobs", len(batch.Jobs)).Msg("batch planned")
	return batch, nil
}

func (p *Planner) buildJobs(ctx context.Context, bc *builderContext, req model.JobRequest, jt model.JobType) ([]model.RobotJob, error) {
	switch jt.GenericType {
	case genericFetchInventory:
		return buildFetchInventory(ctx, bc, req)
	case genericStoreInventory:
		return buildStoreInventory(ctx, bc, req)
	case genericFetchDesignated:
		return buildFetchDesignated(ctx, bc, jt)
	case genericStoreDesignated:
		return buildStoreDesignated(ctx, bc, req, jt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenericType, jt.GenericType)
	}
}
