package planner

import (
	"context"
	"sync"

	"github.com/rubic/ouroboros/internal/model"
)

// jobTypeCache memoizes (vendor, job_type) → JobType lookups for the
// duration of one Planner.Plan call (one batch), standing in for the original's
// functools.lru_cache on get_job_type (spec.md §3, supplemented feature 4).
// JobType configuration is read-only and small in cardinality, so an
// unbounded map guarded by one mutex is sufficient.
type jobTypeCache struct {
	mu    sync.Mutex
	cache map[jobTypeKey]model.JobType
}

type jobTypeKey struct {
	vendor  string
	jobType string
}

func newJobTypeCache() *jobTypeCache {
	return &jobTypeCache{cache: make(map[jobTypeKey]model.JobType)}
}

func (c *jobTypeCache) get(ctx context.Context, lookup func(ctx context.Context, vendor, jobType string) (model.JobType, error), vendor, jobType string) (model.JobType, error) {
	key := jobTypeKey{vendor, jobType}

	c.mu.Lock()
	jt, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return jt, nil
	}

	jt, err := lookup(ctx, vendor, jobType)
	if err != nil {
		return model.JobType{}, err
	}

	c.mu.Lock()
	c.cache[key] = jt
	c.mu.Unlock()
	return jt, nil
}
