package assignment

import (
	"context"
	"sync"

	"github.com/capaplan/capaplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

// BatchResult reports the outcome of a batch save. Writes are issued
// one by one and a failure never rolls back prior successes; the caller
// gets the exact list of allocations that failed.
type BatchResult struct {
	Succeeded int
	Failed    int
	Errors    []ItemError
}

type ItemError struct {
	Index      int
	ResourceID string
	Date       string
	Reason     string
	Conflicts  []Conflict
}

// keyedMutex serializes writes per (resource, day) pair. Validation and
// persistence are separate steps, so two concurrent batches touching the
// same resource and day could both pass a stale check; holding the key's
// lock across the re-check and the write closes that race within this
// process. Cross-process deployments still need a transactional re-check
// in the storage layer.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*sync.Mutex{}}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

type BatchExecutor struct {
	repo      Repository
	validator Validator
	locks     *keyedMutex
}

func NewBatchExecutor(repo Repository, validator Validator) *BatchExecutor {
	return &BatchExecutor{
		repo:      repo,
		validator: validator,
		locks:     newKeyedMutex(),
	}
}

// SaveBatch persists a list of validated assignments sequentially. Each
// item is re-validated against current data under its (resource, day)
// lock right before the write, so allocations accepted against a stale
// snapshot are caught here instead of overbooking the day.
func (e *BatchExecutor) SaveBatch(ctx context.Context, items []Assignment, excludeProjectID string) (BatchResult, error) {
	result := BatchResult{Errors: make([]ItemError, 0)}

	for i, item := range items {
		if err := e.saveOne(ctx, i, item, excludeProjectID, &result); err != nil {
			return result, err
		}
	}

	log.Infof("batch save finished: %d succeeded, %d failed", result.Succeeded, result.Failed)
	return result, nil
}

func (e *BatchExecutor) saveOne(ctx context.Context, index int, item Assignment, excludeProjectID string, result *BatchResult) error {
	day := item.EffectiveDate()
	dayKey := calendar.DayKey(day)

	unlock := e.locks.lock(item.ResourceID + "|" + dayKey)
	defer unlock()

	// Commitments with a resource are re-checked; absences and
	// unassigned rows can always be written.
	if item.HasResource() && !item.IsAbsence() {
		conflicts, err := e.validator.Validate(ctx, []ProposedAllocation{
			{ResourceID: item.ResourceID, Date: day, Hours: item.Hours},
		}, excludeProjectID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, ItemError{
				Index:      index,
				ResourceID: item.ResourceID,
				Date:       dayKey,
				Reason:     ConflictCapacityExceeded,
				Conflicts:  conflicts,
			})
			return nil
		}
	}

	if err := e.repo.Create(ctx, item); err != nil {
		log.Warnf("batch item %d failed to persist: %v", index, err)
		result.Failed++
		result.Errors = append(result.Errors, ItemError{
			Index:      index,
			ResourceID: item.ResourceID,
			Date:       dayKey,
			Reason:     err.Error(),
		})
		return nil
	}

	result.Succeeded++
	return nil
}
