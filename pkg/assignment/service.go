package assignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

// ValidationError reports malformed assignment input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type Service interface {
	// Create validates a single proposed assignment and persists it if
	// no capacity conflict exists. Returned conflicts mean nothing was
	// written.
	Create(ctx context.Context, a Assignment, excludeProjectID string) (Assignment, []Conflict, error)
	// SaveBatch persists a batch with partial-success semantics.
	SaveBatch(ctx context.Context, items []Assignment, excludeProjectID string) (BatchResult, error)
	// ValidateBatch runs the conflict check without writing anything.
	ValidateBatch(ctx context.Context, proposed []ProposedAllocation, excludeProjectID string) ([]Conflict, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo      Repository
	validator Validator
	executor  *BatchExecutor
}

func NewService(repo Repository, validator Validator, executor *BatchExecutor) *ServiceImpl {
	return &ServiceImpl{repo: repo, validator: validator, executor: executor}
}

func (s *ServiceImpl) Create(ctx context.Context, a Assignment, excludeProjectID string) (Assignment, []Conflict, error) {
	if err := validate(a); err != nil {
		return Assignment{}, nil, err
	}
	a.ID = uuid.NewString()

	result, err := s.executor.SaveBatch(ctx, []Assignment{a}, excludeProjectID)
	if err != nil {
		return Assignment{}, nil, err
	}
	if result.Failed > 0 {
		itemErr := result.Errors[0]
		if len(itemErr.Conflicts) > 0 {
			return Assignment{}, itemErr.Conflicts, nil
		}
		return Assignment{}, nil, fmt.Errorf("failed to store assignment: %s", itemErr.Reason)
	}
	return a, nil, nil
}

func (s *ServiceImpl) SaveBatch(ctx context.Context, items []Assignment, excludeProjectID string) (BatchResult, error) {
	prepared := make([]Assignment, 0, len(items))
	for _, item := range items {
		if err := validate(item); err != nil {
			return BatchResult{}, err
		}
		item.ID = uuid.NewString()
		prepared = append(prepared, item)
	}
	return s.executor.SaveBatch(ctx, prepared, excludeProjectID)
}

func (s *ServiceImpl) ValidateBatch(ctx context.Context, proposed []ProposedAllocation, excludeProjectID string) ([]Conflict, error) {
	for _, p := range proposed {
		if _, err := uuid.Parse(p.ResourceID); err != nil {
			return nil, &ValidationError{Field: "resourceId", Reason: "must be a UUID"}
		}
		if !p.Hours.IsPositive() {
			return nil, &ValidationError{Field: "hours", Reason: "must be greater than zero"}
		}
	}
	return s.validator.Validate(ctx, proposed, excludeProjectID)
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &ValidationError{Field: "id", Reason: "must be a UUID"}
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("assignment not deleted, probably because it does not exist (%s)", id)
		return ErrAssignmentNotFound
	}
	return nil
}

func validate(a Assignment) error {
	if a.HasResource() {
		if _, err := uuid.Parse(a.ResourceID); err != nil {
			return &ValidationError{Field: "resourceId", Reason: "must be a UUID"}
		}
	}
	if a.ProjectID == "" {
		return &ValidationError{Field: "projectId", Reason: "must not be empty"}
	}
	if a.ProjectCode == "" {
		return &ValidationError{Field: "projectCode", Reason: "must not be empty"}
	}
	if !a.Hours.IsPositive() {
		return &ValidationError{Field: "hours", Reason: "must be greater than zero"}
	}
	if a.Date == nil {
		if a.Month < 1 || a.Month > 12 {
			return &ValidationError{Field: "month", Reason: "must be between 1 and 12"}
		}
		if a.Year < 2000 || a.Year > 2100 {
			return &ValidationError{Field: "year", Reason: "must be between 2000 and 2100"}
		}
	}
	return nil
}
