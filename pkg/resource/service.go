package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrResourceNotFound = errors.New("resource not found")

// ValidationError reports malformed resource input. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type Service interface {
	GetAll(ctx context.Context, team string, includeInactive bool) ([]Resource, error)
	GetByID(ctx context.Context, id string) (Resource, error)
	Create(ctx context.Context, resource Resource) (Resource, error)
	Update(ctx context.Context, resource Resource) (Resource, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context, team string, includeInactive bool) ([]Resource, error) {
	return s.repo.GetAll(ctx, team, includeInactive)
}

func (s *ServiceImpl) GetByID(ctx context.Context, id string) (Resource, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Resource{}, &ValidationError{Field: "id", Reason: "must be a UUID"}
	}
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Resource{}, err
	}
	if res == nil {
		return Resource{}, ErrResourceNotFound
	}
	return *res, nil
}

func (s *ServiceImpl) Create(ctx context.Context, resource Resource) (Resource, error) {
	if err := validate(resource); err != nil {
		return Resource{}, err
	}
	resource.ID = uuid.NewString()
	resource.Active = true
	if err := s.repo.Create(ctx, resource); err != nil {
		return Resource{}, fmt.Errorf("failed to store resource: %w", err)
	}
	return resource, nil
}

func (s *ServiceImpl) Update(ctx context.Context, resource Resource) (Resource, error) {
	if _, err := uuid.Parse(resource.ID); err != nil {
		return Resource{}, &ValidationError{Field: "id", Reason: "must be a UUID"}
	}
	if err := validate(resource); err != nil {
		return Resource{}, err
	}
	updated, err := s.repo.Update(ctx, resource)
	if err != nil {
		return Resource{}, err
	}
	if !updated {
		log.Warnf("resource not updated, probably because it does not exist (%s)", resource.ID)
		return Resource{}, ErrResourceNotFound
	}
	return resource, nil
}

func (s *ServiceImpl) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return &ValidationError{Field: "id", Reason: "must be a UUID"}
	}
	updated, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return err
	}
	if !updated {
		return ErrResourceNotFound
	}
	return nil
}

func validate(resource Resource) error {
	if resource.Code == "" {
		return &ValidationError{Field: "code", Reason: "must not be empty"}
	}
	if resource.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !resource.DefaultCapacity.IsPositive() {
		return &ValidationError{Field: "defaultCapacity", Reason: "must be greater than zero"}
	}
	return nil
}
