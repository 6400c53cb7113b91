package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service interface {
	GetAll(ctx context.Context, team string) ([]Project, error)
	Create(ctx context.Context, project Project) (Project, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context, team string) ([]Project, error) {
	return s.repo.GetAll(ctx, team)
}

func (s *ServiceImpl) Create(ctx context.Context, p Project) (Project, error) {
	if p.Code == "" {
		return Project{}, fmt.Errorf("project code must not be empty")
	}
	p.ID = uuid.NewString()
	if err := s.repo.Create(ctx, p); err != nil {
		return Project{}, fmt.Errorf("failed to store project: %w", err)
	}
	return p, nil
}
