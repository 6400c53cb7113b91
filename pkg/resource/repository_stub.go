package resource

import (
	"context"
)

type StubRepository struct {
	data map[string]Resource
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[string]Resource{}}
}

func (s *StubRepository) Add(resource Resource) {
	s.data[resource.ID] = resource
}

func (s *StubRepository) GetAll(ctx context.Context, team string, includeInactive bool) ([]Resource, error) {
	resources := make([]Resource, 0, len(s.data))
	for _, res := range s.data {
		if team != "" && res.Team != team {
			continue
		}
		if !res.Active && !includeInactive {
			continue
		}
		resources = append(resources, res)
	}
	return resources, nil
}

func (s *StubRepository) GetByID(ctx context.Context, id string) (*Resource, error) {
	res, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (s *StubRepository) Create(ctx context.Context, resource Resource) error {
	s.data[resource.ID] = resource
	return nil
}

func (s *StubRepository) Update(ctx context.Context, resource Resource) (bool, error) {
	if _, ok := s.data[resource.ID]; !ok {
		return false, nil
	}
	s.data[resource.ID] = resource
	return true, nil
}

func (s *StubRepository) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	res, ok := s.data[id]
	if !ok {
		return false, nil
	}
	res.Active = active
	s.data[id] = res
	return true, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[string]Resource{}
}
