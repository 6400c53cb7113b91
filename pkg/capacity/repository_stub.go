package capacity

import (
	"context"
	"fmt"
)

type StubRepository struct {
	data map[string]Override
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[string]Override{}}
}

func key(resourceID string, year, month int) string {
	return fmt.Sprintf("%s|%d-%02d", resourceID, year, month)
}

func (s *StubRepository) Add(override Override) {
	s.data[key(override.ResourceID, override.Year, override.Month)] = override
}

func (s *StubRepository) GetForResourceMonth(ctx context.Context, resourceID string, year, month int) (*Override, error) {
	override, ok := s.data[key(resourceID, year, month)]
	if !ok {
		return nil, nil
	}
	return &override, nil
}

func (s *StubRepository) GetForResourceYear(ctx context.Context, resourceID string, year int) ([]Override, error) {
	overrides := make([]Override, 0, 12)
	for month := 1; month <= 12; month++ {
		if override, ok := s.data[key(resourceID, year, month)]; ok {
			overrides = append(overrides, override)
		}
	}
	return overrides, nil
}

func (s *StubRepository) Upsert(ctx context.Context, override Override) error {
	s.data[key(override.ResourceID, override.Year, override.Month)] = override
	return nil
}

func (s *StubRepository) Delete(ctx context.Context, id string) (bool, error) {
	for k, override := range s.data {
		if override.ID == id {
			delete(s.data, k)
			return true, nil
		}
	}
	return false, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[string]Override{}
}
