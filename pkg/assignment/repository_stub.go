package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/capaplan/capaplan/pkg/calendar"
)

type StubRepository struct {
	data map[string]Assignment
	// FailCreateFor simulates a storage failure for specific assignment ids.
	FailCreateFor map[string]bool
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		data:          map[string]Assignment{},
		FailCreateFor: map[string]bool{},
	}
}

func (s *StubRepository) Add(a Assignment) {
	s.data[a.ID] = a
}

func (s *StubRepository) ListForResources(ctx context.Context, resourceIDs []string, from, to time.Time) ([]Assignment, error) {
	ids := map[string]bool{}
	for _, id := range resourceIDs {
		ids[id] = true
	}
	result := make([]Assignment, 0, len(s.data))
	for _, a := range s.data {
		if !ids[a.ResourceID] {
			continue
		}
		effective := a.EffectiveDate()
		if effective.Before(calendar.Midnight(from)) || effective.After(calendar.Midnight(to)) {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (s *StubRepository) ListForResourceDay(ctx context.Context, resourceID string, day time.Time) ([]Assignment, error) {
	result := make([]Assignment, 0, len(s.data))
	for _, a := range s.data {
		if a.ResourceID != resourceID || a.Date == nil {
			continue
		}
		if calendar.DayKey(*a.Date) == calendar.DayKey(day) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *StubRepository) ListForResourceMonth(ctx context.Context, resourceID string, year int, month time.Month) ([]Assignment, error) {
	result := make([]Assignment, 0, len(s.data))
	for _, a := range s.data {
		if a.ResourceID != resourceID {
			continue
		}
		effective := a.EffectiveDate()
		if effective.Year() == year && effective.Month() == month {
			result = append(result, a)
		}
	}
	return result, nil
}

func (s *StubRepository) Create(ctx context.Context, a Assignment) error {
	if s.FailCreateFor[a.ID] {
		return fmt.Errorf("stub: create failed for %s", a.ID)
	}
	s.data[a.ID] = a
	return nil
}

func (s *StubRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[string]Assignment{}
	s.FailCreateFor = map[string]bool{}
}
