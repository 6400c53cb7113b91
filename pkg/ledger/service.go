package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/capaplan/capaplan/pkg/assignment"
	"github.com/capaplan/capaplan/pkg/calendar"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/shopspring/decimal"
)

// Service derives ledger entries for persisted resources and
// assignments. It only reads; all derived values are computed per call.
type Service struct {
	resources   resource.Repository
	assignments assignment.Repository
}

func NewService(resources resource.Repository, assignments assignment.Repository) *Service {
	return &Service{resources: resources, assignments: assignments}
}

// DayEntries derives one entry per (resource, day) for the inclusive
// range, for every listed resource.
func (s *Service) DayEntries(ctx context.Context, resourceIDs []string, from, to time.Time) ([]Entry, error) {
	rows, err := s.assignments.ListForResources(ctx, resourceIDs, from, to)
	if err != nil {
		return nil, err
	}
	byResource := groupByResource(rows)

	entries := make([]Entry, 0, len(resourceIDs)*31)
	for _, id := range resourceIDs {
		res, err := s.resources.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, fmt.Errorf("resource %s: %w", id, resource.ErrResourceNotFound)
		}
		entries = append(entries, BuildDayEntries(*res, byResource[id], from, to)...)
	}
	return entries, nil
}

// MonthEntries derives the twelve month-level entries of a year for
// every listed resource, keyed by resource id.
func (s *Service) MonthEntries(ctx context.Context, resourceIDs []string, year int) (map[string][]MonthEntry, error) {
	from, _ := calendar.MonthBounds(year, time.January)
	_, to := calendar.MonthBounds(year, time.December)

	rows, err := s.assignments.ListForResources(ctx, resourceIDs, from, to)
	if err != nil {
		return nil, err
	}
	byResource := groupByResource(rows)

	result := make(map[string][]MonthEntry, len(resourceIDs))
	for _, id := range resourceIDs {
		res, err := s.resources.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, fmt.Errorf("resource %s: %w", id, resource.ErrResourceNotFound)
		}
		months := make([]MonthEntry, 0, 12)
		for month := time.January; month <= time.December; month++ {
			months = append(months, BuildMonthEntry(*res, byResource[id], year, month))
		}
		result[id] = months
	}
	return result, nil
}

// CommittedOnDay sums the persisted commitment hours of a resource on
// one day, for the absence-fit check of interactive edits.
func (s *Service) CommittedOnDay(ctx context.Context, resourceID string, day time.Time) (decimal.Decimal, error) {
	rows, err := s.assignments.ListForResourceDay(ctx, resourceID, day)
	if err != nil {
		return decimal.Zero, err
	}
	committed := decimal.Zero
	for _, a := range rows {
		if a.IsAbsence() || !a.HasResource() {
			continue
		}
		committed = committed.Add(a.Hours)
	}
	return committed, nil
}

func groupByResource(rows []assignment.Assignment) map[string][]assignment.Assignment {
	grouped := map[string][]assignment.Assignment{}
	for _, a := range rows {
		grouped[a.ResourceID] = append(grouped[a.ResourceID], a)
	}
	return grouped
}
