package stats

import (
	"context"
	"fmt"

	"github.com/capaplan/capaplan/pkg/capacity"
	"github.com/capaplan/capaplan/pkg/ledger"
	"github.com/capaplan/capaplan/pkg/resource"
)

type Service interface {
	// MonthlySummaries derives the twelve summaries of a year for one
	// resource.
	MonthlySummaries(ctx context.Context, res resource.Resource, year int) ([]MonthlySummary, error)
	// SummariesForResources derives summaries for a set of resources,
	// keyed by resource id.
	SummariesForResources(ctx context.Context, resources []resource.Resource, year int) (map[string][]MonthlySummary, error)
}

type ServiceImpl struct {
	ledger    *ledger.Service
	overrides capacity.Repository
}

func NewService(ledgerService *ledger.Service, overrides capacity.Repository) *ServiceImpl {
	return &ServiceImpl{ledger: ledgerService, overrides: overrides}
}

func (s *ServiceImpl) MonthlySummaries(ctx context.Context, res resource.Resource, year int) ([]MonthlySummary, error) {
	byResource, err := s.SummariesForResources(ctx, []resource.Resource{res}, year)
	if err != nil {
		return nil, err
	}
	return byResource[res.ID], nil
}

func (s *ServiceImpl) SummariesForResources(ctx context.Context, resources []resource.Resource, year int) (map[string][]MonthlySummary, error) {
	ids := make([]string, 0, len(resources))
	for _, res := range resources {
		ids = append(ids, res.ID)
	}

	monthsByResource, err := s.ledger.MonthEntries(ctx, ids, year)
	if err != nil {
		return nil, fmt.Errorf("failed to derive ledger entries: %w", err)
	}

	result := make(map[string][]MonthlySummary, len(resources))
	for _, res := range resources {
		overrides, err := s.overrides.GetForResourceYear(ctx, res.ID, year)
		if err != nil {
			return nil, fmt.Errorf("failed to load capacity overrides: %w", err)
		}
		result[res.ID] = BuildSummaries(res, monthsByResource[res.ID], overrides)
	}
	return result, nil
}
