package overview

import (
	"context"
	"fmt"
	"time"

	"github.com/capaplan/capaplan/internal/utils"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/capaplan/capaplan/pkg/stats"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// GetOverview assembles the dashboard payload for a year and an
	// optional team filter. Only active resources are reported.
	GetOverview(ctx context.Context, year int, team string) (Overview, error)
}

type ServiceImpl struct {
	resources  resource.Repository
	stats      stats.Service
	skillOrder []string
	clock      utils.Clock
}

func NewService(resources resource.Repository, statsService stats.Service, skillOrder []string, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		resources:  resources,
		stats:      statsService,
		skillOrder: skillOrder,
		clock:      clock,
	}
}

func (s *ServiceImpl) GetOverview(ctx context.Context, year int, team string) (Overview, error) {
	now := s.clock.Now()
	currentMonth := now.Month()
	// Months of a past or future year have no "current" split; the
	// reference month only applies to the clock's own year.
	if year > now.Year() {
		currentMonth = time.January
	} else if year < now.Year() {
		currentMonth = time.December
	}

	resources, err := s.resources.GetAll(ctx, team, false)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to load resources: %w", err)
	}

	summariesByResource, err := s.stats.SummariesForResources(ctx, resources, year)
	if err != nil {
		return Overview{}, err
	}
	log.Debugf("overview: derived summaries for %d resources (year %d, team %q)", len(resources), year, team)

	rows := make([]ResourceRow, 0, len(resources))
	withAssignment := 0
	allSummaries := make([]stats.MonthlySummary, 0, len(resources)*12)
	for _, res := range resources {
		summaries := summariesByResource[res.ID]
		allSummaries = append(allSummaries, summaries...)

		hasAssignment := stats.HasFutureCommitment(summaries)
		if hasAssignment {
			withAssignment++
		}

		rows = append(rows, ResourceRow{
			ID:            res.ID,
			Code:          res.Code,
			Name:          res.Name,
			Skills:        res.Skills,
			HasAssignment: hasAssignment,
			AvgUtilization: Utilization{
				Current: stats.AverageUtilization(summaries, currentMonth),
				Future:  stats.AverageUtilization(summaries, currentMonth+1),
			},
			Summaries: summaries,
		})
	}

	return Overview{
		Year:         year,
		CurrentMonth: currentMonth,
		KPIs: KPIs{
			TotalResources:             len(resources),
			ResourcesWithAssignment:    withAssignment,
			ResourcesWithoutAssignment: len(resources) - withAssignment,
			AvgUtilization: Utilization{
				Current: stats.AverageUtilization(allSummaries, currentMonth),
				Future:  stats.AverageUtilization(allSummaries, currentMonth+1),
			},
		},
		Charts: Charts{
			MonthlyComparison:  monthlyComparison(allSummaries),
			SkillsAvailability: stats.SkillAvailabilityReport(resources, summariesByResource, currentMonth, s.skillOrder),
		},
		Resources: rows,
	}, nil
}

// monthlyComparison sums committed and available hours per calendar
// month 1-12 across every resource's summaries.
func monthlyComparison(summaries []stats.MonthlySummary) []MonthComparison {
	comparison := make([]MonthComparison, 12)
	for i := range comparison {
		comparison[i] = MonthComparison{
			Month:          time.Month(i + 1),
			CommittedHours: decimal.Zero,
			AvailableHours: decimal.Zero,
		}
	}
	for _, s := range summaries {
		idx := int(s.Month) - 1
		comparison[idx].CommittedHours = comparison[idx].CommittedHours.Add(s.CommittedHours)
		comparison[idx].AvailableHours = comparison[idx].AvailableHours.Add(s.AvailableHours)
	}
	return comparison
}
