package stats

import (
	"time"

	"github.com/capaplan/capaplan/pkg/capacity"
	"github.com/capaplan/capaplan/pkg/ledger"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MonthlySummary is the derived reporting row for one resource-month.
// TotalHours is the computed base unless a capacity override supersedes
// it for the period.
type MonthlySummary struct {
	ResourceID     string
	Month          time.Month
	Year           int
	TotalHours     decimal.Decimal
	CommittedHours decimal.Decimal
	AvailableHours decimal.Decimal
	// UtilizationRate is committed/total as a percentage, 0 when the
	// total is 0.
	UtilizationRate decimal.Decimal
}

// SkillAvailability is the per-skill availability split used by the
// dashboard.
type SkillAvailability struct {
	Skill   string
	Current decimal.Decimal
	Future  decimal.Decimal
}

// BuildSummaries derives the twelve monthly summaries of a year from
// the resource's month-level ledger entries and its capacity overrides.
func BuildSummaries(res resource.Resource, months []ledger.MonthEntry, overrides []capacity.Override) []MonthlySummary {
	overrideByMonth := make(map[int]capacity.Override, len(overrides))
	for _, o := range overrides {
		overrideByMonth[o.Month] = o
	}

	summaries := make([]MonthlySummary, 0, len(months))
	for _, m := range months {
		total := m.BaseHours
		if o, ok := overrideByMonth[int(m.Month)]; ok {
			total = o.TotalHours
		}
		available := decimal.Max(decimal.Zero, total.Sub(m.AbsenceHours).Sub(m.CommittedHours))

		rate := decimal.Zero
		if !total.IsZero() {
			rate = m.CommittedHours.Div(total).Mul(hundred)
		}

		summaries = append(summaries, MonthlySummary{
			ResourceID:      res.ID,
			Month:           m.Month,
			Year:            m.Year,
			TotalHours:      total,
			CommittedHours:  m.CommittedHours,
			AvailableHours:  available,
			UtilizationRate: rate,
		})
	}
	return summaries
}

// AverageUtilization is the mean utilization rate over the months at or
// after fromMonth. Returns 0 when no month qualifies.
func AverageUtilization(summaries []MonthlySummary, fromMonth time.Month) decimal.Decimal {
	sum := decimal.Zero
	count := 0
	for _, s := range summaries {
		if s.Month < fromMonth {
			continue
		}
		sum = sum.Add(s.UtilizationRate)
		count++
	}
	if count == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}

// HasFutureCommitment reports whether any month of the series has
// committed hours. Despite the name it checks every month, past ones
// included; the dashboard has always counted resources this way.
func HasFutureCommitment(summaries []MonthlySummary) bool {
	for _, s := range summaries {
		if s.CommittedHours.IsPositive() {
			return true
		}
	}
	return false
}

// SkillAvailabilityReport apportions each resource's current-month and
// future-months available hours equally across its skills, then sums
// the contributions per skill name. Only skills in the ordered
// allow-list appear, in list order; unlisted skills are dropped from
// the report to keep the dashboard stable.
func SkillAvailabilityReport(resources []resource.Resource, summariesByResource map[string][]MonthlySummary, currentMonth time.Month, skillOrder []string) []SkillAvailability {
	current := map[string]decimal.Decimal{}
	future := map[string]decimal.Decimal{}
	seen := map[string]bool{}

	for _, res := range resources {
		if len(res.Skills) == 0 {
			continue
		}
		summaries := summariesByResource[res.ID]

		currentHours := decimal.Zero
		futureHours := decimal.Zero
		for _, s := range summaries {
			if s.Month == currentMonth {
				currentHours = currentHours.Add(s.AvailableHours)
			} else if s.Month > currentMonth {
				futureHours = futureHours.Add(s.AvailableHours)
			}
		}

		skillCount := decimal.NewFromInt(int64(len(res.Skills)))
		for _, skill := range res.Skills {
			seen[skill] = true
			current[skill] = current[skill].Add(currentHours.Div(skillCount))
			future[skill] = future[skill].Add(futureHours.Div(skillCount))
		}
	}

	report := make([]SkillAvailability, 0, len(skillOrder))
	for _, skill := range skillOrder {
		if !seen[skill] {
			continue
		}
		report = append(report, SkillAvailability{Skill: skill, Current: current[skill], Future: future[skill]})
	}
	return report
}
