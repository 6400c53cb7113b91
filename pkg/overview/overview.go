package overview

import (
	"time"

	"github.com/capaplan/capaplan/pkg/stats"
	"github.com/shopspring/decimal"
)

// Overview is the full dashboard payload: KPIs, chart series, and the
// per-resource monthly breakdown.
type Overview struct {
	Year         int
	CurrentMonth time.Month
	KPIs         KPIs
	Charts       Charts
	Resources    []ResourceRow
}

type KPIs struct {
	TotalResources             int
	ResourcesWithAssignment    int
	ResourcesWithoutAssignment int
	AvgUtilization             Utilization
}

// Utilization splits the average utilization rate into the current
// month onward versus the months after it.
type Utilization struct {
	Current decimal.Decimal
	Future  decimal.Decimal
}

type Charts struct {
	MonthlyComparison  []MonthComparison
	SkillsAvailability []stats.SkillAvailability
}

// MonthComparison sums committed and available hours across all
// resources for one calendar month.
type MonthComparison struct {
	Month          time.Month
	CommittedHours decimal.Decimal
	AvailableHours decimal.Decimal
}

type ResourceRow struct {
	ID             string
	Code           string
	Name           string
	Skills         []string
	HasAssignment  bool
	AvgUtilization Utilization
	Summaries      []stats.MonthlySummary
}
