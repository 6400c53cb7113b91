package assignment

import (
	"time"

	"github.com/capaplan/capaplan/pkg/project"
	"github.com/shopspring/decimal"
)

// Assignment is a single allocation of hours: either committed project
// work or an absence, depending only on the project code convention.
type Assignment struct {
	ID string
	// ResourceID is empty for unassigned/pending rows. Such rows never
	// count toward committed hours.
	ResourceID  string
	ProjectID   string
	ProjectCode string
	// Date is the calendar day of the allocation. Legacy rows carry
	// Month/Year instead and Date is nil.
	Date  *time.Time
	Month int
	Year  int
	Hours decimal.Decimal
	Team  string
}

// IsAbsence reports whether this row is an absence (vacation/leave)
// per the ABSENCES-{TEAM} project-code convention.
func (a Assignment) IsAbsence() bool {
	return project.IsAbsenceCode(a.ProjectCode)
}

// HasResource reports whether a resource is actually assigned to the row.
func (a Assignment) HasResource() bool {
	return a.ResourceID != ""
}

// EffectiveDate is the day the row counts against. Legacy month/year
// rows map to the first day of their month.
func (a Assignment) EffectiveDate() time.Time {
	if a.Date != nil {
		return *a.Date
	}
	return time.Date(a.Year, time.Month(a.Month), 1, 0, 0, 0, 0, time.UTC)
}
