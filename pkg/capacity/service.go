package capacity

import (
	"context"
	"fmt"
	"time"

	"github.com/capaplan/capaplan/pkg/assignment"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ValidationError reports malformed upsert input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type Service interface {
	// Upsert stores a capacity override after checking the business
	// rules: the resource must be active, and the new total may not be
	// below the hours already assigned for that month.
	Upsert(ctx context.Context, override Override) (Override, error)
	GetForResourceYear(ctx context.Context, resourceID string, year int) ([]Override, error)
}

type ServiceImpl struct {
	repo        Repository
	resources   resource.Repository
	assignments assignment.Repository
}

func NewService(repo Repository, resources resource.Repository, assignments assignment.Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo, resources: resources, assignments: assignments}
}

func (s *ServiceImpl) Upsert(ctx context.Context, override Override) (Override, error) {
	if err := validate(override); err != nil {
		return Override{}, err
	}

	res, err := s.resources.GetByID(ctx, override.ResourceID)
	if err != nil {
		return Override{}, err
	}
	if res == nil {
		return Override{}, fmt.Errorf("resource %s: %w", override.ResourceID, resource.ErrResourceNotFound)
	}
	if !res.Active {
		log.Warnf("capacity override rejected: resource %s is inactive", res.ID)
		return Override{}, &BusinessRuleError{
			Code:    CodeInactiveResource,
			Message: fmt.Sprintf("resource %s is not active", res.Code),
		}
	}

	assigned, err := s.assignedHours(ctx, override.ResourceID, override.Year, override.Month)
	if err != nil {
		return Override{}, err
	}
	if override.TotalHours.LessThan(assigned) {
		log.Warnf("capacity override rejected: %s hours is below %s already assigned for %s %d-%02d",
			override.TotalHours, assigned, res.Code, override.Year, override.Month)
		return Override{}, &BusinessRuleError{
			Code: CodeCapacityBelowAssigned,
			Message: fmt.Sprintf("total of %s hours is below the %s hours already assigned for this period",
				override.TotalHours, assigned),
		}
	}

	override.ID = uuid.NewString()
	if err := s.repo.Upsert(ctx, override); err != nil {
		return Override{}, fmt.Errorf("failed to store capacity override: %w", err)
	}
	return override, nil
}

func (s *ServiceImpl) GetForResourceYear(ctx context.Context, resourceID string, year int) ([]Override, error) {
	if _, err := uuid.Parse(resourceID); err != nil {
		return nil, &ValidationError{Field: "resourceId", Reason: "must be a UUID"}
	}
	return s.repo.GetForResourceYear(ctx, resourceID, year)
}

// assignedHours sums every assignment of the resource in the month,
// absences included: an override below either would understate the
// period.
func (s *ServiceImpl) assignedHours(ctx context.Context, resourceID string, year, month int) (decimal.Decimal, error) {
	rows, err := s.assignments.ListForResourceMonth(ctx, resourceID, year, time.Month(month))
	if err != nil {
		return decimal.Zero, err
	}
	assigned := decimal.Zero
	for _, a := range rows {
		assigned = assigned.Add(a.Hours)
	}
	return assigned, nil
}

func validate(override Override) error {
	if _, err := uuid.Parse(override.ResourceID); err != nil {
		return &ValidationError{Field: "resourceId", Reason: "must be a UUID"}
	}
	if override.Month < 1 || override.Month > 12 {
		return &ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	if override.Year < 2000 || override.Year > 2100 {
		return &ValidationError{Field: "year", Reason: "must be between 2000 and 2100"}
	}
	if override.TotalHours.IsNegative() {
		return &ValidationError{Field: "totalHours", Reason: "must not be negative"}
	}
	return nil
}
