package assignment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/capaplan/capaplan/pkg/calendar"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ConflictCapacityExceeded is the kind of every conflict reported by the
// validator. It is a structured result, not an error: the caller decides
// whether to abort the batch or drop the offending entries.
const ConflictCapacityExceeded = "CAPACITY_EXCEEDED"

// ProposedAllocation is one (resource, day, hours) triple of a batch
// under validation. Batches coming from a UI are expected to arrive
// already grouped per resource and day; duplicates are merged anyway.
type ProposedAllocation struct {
	ResourceID string
	Date       time.Time
	Hours      decimal.Decimal
}

type Conflict struct {
	Kind       string
	ResourceID string
	Date       string
	Available  decimal.Decimal
	Requested  decimal.Decimal
	Assigned   decimal.Decimal
	Detail     string
}

type Validator interface {
	// Validate compares a batch of proposed allocations against the
	// remaining daily capacity of each touched (resource, day) pair and
	// returns every capacity conflict. It reads persisted commitments
	// but never writes; rows belonging to excludeProjectID are ignored
	// so re-saving a project does not conflict with its own prior state.
	Validate(ctx context.Context, proposed []ProposedAllocation, excludeProjectID string) ([]Conflict, error)
}

type ValidatorImpl struct {
	assignments Repository
	resources   resource.Repository
}

func NewValidator(assignments Repository, resources resource.Repository) *ValidatorImpl {
	return &ValidatorImpl{assignments: assignments, resources: resources}
}

func (v *ValidatorImpl) Validate(ctx context.Context, proposed []ProposedAllocation, excludeProjectID string) ([]Conflict, error) {
	grouped := groupByResourceDay(proposed)

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	conflicts := make([]Conflict, 0)
	for _, key := range keys {
		p := grouped[key]

		res, err := v.resources.GetByID(ctx, p.ResourceID)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, fmt.Errorf("resource %s: %w", p.ResourceID, resource.ErrResourceNotFound)
		}

		assigned, err := v.assignedHours(ctx, p.ResourceID, p.Date, excludeProjectID)
		if err != nil {
			return nil, err
		}

		available := res.DailyCapacity().Sub(assigned)
		if p.Hours.GreaterThan(available) {
			log.Debugf("capacity conflict for resource %s on %s: available %s, requested %s",
				p.ResourceID, calendar.DayKey(p.Date), available, p.Hours)
			conflicts = append(conflicts, Conflict{
				Kind:       ConflictCapacityExceeded,
				ResourceID: p.ResourceID,
				Date:       calendar.DayKey(p.Date),
				Available:  available,
				Requested:  p.Hours,
				Assigned:   assigned,
				Detail: fmt.Sprintf("Available: %s hours, Requested: %s hours, Assigned: %s hours",
					available, p.Hours, assigned),
			})
		}
	}

	return conflicts, nil
}

// assignedHours sums the persisted commitment hours of a resource on a
// day. Absences, unassigned rows, and rows of the excluded project do
// not count.
func (v *ValidatorImpl) assignedHours(ctx context.Context, resourceID string, day time.Time, excludeProjectID string) (decimal.Decimal, error) {
	existing, err := v.assignments.ListForResourceDay(ctx, resourceID, day)
	if err != nil {
		return decimal.Zero, err
	}

	assigned := decimal.Zero
	for _, a := range existing {
		if a.IsAbsence() || !a.HasResource() {
			continue
		}
		if excludeProjectID != "" && a.ProjectID == excludeProjectID {
			continue
		}
		assigned = assigned.Add(a.Hours)
	}
	return assigned, nil
}

func groupByResourceDay(proposed []ProposedAllocation) map[string]ProposedAllocation {
	grouped := make(map[string]ProposedAllocation, len(proposed))
	for _, p := range proposed {
		key := p.ResourceID + "|" + calendar.DayKey(p.Date)
		if existing, ok := grouped[key]; ok {
			existing.Hours = existing.Hours.Add(p.Hours)
			grouped[key] = existing
		} else {
			grouped[key] = p
		}
	}
	return grouped
}
