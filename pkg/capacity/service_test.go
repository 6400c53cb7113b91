package capacity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/capaplan/capaplan/pkg/assignment"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resourceID = "0b54c4f1-23a1-4f5c-9e6a-111111111111"

func testResource(active bool) resource.Resource {
	return resource.Resource{
		ID:              resourceID,
		Code:            "RES-1",
		Name:            "Test Resource",
		DefaultCapacity: decimal.NewFromInt(160),
		Team:            "PLATFORM",
		Active:          active,
	}
}

func setup(t *testing.T) (*ServiceImpl, *StubRepository, *resource.StubRepository, *assignment.StubRepository, func()) {
	overrides := NewStubRepository()
	resources := resource.NewStubRepository()
	assignments := assignment.NewStubRepository()
	service := NewService(overrides, resources, assignments)
	return service, overrides, resources, assignments, func() {
		overrides.Cleanup()
		resources.Cleanup()
		assignments.Cleanup()
	}
}

func TestUpsert_StoresOverride(t *testing.T) {
	service, overrides, resources, _, teardown := setup(t)
	defer teardown()

	resources.Add(testResource(true))

	stored, err := service.Upsert(context.Background(), Override{
		ResourceID: resourceID,
		Month:      6,
		Year:       2024,
		TotalHours: decimal.NewFromInt(120),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	found, err := overrides.GetForResourceMonth(context.Background(), resourceID, 2024, 6)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.TotalHours.Equal(decimal.NewFromInt(120)))
}

func TestUpsert_RejectsInactiveResource(t *testing.T) {
	service, _, resources, _, teardown := setup(t)
	defer teardown()

	resources.Add(testResource(false))

	_, err := service.Upsert(context.Background(), Override{
		ResourceID: resourceID,
		Month:      6,
		Year:       2024,
		TotalHours: decimal.NewFromInt(120),
	})

	var ruleErr *BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, CodeInactiveResource, ruleErr.Code)
}

func TestUpsert_RejectsTotalBelowAssigned(t *testing.T) {
	service, _, resources, assignments, teardown := setup(t)
	defer teardown()

	// given 15 hours already assigned in the month, absence included
	resources.Add(testResource(true))
	day := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	assignments.Add(assignment.Assignment{
		ID:          "a1",
		ResourceID:  resourceID,
		ProjectID:   "p1",
		ProjectCode: "PROJ-A",
		Date:        &day,
		Hours:       decimal.NewFromInt(10),
	})
	assignments.Add(assignment.Assignment{
		ID:          "a2",
		ResourceID:  resourceID,
		ProjectCode: "ABSENCES-PLATFORM",
		Date:        &day,
		Hours:       decimal.NewFromInt(5),
	})

	// when setting the month's total to 10
	_, err := service.Upsert(context.Background(), Override{
		ResourceID: resourceID,
		Month:      6,
		Year:       2024,
		TotalHours: decimal.NewFromInt(10),
	})

	// then the override is rejected
	var ruleErr *BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, CodeCapacityBelowAssigned, ruleErr.Code)
}

func TestUpsert_AcceptsTotalEqualToAssigned(t *testing.T) {
	service, _, resources, assignments, teardown := setup(t)
	defer teardown()

	resources.Add(testResource(true))
	day := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	assignments.Add(assignment.Assignment{
		ID:          "a1",
		ResourceID:  resourceID,
		ProjectID:   "p1",
		ProjectCode: "PROJ-A",
		Date:        &day,
		Hours:       decimal.NewFromInt(15),
	})

	_, err := service.Upsert(context.Background(), Override{
		ResourceID: resourceID,
		Month:      6,
		Year:       2024,
		TotalHours: decimal.NewFromInt(15),
	})

	assert.NoError(t, err)
}

func TestUpsert_UnknownResource(t *testing.T) {
	service, _, _, _, teardown := setup(t)
	defer teardown()

	_, err := service.Upsert(context.Background(), Override{
		ResourceID: resourceID,
		Month:      6,
		Year:       2024,
		TotalHours: decimal.NewFromInt(120),
	})

	assert.ErrorIs(t, err, resource.ErrResourceNotFound)
}

func TestUpsert_Validation(t *testing.T) {
	service, _, _, _, teardown := setup(t)
	defer teardown()

	cases := []struct {
		name     string
		override Override
		field    string
	}{
		{
			name:     "malformed resource id",
			override: Override{ResourceID: "not-a-uuid", Month: 6, Year: 2024, TotalHours: decimal.NewFromInt(1)},
			field:    "resourceId",
		},
		{
			name:     "month out of range",
			override: Override{ResourceID: resourceID, Month: 13, Year: 2024, TotalHours: decimal.NewFromInt(1)},
			field:    "month",
		},
		{
			name:     "year out of range",
			override: Override{ResourceID: resourceID, Month: 6, Year: 1999, TotalHours: decimal.NewFromInt(1)},
			field:    "year",
		},
		{
			name:     "negative total",
			override: Override{ResourceID: resourceID, Month: 6, Year: 2024, TotalHours: decimal.NewFromInt(-1)},
			field:    "totalHours",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Upsert(context.Background(), tc.override)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestGetForResourceYear(t *testing.T) {
	service, overrides, _, _, teardown := setup(t)
	defer teardown()

	overrides.Add(Override{ID: "o1", ResourceID: resourceID, Month: 3, Year: 2024, TotalHours: decimal.NewFromInt(100)})
	overrides.Add(Override{ID: "o2", ResourceID: resourceID, Month: 7, Year: 2024, TotalHours: decimal.NewFromInt(90)})
	overrides.Add(Override{ID: "o3", ResourceID: resourceID, Month: 1, Year: 2023, TotalHours: decimal.NewFromInt(80)})

	found, err := service.GetForResourceYear(context.Background(), resourceID, 2024)

	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestGetForResourceYear_MalformedID(t *testing.T) {
	service, _, _, _, teardown := setup(t)
	defer teardown()

	_, err := service.GetForResourceYear(context.Background(), "nope", 2024)

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}
