package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testResourceID = "0b54c4f1-23a1-4f5c-9e6a-111111111111"

func testResource() resource.Resource {
	return resource.Resource{
		ID:              testResourceID,
		Code:            "RES-1",
		Name:            "Test Resource",
		DefaultCapacity: decimal.NewFromInt(160),
		Team:            "PLATFORM",
		Active:          true,
	}
}

func dayPtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func setupValidator(t *testing.T) (*ValidatorImpl, *StubRepository, *resource.StubRepository, func()) {
	assignments := NewStubRepository()
	resources := resource.NewStubRepository()
	validator := NewValidator(assignments, resources)
	return validator, assignments, resources, func() {
		assignments.Cleanup()
		resources.Cleanup()
	}
}

func TestValidator_ReportsCapacityExceeded(t *testing.T) {
	validator, assignments, resources, teardown := setupValidator(t)
	defer teardown()

	// given 6 of 8 daily hours already assigned
	resources.Add(testResource())
	assignments.Add(Assignment{
		ID:          "a1",
		ResourceID:  testResourceID,
		ProjectID:   "p1",
		ProjectCode: "PROJ-A",
		Date:        dayPtr(2024, time.January, 8),
		Hours:       decimal.NewFromInt(6),
	})

	// when proposing 3 more hours on the same day
	day := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	conflicts, err := validator.Validate(context.Background(), []ProposedAllocation{
		{ResourceID: testResourceID, Date: day, Hours: decimal.NewFromInt(3)},
	}, "")

	// then a conflict reports 2 available against 3 requested
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, ConflictCapacityExceeded, c.Kind)
	assert.Equal(t, testResourceID, c.ResourceID)
	assert.Equal(t, "2024-01-08", c.Date)
	assert.True(t, c.Available.Equal(decimal.NewFromInt(2)))
	assert.True(t, c.Requested.Equal(decimal.NewFromInt(3)))
	assert.True(t, c.Assigned.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, "Available: 2 hours, Requested: 3 hours, Assigned: 6 hours", c.Detail)
}

func TestValidator_AcceptsFittingAllocation(t *testing.T) {
	validator, assignments, resources, teardown := setupValidator(t)
	defer teardown()

	resources.Add(testResource())
	assignments.Add(Assignment{
		ID:          "a1",
		ResourceID:  testResourceID,
		ProjectID:   "p1",
		ProjectCode: "PROJ-A",
		Date:        dayPtr(2024, time.January, 8),
		Hours:       decimal.NewFromInt(6),
	})

	// 2 more hours exactly fill the day
	day := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	conflicts, err := validator.Validate(context.Background(), []ProposedAllocation{
		{ResourceID: testResourceID, Date: day, Hours: decimal.NewFromInt(2)},
	}, "")

	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestValidator_ExcludesEditedProject(t *testing.T) {
	validator, assignments, resources, teardown := setupValidator(t)
	defer teardown()

	// given the day is fully booked by the project being edited
	resources.Add(testResource())
	assignments.Add(Assignment{
		ID:          "a1",
		ResourceID:  testResourceID,
		ProjectID:   "p-edited",
		ProjectCode: "PROJ-A",
		Date:        dayPtr(2024, time.January, 8),
		Hours:       decimal.NewFromInt(8),
	})

	// when re-saving that project's allocation
	day := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	conflicts, err := validator.Validate(context.Background(), []ProposedAllocation{
		{ResourceID: testResourceID, Date: day, Hours: decimal.NewFromInt(8)},
	}, "p-edited")

	// then its own prior rows do not conflict
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestValidator_IgnoresAbsencesAndUnassignedRows(t *testing.T) {
	validator, assignments, resources, teardown := setupValidator(t)
	defer teardown()

	resources.Add(testResource())
	assignments.Add(Assignment{
		ID:          "a1",
		ResourceID:  testResourceID,
		ProjectCode: "ABSENCES-PLATFORM",
		Date:        dayPtr(2024, time.January, 8),
		Hours:       decimal.NewFromInt(8),
	})
	assignments.Add(Assignment{
		ID:          "a2",
		ProjectID:   "p1",
		ProjectCode: "PROJ-A",
		Date:        dayPtr(2024, time.January, 8),
		Hours:       decimal.NewFromInt(8),
	})

	// neither the absence nor the unassigned row counts as assigned
	day := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	conflicts, err := validator.Validate(context.Background(), []ProposedAllocation{
		{ResourceID: testResourceID, Date: day, Hours: decimal.NewFromInt(8)},
	}, "")

	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestValidator_MergesDuplicatesInBatch(t *testing.T) {
	validator, _, resources, teardown := setupValidator(t)
	defer teardown()

	resources.Add(testResource())

	// two entries for the same resource and day are summed before checking
	day := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	conflicts, err := validator.Validate(context.Background(), []ProposedAllocation{
		{ResourceID: testResourceID, Date: day, Hours: decimal.NewFromInt(5)},
		{ResourceID: testResourceID, Date: day, Hours: decimal.NewFromInt(5)},
	}, "")

	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.True(t, conflicts[0].Requested.Equal(decimal.NewFromInt(10)))
}

func TestValidator_UnknownResource(t *testing.T) {
	validator, _, _, teardown := setupValidator(t)
	defer teardown()

	day := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	_, err := validator.Validate(context.Background(), []ProposedAllocation{
		{ResourceID: testResourceID, Date: day, Hours: decimal.NewFromInt(1)},
	}, "")

	assert.ErrorIs(t, err, resource.ErrResourceNotFound)
}

func TestValidator_FlooredDailyCapacity(t *testing.T) {
	validator, _, resources, teardown := setupValidator(t)
	defer teardown()

	// 150h monthly gives 7.5 daily, floored to 7 for conflict checks
	res := testResource()
	res.DefaultCapacity = decimal.NewFromInt(150)
	resources.Add(res)

	day := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	conflicts, err := validator.Validate(context.Background(), []ProposedAllocation{
		{ResourceID: testResourceID, Date: day, Hours: decimal.NewFromInt(8)},
	}, "")

	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.True(t, conflicts[0].Available.Equal(decimal.NewFromInt(7)))
}
