package stats

import (
	"context"
	"testing"
	"time"

	"github.com/capaplan/capaplan/pkg/assignment"
	"github.com/capaplan/capaplan/pkg/capacity"
	"github.com/capaplan/capaplan/pkg/ledger"
	"github.com/capaplan/capaplan/pkg/resource"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) (*ServiceImpl, *resource.StubRepository, *assignment.StubRepository, *capacity.StubRepository, func()) {
	resources := resource.NewStubRepository()
	assignments := assignment.NewStubRepository()
	overrides := capacity.NewStubRepository()
	ledgerService := ledger.NewService(resources, assignments)
	service := NewService(ledgerService, overrides)
	return service, resources, assignments, overrides, func() {
		resources.Cleanup()
		assignments.Cleanup()
		overrides.Cleanup()
	}
}

func TestMonthlySummaries_FromLedger(t *testing.T) {
	service, resources, assignments, _, teardown := setupService(t)
	defer teardown()

	// given one 40h commitment in March 2024
	res := testResource()
	resources.Add(res)
	day := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	assignments.Add(assignment.Assignment{
		ID:          "a1",
		ResourceID:  resourceID,
		ProjectID:   "p1",
		ProjectCode: "PROJ-A",
		Date:        &day,
		Hours:       decimal.NewFromInt(40),
	})

	// when
	summaries, err := service.MonthlySummaries(context.Background(), res, 2024)

	// then twelve summaries with March carrying the commitment
	require.NoError(t, err)
	require.Len(t, summaries, 12)
	march := summaries[2]
	assert.Equal(t, time.March, march.Month)
	assert.True(t, march.CommittedHours.Equal(decimal.NewFromInt(40)))
	// March 2024 has 21 working days, 168h base
	assert.True(t, march.TotalHours.Equal(decimal.NewFromInt(168)), "total was %s", march.TotalHours)
}

func TestMonthlySummaries_OverrideSupersedesComputedBase(t *testing.T) {
	service, resources, _, overrides, teardown := setupService(t)
	defer teardown()

	res := testResource()
	resources.Add(res)
	overrides.Add(capacity.Override{
		ID:         "o1",
		ResourceID: resourceID,
		Month:      3,
		Year:       2024,
		TotalHours: decimal.NewFromInt(100),
	})

	summaries, err := service.MonthlySummaries(context.Background(), res, 2024)

	require.NoError(t, err)
	require.Len(t, summaries, 12)
	assert.True(t, summaries[2].TotalHours.Equal(decimal.NewFromInt(100)))
	// other months keep the computed base
	assert.False(t, summaries[0].TotalHours.Equal(decimal.NewFromInt(100)))
}

func TestSummariesForResources_KeyedByResource(t *testing.T) {
	service, resources, _, _, teardown := setupService(t)
	defer teardown()

	first := testResource()
	second := testResource()
	second.ID = "0b54c4f1-23a1-4f5c-9e6a-222222222222"
	second.Code = "RES-2"
	resources.Add(first)
	resources.Add(second)

	byResource, err := service.SummariesForResources(context.Background(), []resource.Resource{first, second}, 2024)

	require.NoError(t, err)
	require.Len(t, byResource, 2)
	assert.Len(t, byResource[first.ID], 12)
	assert.Len(t, byResource[second.ID], 12)
}
