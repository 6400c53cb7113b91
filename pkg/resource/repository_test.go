package resource

import (
	"context"
	"testing"

	"github.com/capaplan/capaplan/internal/test_utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) (context.Context, Repository) {
	db := test_utils.SetupTestDB(t)
	return context.Background(), NewRepository(db)
}

func TestRepositoryImpl_CreateAndGet(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	res := Resource{
		ID:              "11111111-1111-1111-1111-111111111111",
		Code:            "RES-1",
		Name:            "Alice Example",
		DefaultCapacity: decimal.RequireFromString("160"),
		Team:            "PLATFORM",
		Active:          true,
		Skills:          []string{"Backend", "Frontend"},
	}

	// when
	err := repo.Create(ctx, res)
	require.NoError(t, err)

	// then
	stored, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, res.Code, stored.Code)
	assert.Equal(t, res.Name, stored.Name)
	assert.True(t, stored.DefaultCapacity.Equal(decimal.NewFromInt(160)))
	assert.Equal(t, []string{"Backend", "Frontend"}, stored.Skills)
	assert.True(t, stored.Active)
}

func TestRepositoryImpl_GetByID_NotFound(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	stored, err := repo.GetByID(ctx, "11111111-1111-1111-1111-999999999999")

	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRepositoryImpl_GetAll_Filters(t *testing.T) {
	// given one active platform resource, one inactive, one other team
	ctx, repo := setupTestRepository(t)
	require.NoError(t, repo.Create(ctx, Resource{
		ID: "11111111-1111-1111-1111-111111111111", Code: "RES-1", Name: "A",
		DefaultCapacity: decimal.NewFromInt(160), Team: "PLATFORM", Active: true,
	}))
	require.NoError(t, repo.Create(ctx, Resource{
		ID: "11111111-1111-1111-1111-222222222222", Code: "RES-2", Name: "B",
		DefaultCapacity: decimal.NewFromInt(160), Team: "PLATFORM", Active: false,
	}))
	require.NoError(t, repo.Create(ctx, Resource{
		ID: "11111111-1111-1111-1111-333333333333", Code: "RES-3", Name: "C",
		DefaultCapacity: decimal.NewFromInt(160), Team: "MOBILE", Active: true,
	}))

	// when / then
	active, err := repo.GetAll(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := repo.GetAll(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	platform, err := repo.GetAll(ctx, "PLATFORM", false)
	require.NoError(t, err)
	require.Len(t, platform, 1)
	assert.Equal(t, "RES-1", platform[0].Code)
}

func TestRepositoryImpl_Update(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	res := Resource{
		ID: "11111111-1111-1111-1111-111111111111", Code: "RES-1", Name: "A",
		DefaultCapacity: decimal.NewFromInt(160), Team: "PLATFORM", Active: true,
	}
	require.NoError(t, repo.Create(ctx, res))

	res.Name = "Renamed"
	res.DefaultCapacity = decimal.NewFromInt(120)
	found, err := repo.Update(ctx, res)

	require.NoError(t, err)
	assert.True(t, found)
	stored, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.True(t, stored.DefaultCapacity.Equal(decimal.NewFromInt(120)))
}

func TestRepositoryImpl_Update_MissingRow(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	found, err := repo.Update(ctx, Resource{
		ID: "11111111-1111-1111-1111-999999999999", Code: "RES-9", Name: "X",
		DefaultCapacity: decimal.NewFromInt(160),
	})

	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepositoryImpl_SetActive(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	res := Resource{
		ID: "11111111-1111-1111-1111-111111111111", Code: "RES-1", Name: "A",
		DefaultCapacity: decimal.NewFromInt(160), Active: true,
	}
	require.NoError(t, repo.Create(ctx, res))

	found, err := repo.SetActive(ctx, res.ID, false)

	require.NoError(t, err)
	assert.True(t, found)
	stored, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}
