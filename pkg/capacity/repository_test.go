package capacity

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

func TestRepositoryImpl_UpsertAndGet(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	override := Override{
		ID:         "o1",
		ResourceID: resourceID,
		Month:      6,
		Year:       2024,
		TotalHours: decimal.NewFromInt(120),
	}

	// when
	require.NoError(t, repo.Upsert(ctx, override))

	// then
	stored, err := repo.GetForResourceMonth(ctx, resourceID, 2024, 6)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.TotalHours.Equal(decimal.NewFromInt(120)))
}

func TestRepositoryImpl_UpsertReplacesExisting(t *testing.T) {
	// writing the same resource-month twice keeps a single row
	ctx, repo := setupTestRepository(t)
	require.NoError(t, repo.Upsert(ctx, Override{
		ID: "o1", ResourceID: resourceID, Month: 6, Year: 2024, TotalHours: decimal.NewFromInt(120),
	}))
	require.NoError(t, repo.Upsert(ctx, Override{
		ID: "o2", ResourceID: resourceID, Month: 6, Year: 2024, TotalHours: decimal.NewFromInt(100),
	}))

	overrides, err := repo.GetForResourceYear(ctx, resourceID, 2024)

	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.True(t, overrides[0].TotalHours.Equal(decimal.NewFromInt(100)))
}

func TestRepositoryImpl_GetForResourceMonth_NotFound(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	stored, err := repo.GetForResourceMonth(ctx, resourceID, 2024, 6)

	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRepositoryImpl_GetForResourceYear_SortedByMonth(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	require.NoError(t, repo.Upsert(ctx, Override{
		ID: "o1", ResourceID: resourceID, Month: 9, Year: 2024, TotalHours: decimal.NewFromInt(90),
	}))
	require.NoError(t, repo.Upsert(ctx, Override{
		ID: "o2", ResourceID: resourceID, Month: 2, Year: 2024, TotalHours: decimal.NewFromInt(80),
	}))

	overrides, err := repo.GetForResourceYear(ctx, resourceID, 2024)

	require.NoError(t, err)
	require.Len(t, overrides, 2)
	assert.Equal(t, 2, overrides[0].Month)
	assert.Equal(t, 9, overrides[1].Month)
}

func TestRepositoryImpl_Delete(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	require.NoError(t, repo.Upsert(ctx, Override{
		ID: "o1", ResourceID: resourceID, Month: 6, Year: 2024, TotalHours: decimal.NewFromInt(120),
	}))

	found, err := repo.Delete(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Delete(ctx, "o1")
	require.NoError(t, err)
	assert.False(t, found)
}
