package project

import (
	"context"
	"testing"

	"github.com/capaplan/capaplan/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAbsenceCode(t *testing.T) {
	assert.True(t, IsAbsenceCode("ABSENCES-PLATFORM"))
	assert.True(t, IsAbsenceCode("ABSENCES-"))
	assert.False(t, IsAbsenceCode("PROJ-ABSENCES"))
	assert.False(t, IsAbsenceCode(""))
}

func TestAbsenceCode(t *testing.T) {
	assert.Equal(t, "ABSENCES-PLATFORM", AbsenceCode("platform"))
}

func TestService_CreateAndGetAll(t *testing.T) {
	// given
	ctx := context.Background()
	db := test_utils.SetupTestDB(t)
	service := NewService(NewRepository(db))

	// when
	created, err := service.Create(ctx, Project{Code: "PROJ-A", Name: "Project A", Team: "PLATFORM"})
	require.NoError(t, err)
	_, err = service.Create(ctx, Project{Code: "PROJ-B", Name: "Project B", Team: "MOBILE"})
	require.NoError(t, err)

	// then
	assert.NotEmpty(t, created.ID)
	all, err := service.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	platform, err := service.GetAll(ctx, "PLATFORM")
	require.NoError(t, err)
	require.Len(t, platform, 1)
	assert.Equal(t, "PROJ-A", platform[0].Code)
}

func TestService_Create_EmptyCode(t *testing.T) {
	ctx := context.Background()
	db := test_utils.SetupTestDB(t)
	service := NewService(NewRepository(db))

	_, err := service.Create(ctx, Project{Name: "No Code"})

	assert.Error(t, err)
}
