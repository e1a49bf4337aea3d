package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/legitsearch/platform/internal/db"
	svcErr "github.com/legitsearch/platform/internal/errors"
	"github.com/legitsearch/platform/internal/repository"
)

func seedProfiles(t *testing.T, dbase *gorm.DB) {
	t.Helper()

	music := db.Interest{Name: "Music"}
	hiking := db.Interest{Name: "Hiking"}
	cooking := db.Skill{Name: "Cooking"}
	require.NoError(t, dbase.Create(&music).Error)
	require.NoError(t, dbase.Create(&hiking).Error)
	require.NoError(t, dbase.Create(&cooking).Error)

	age1, age2 := 30, 45
	city1, city2 := "Austin", "Dallas"

	users := []db.User{
		{ID: 1, Email: "ann@test.com", PasswordHash: "x", Interests: []db.Interest{music, hiking}, Skills: []db.Skill{cooking}},
		{ID: 2, Email: "bob@test.com", PasswordHash: "x", Interests: []db.Interest{music}},
		{ID: 3, Email: "cat@test.com", PasswordHash: "x"},
	}
	require.NoError(t, dbase.Create(&users).Error)

	profiles := []db.Profile{
		{UserID: 1, FirstName: "Ann", LastName: "Archer", Age: &age1, City: &city1, IsComplete: true},
		{UserID: 2, FirstName: "Bob", LastName: "Builder", Age: &age2, City: &city2, IsComplete: true},
		{UserID: 3, FirstName: "Cat", LastName: "Cooper", IsComplete: false},
	}
	require.NoError(t, dbase.Create(&profiles).Error)
}

func TestProfileByUserID_ResolvesAttributeNames(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedProfiles(t, dbase)
	repo := repository.NewProfileRepository(dbase)

	view, err := repo.ProfileByUserID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, "Ann", view.FirstName)
	assert.True(t, view.Complete)
	assert.ElementsMatch(t, []string{"Music", "Hiking"}, view.Interests)
	assert.ElementsMatch(t, []string{"Cooking"}, view.Skills)
	require.NotNil(t, view.Age)
	assert.Equal(t, 30, *view.Age)
}

func TestProfileByUserID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(setupTestDB(t))

	_, err := repo.ProfileByUserID(ctx, 99)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestCandidatePool_ExcludesSelfAndIncomplete(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedProfiles(t, dbase)
	repo := repository.NewProfileRepository(dbase)

	pool, err := repo.CandidatePool(ctx, 1, repository.PoolFilter{CompleteOnly: true})
	require.NoError(t, err)

	require.Len(t, pool, 1)
	assert.Equal(t, uint64(2), pool[0].UserID)
}

func TestCandidatePool_AgeAndCityFilters(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedProfiles(t, dbase)
	repo := repository.NewProfileRepository(dbase)

	minAge := 40
	pool, err := repo.CandidatePool(ctx, 99, repository.PoolFilter{MinAge: &minAge})
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, uint64(2), pool[0].UserID)

	pool, err = repo.CandidatePool(ctx, 99, repository.PoolFilter{City: "aust"})
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, uint64(1), pool[0].UserID)
}

func TestSearchByName(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	seedProfiles(t, dbase)
	repo := repository.NewProfileRepository(dbase)

	// last name, case-insensitive
	found, err := repo.SearchByName(ctx, 99, "builder", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, uint64(2), found[0].UserID)

	// full name
	found, err = repo.SearchByName(ctx, 99, "ann archer", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, uint64(1), found[0].UserID)

	// term spanning the first/last boundary only matches through the
	// concatenated expression
	found, err = repo.SearchByName(ctx, 99, "nn arch", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, uint64(1), found[0].UserID)

	// requesting user excluded from results
	found, err = repo.SearchByName(ctx, 1, "archer", 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestProfileCreate_OnePerUser(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewProfileRepository(dbase)

	user := db.User{ID: 7, Email: "dup@test.com", PasswordHash: "x"}
	require.NoError(t, dbase.Create(&user).Error)

	require.NoError(t, repo.Create(ctx, &db.Profile{UserID: 7, FirstName: "A", LastName: "B"}))
	err := repo.Create(ctx, &db.Profile{UserID: 7, FirstName: "C", LastName: "D"})
	assert.ErrorIs(t, err, svcErr.ErrAlreadyExists)
}
