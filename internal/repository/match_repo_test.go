package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/legitsearch/platform/internal/db"
	"github.com/legitsearch/platform/internal/engine"
	svcErr "github.com/legitsearch/platform/internal/errors"
	"github.com/legitsearch/platform/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestMatchCreate_ConflictSafe(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	first := &engine.Match{UserID: 1, MatchedUserID: 2, CompatibilityScore: 0.75}
	require.NoError(t, repo.Create(ctx, first))
	require.NotZero(t, first.ID)

	// second insert for the same ordered pair must not duplicate
	second := &engine.Match{UserID: 1, MatchedUserID: 2, CompatibilityScore: 0.33}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 0.75, second.CompatibilityScore) // existing row wins

	var count int64
	require.NoError(t, dbase.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMatchCreate_ReverseDirectionIsSeparate(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	forward := &engine.Match{UserID: 1, MatchedUserID: 2, CompatibilityScore: 0.5}
	reverse := &engine.Match{UserID: 2, MatchedUserID: 1, CompatibilityScore: 0.5}
	require.NoError(t, repo.Create(ctx, forward))
	require.NoError(t, repo.Create(ctx, reverse))

	assert.NotEqual(t, forward.ID, reverse.ID)
}

func TestMatchFind_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMatchRepository(setupTestDB(t))

	_, err := repo.Find(ctx, 1, 2)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestMatchFlags_MutualPair(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	forward := &engine.Match{UserID: 1, MatchedUserID: 2}
	reverse := &engine.Match{UserID: 2, MatchedUserID: 1}
	require.NoError(t, repo.Create(ctx, forward))
	require.NoError(t, repo.Create(ctx, reverse))

	require.NoError(t, repo.SetUserLiked(ctx, forward.ID, true))
	require.NoError(t, repo.SetUserLiked(ctx, reverse.ID, true))
	require.NoError(t, repo.MarkMutualPair(ctx, forward.ID, reverse.ID))

	f, err := repo.Find(ctx, 1, 2)
	require.NoError(t, err)
	r, err := repo.Find(ctx, 2, 1)
	require.NoError(t, err)

	assert.True(t, f.IsMutual)
	assert.True(t, f.MatchedUserLiked)
	assert.True(t, r.IsMutual)
	assert.True(t, r.MatchedUserLiked)
}

func TestMatchListByUser(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	m1 := &engine.Match{UserID: 1, MatchedUserID: 2}
	m2 := &engine.Match{UserID: 1, MatchedUserID: 3, IsMutual: true}
	m3 := &engine.Match{UserID: 2, MatchedUserID: 1}
	require.NoError(t, repo.Create(ctx, m1))
	require.NoError(t, repo.Create(ctx, m2))
	require.NoError(t, repo.Create(ctx, m3))

	all, err := repo.ListByUser(ctx, 1, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mutual, err := repo.ListByUser(ctx, 1, true)
	require.NoError(t, err)
	require.Len(t, mutual, 1)
	assert.Equal(t, uint64(3), mutual[0].MatchedUserID)
}
