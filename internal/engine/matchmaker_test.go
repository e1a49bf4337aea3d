package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legitsearch/platform/internal/engine"
	svcErr "github.com/legitsearch/platform/internal/errors"
)

// in-memory fakes for the store interfaces

type fakeProfiles map[uint64]*engine.Profile

func (f fakeProfiles) ProfileByUserID(_ context.Context, userID uint64) (*engine.Profile, error) {
	p, ok := f[userID]
	if !ok {
		return nil, svcErr.ErrNotFound
	}
	return p, nil
}

type fakeMatches struct {
	rows   map[[2]uint64]*engine.Match
	nextID uint64
}

func newFakeMatches() *fakeMatches {
	return &fakeMatches{rows: make(map[[2]uint64]*engine.Match)}
}

func (f *fakeMatches) Find(_ context.Context, userID, matchedUserID uint64) (*engine.Match, error) {
	m, ok := f.rows[[2]uint64{userID, matchedUserID}]
	if !ok {
		return nil, svcErr.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) Create(_ context.Context, m *engine.Match) error {
	key := [2]uint64{m.UserID, m.MatchedUserID}
	if existing, ok := f.rows[key]; ok {
		*m = *existing
		return nil
	}
	f.nextID++
	m.ID = f.nextID
	cp := *m
	f.rows[key] = &cp
	return nil
}

func setupMatchmaker() (*engine.Matchmaker, fakeProfiles, *fakeMatches) {
	profiles := fakeProfiles{
		1: completeProfile(1),
		2: completeProfile(2),
	}
	matches := newFakeMatches()
	return engine.NewMatchmaker(engine.New(), profiles, matches), profiles, matches
}

func TestGetOrCreateMatch_CreatesWithScore(t *testing.T) {
	ctx := context.Background()
	mm, _, _ := setupMatchmaker()

	m, err := mm.GetOrCreateMatch(ctx, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), m.UserID)
	assert.Equal(t, uint64(2), m.MatchedUserID)
	assert.InDelta(t, 1.0, m.CompatibilityScore, 1e-9) // identical profiles
	assert.False(t, m.UserLiked)
	assert.False(t, m.IsMutual)
}

func TestGetOrCreateMatch_Idempotent(t *testing.T) {
	ctx := context.Background()
	mm, _, _ := setupMatchmaker()

	first, err := mm.GetOrCreateMatch(ctx, 1, 2)
	require.NoError(t, err)
	second, err := mm.GetOrCreateMatch(ctx, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestGetOrCreateMatch_DirectionsAreSeparateRows(t *testing.T) {
	ctx := context.Background()
	mm, _, _ := setupMatchmaker()

	forward, err := mm.GetOrCreateMatch(ctx, 1, 2)
	require.NoError(t, err)
	reverse, err := mm.GetOrCreateMatch(ctx, 2, 1)
	require.NoError(t, err)

	assert.NotEqual(t, forward.ID, reverse.ID)
	assert.InDelta(t, forward.CompatibilityScore, reverse.CompatibilityScore, 1e-12)
}

func TestGetOrCreateMatch_SelfPair(t *testing.T) {
	ctx := context.Background()
	mm, _, _ := setupMatchmaker()

	_, err := mm.GetOrCreateMatch(ctx, 1, 1)
	assert.ErrorIs(t, err, svcErr.ErrInvalidOperation)
}

func TestGetOrCreateMatch_MissingProfile(t *testing.T) {
	ctx := context.Background()
	mm, _, _ := setupMatchmaker()

	_, err := mm.GetOrCreateMatch(ctx, 1, 99)
	assert.ErrorIs(t, err, svcErr.ErrProfilesIncomplete)
}
