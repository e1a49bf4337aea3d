package engine

import (
	"context"

	svcErr "github.com/legitsearch/platform/internal/errors"
)

// Match is the engine's view of a persisted directed match edge.
type Match struct {
	ID                 uint64
	UserID             uint64
	MatchedUserID      uint64
	CompatibilityScore float64
	UserLiked          bool
	MatchedUserLiked   bool
	IsMutual           bool
}

// ProfileSource reads profile views for scoring.
type ProfileSource interface {
	// ProfileByUserID returns the resolved profile view, or
	// errors.ErrNotFound when the user has no profile.
	ProfileByUserID(ctx context.Context, userID uint64) (*Profile, error)
}

// MatchStore persists match edges.
type MatchStore interface {
	// Find returns the match for the ordered pair, or errors.ErrNotFound.
	Find(ctx context.Context, userID, matchedUserID uint64) (*Match, error)
	// Create inserts the match conflict-safely. If a concurrent insert
	// won the race for the pair, the existing row is loaded into m
	// instead of creating a duplicate.
	Create(ctx context.Context, m *Match) error
}

// Matchmaker performs find-or-create of match records, computing the
// compatibility score on first creation.
type Matchmaker struct {
	engine   Engine
	profiles ProfileSource
	matches  MatchStore
}

func NewMatchmaker(e Engine, profiles ProfileSource, matches MatchStore) *Matchmaker {
	return &Matchmaker{engine: e, profiles: profiles, matches: matches}
}

// GetOrCreateMatch returns the existing match for (userID, otherID)
// unchanged, or creates one with a freshly computed compatibility
// score and all flags defaulted. Idempotent: repeated calls return the
// same row.
//
// Returns errors.ErrInvalidOperation for a self-referential pair and
// errors.ErrProfilesIncomplete when either user has no profile.
func (mm *Matchmaker) GetOrCreateMatch(ctx context.Context, userID, otherID uint64) (*Match, error) {
	if userID == otherID {
		return nil, svcErr.ErrInvalidOperation
	}

	if existing, err := mm.matches.Find(ctx, userID, otherID); err == nil {
		return existing, nil
	} else if !svcErr.Is(err, svcErr.ErrNotFound) {
		return nil, err
	}

	a, err := mm.profiles.ProfileByUserID(ctx, userID)
	if err != nil {
		if svcErr.Is(err, svcErr.ErrNotFound) {
			return nil, svcErr.ErrProfilesIncomplete
		}
		return nil, err
	}
	b, err := mm.profiles.ProfileByUserID(ctx, otherID)
	if err != nil {
		if svcErr.Is(err, svcErr.ErrNotFound) {
			return nil, svcErr.ErrProfilesIncomplete
		}
		return nil, err
	}

	m := &Match{
		UserID:             userID,
		MatchedUserID:      otherID,
		CompatibilityScore: mm.engine.CalculateCompatibility(a, b),
	}
	if err := mm.matches.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
