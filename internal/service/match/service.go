// Package match implements the swipe surface: like/dislike actions
// with mutual detection, match listings, and the received-likes
// counter.
//
// Concurrency: likes on the same user pair race between the existence
// check and the mutual-flag update. Two guards apply — a keyed lock
// serializes in-process actions per unordered pair, and the unique
// (user_id, matched_user_id) index with a conflict-safe insert stops
// duplicate rows from any writer the lock cannot see.
package match

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
	"github.com/legitsearch/platform/internal/db"
	"github.com/legitsearch/platform/internal/engine"
	svcErr "github.com/legitsearch/platform/internal/errors"
	"github.com/legitsearch/platform/internal/metrics"
	"github.com/legitsearch/platform/internal/repository"
	"github.com/legitsearch/platform/internal/server"
	"github.com/legitsearch/platform/internal/utils/pairlock"
)

type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	profileRepo *repository.ProfileRepository
	matchmaker  *engine.Matchmaker
	pairLocks   *pairlock.PairLock
}

func NewService(appCtx *app.AppContext) *Service {
	matchRepo := repository.NewMatchRepository(appCtx.DB)
	profileRepo := repository.NewProfileRepository(appCtx.DB)
	return &Service{
		appCtx:      appCtx,
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		matchmaker:  engine.NewMatchmaker(engine.New(), profileRepo, matchRepo),
		pairLocks:   pairlock.New(),
	}
}

type matchResponse struct {
	ID                 uint64    `json:"id"`
	UserID             uint64    `json:"user_id"`
	MatchedUserID      uint64    `json:"matched_user_id"`
	CompatibilityScore float64   `json:"compatibility_score"`
	UserLiked          bool      `json:"user_liked"`
	MatchedUserLiked   bool      `json:"matched_user_liked"`
	IsMutual           bool      `json:"is_mutual"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toMatchResponse(m *db.Match) matchResponse {
	return matchResponse{
		ID:                 m.ID,
		UserID:             m.UserID,
		MatchedUserID:      m.MatchedUserID,
		CompatibilityScore: m.CompatibilityScore,
		UserLiked:          m.UserLiked,
		MatchedUserLiked:   m.MatchedUserLiked,
		IsMutual:           m.IsMutual,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// HandleLike likes another user. Find-or-create of the match row is
// idempotent; a like on an already liked user is reported, not
// re-applied. Detecting that the reverse direction already liked marks
// both rows mutual.
func (s *Service) HandleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserID(ctx)

	otherID, err := strconv.ParseUint(chi.URLParam(r, "matched_user_id"), 10, 64)
	if err != nil {
		server.BadRequest(w, "matched_user_id must be a valid integer")
		return
	}
	if userID == otherID {
		server.Error(w, svcErr.ErrInvalidOperation)
		return
	}

	unlock := s.pairLocks.Lock(userID, otherID)
	defer unlock()

	forward, err := s.matchmaker.GetOrCreateMatch(ctx, userID, otherID)
	if err != nil {
		s.appCtx.Logger.Error("like failed", "user_id", userID, "other_id", otherID, "err", err)
		server.Error(w, err)
		return
	}

	if forward.UserLiked {
		server.JSON(w, http.StatusOK, map[string]any{
			"message":       "user already liked",
			"already_liked": true,
		})
		return
	}

	if err := s.matchRepo.SetUserLiked(ctx, forward.ID, true); err != nil {
		server.Error(w, err)
		return
	}
	metrics.DecisionsTotal.WithLabelValues("like").Inc()
	s.bumpLikeCount(ctx, otherID, 1)

	mutual := false
	if reverse, err := s.matchRepo.Find(ctx, otherID, userID); err == nil && reverse.UserLiked {
		if err := s.matchRepo.MarkMutualPair(ctx, forward.ID, reverse.ID); err != nil {
			server.Error(w, err)
			return
		}
		mutual = true
		metrics.MutualMatchesTotal.Inc()
		s.appCtx.Logger.Info("mutual match", "user_id", userID, "other_id", otherID)
	}

	server.JSON(w, http.StatusOK, map[string]any{
		"message": "user liked successfully",
		"mutual":  mutual,
	})
}

// HandleDislike records a dislike. An existing mutual flag stays set:
// the pair already matched, a later swipe does not unmatch them.
func (s *Service) HandleDislike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserID(ctx)

	otherID, err := strconv.ParseUint(chi.URLParam(r, "matched_user_id"), 10, 64)
	if err != nil {
		server.BadRequest(w, "matched_user_id must be a valid integer")
		return
	}
	if userID == otherID {
		server.Error(w, svcErr.ErrInvalidOperation)
		return
	}

	unlock := s.pairLocks.Lock(userID, otherID)
	defer unlock()

	forward, err := s.matchmaker.GetOrCreateMatch(ctx, userID, otherID)
	if err != nil {
		server.Error(w, err)
		return
	}

	if forward.UserLiked {
		if err := s.matchRepo.SetUserLiked(ctx, forward.ID, false); err != nil {
			server.Error(w, err)
			return
		}
		s.bumpLikeCount(ctx, otherID, -1)
	}
	metrics.DecisionsTotal.WithLabelValues("dislike").Inc()

	server.JSON(w, http.StatusOK, map[string]string{"message": "user disliked"})
}

// HandleList returns all of the user's outgoing match rows.
func (s *Service) HandleList(w http.ResponseWriter, r *http.Request) {
	s.listMatches(w, r, false)
}

// HandleMutual returns only mutual matches.
func (s *Service) HandleMutual(w http.ResponseWriter, r *http.Request) {
	s.listMatches(w, r, true)
}

func (s *Service) listMatches(w http.ResponseWriter, r *http.Request, mutualOnly bool) {
	userID, _ := auth.UserID(r.Context())

	rows, err := s.matchRepo.ListByUser(r.Context(), userID, mutualOnly)
	if err != nil {
		server.Error(w, err)
		return
	}

	out := make([]matchResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toMatchResponse(&rows[i]))
	}
	server.JSON(w, http.StatusOK, out)
}

// HandleLikesCount returns how many users liked the authenticated
// user. Cache-first: Redis with a 1h TTL, DB fallback on miss.
func (s *Service) HandleLikesCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserID(ctx)

	key := s.appCtx.RedisCache.KeyForLikeCount(userID)
	if n, ok, err := s.appCtx.RedisCache.GetCounter(ctx, key); err == nil && ok {
		server.JSON(w, http.StatusOK, map[string]int64{"likes_received": n})
		return
	}

	count, err := s.matchRepo.CountLikesReceived(ctx, userID)
	if err != nil {
		server.Error(w, err)
		return
	}
	_ = s.appCtx.RedisCache.SetCounter(ctx, key, count)

	server.JSON(w, http.StatusOK, map[string]int64{"likes_received": count})
}

// bumpLikeCount adjusts the cached like counter when it is already
// populated. An absent key stays absent so the next read recounts from
// the DB instead of trusting a counter that started mid-stream.
func (s *Service) bumpLikeCount(ctx context.Context, userID uint64, delta int64) {
	key := s.appCtx.RedisCache.KeyForLikeCount(userID)
	_ = s.appCtx.RedisCache.BumpCounter(ctx, key, delta)
}
