// Package aisearch implements the natural-language people search:
// heuristic query parsing into structured criteria, pool filtering,
// and relevance scoring.
package aisearch

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
	svcErr "github.com/legitsearch/platform/internal/errors"
	"github.com/legitsearch/platform/internal/repository"
	"github.com/legitsearch/platform/internal/search"
	"github.com/legitsearch/platform/internal/server"
)

const defaultLimit = 10

type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResult struct {
	UserID         uint64  `json:"user_id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Age            *int    `json:"age"`
	City           *string `json:"city"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

type scored struct {
	result    searchResult
	relevance float64
}

// HandleSearch parses the free-text query into criteria, fetches a
// filtered candidate pool (twice the limit, since relevance drops
// some), scores each profile, and returns the best matches. Requires
// the caller to have a profile.
func (s *Service) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserID(ctx)

	var req searchRequest
	if err := server.Decode(r, &req); err != nil {
		server.BadRequest(w, "invalid request body")
		return
	}
	query := strings.ToLower(strings.TrimSpace(req.Query))
	if query == "" {
		server.BadRequest(w, "query is required")
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	if _, err := s.profileRepo.GetByUserID(ctx, userID); err != nil {
		if svcErr.Is(err, svcErr.ErrNotFound) {
			server.Error(w, svcErr.ErrProfilesIncomplete)
			return
		}
		server.Error(w, err)
		return
	}

	criteria := search.ParseQuery(query)

	filter := repository.PoolFilter{
		City:         criteria.City,
		MinAge:       criteria.MinAge,
		MaxAge:       criteria.MaxAge,
		CompleteOnly: true,
		Limit:        limit * 2,
	}
	pool, err := s.profileRepo.CandidatePool(ctx, userID, filter)
	if err != nil {
		server.Error(w, err)
		return
	}

	matches := make([]scored, 0, len(pool))
	for _, p := range pool {
		relevance := search.Relevance(query, p, criteria)
		if relevance <= search.MinRelevance {
			continue
		}
		matches = append(matches, scored{
			result: searchResult{
				UserID:         p.UserID,
				FirstName:      p.FirstName,
				LastName:       p.LastName,
				Age:            p.Age,
				City:           p.City,
				Bio:            p.Bio,
				ProfilePicture: p.ProfilePicture,
			},
			relevance: relevance,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].relevance > matches[j].relevance
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]searchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.result)
	}

	s.appCtx.Logger.Debug("ai search",
		"user_id", userID,
		"city", criteria.City,
		"topics", criteria.Topics,
		"pool", len(pool),
		"returned", len(out),
	)
	server.JSON(w, http.StatusOK, out)
}

// Registrar ties the AI search service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (reg *Registrar) Register(r chi.Router) {
	svc := NewService(reg.appCtx)

	r.Route("/api/ai", func(r chi.Router) {
		r.Use(auth.Middleware(reg.appCtx.Cfg))
		r.Post("/ai-search", svc.HandleSearch)
	})
}
