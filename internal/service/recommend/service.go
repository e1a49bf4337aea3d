// Package recommend serves compatibility-ranked candidate lists and
// the filtered search variant.
package recommend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
	"github.com/legitsearch/platform/internal/engine"
	svcErr "github.com/legitsearch/platform/internal/errors"
	"github.com/legitsearch/platform/internal/metrics"
	"github.com/legitsearch/platform/internal/repository"
	"github.com/legitsearch/platform/internal/server"
)

type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	engine      engine.Engine
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		engine:      engine.New(),
	}
}

// HandleRecommendations ranks the complete-profile candidate pool for
// the authenticated user. A user without a profile gets an empty list,
// not an error.
func (s *Service) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserID(ctx)
	limit := queryInt(r, "limit", 10)

	target, err := s.profileRepo.ProfileByUserID(ctx, userID)
	if svcErr.Is(err, svcErr.ErrNotFound) {
		server.JSON(w, http.StatusOK, []engine.Recommendation{})
		return
	} else if err != nil {
		server.Error(w, err)
		return
	}

	pool, err := s.profileRepo.CandidatePool(ctx, userID, repository.PoolFilter{CompleteOnly: true})
	if err != nil {
		server.Error(w, err)
		return
	}

	timer := prometheus.NewTimer(metrics.RankingDuration)
	recs := s.engine.RankCandidates(target, pool, limit)
	timer.ObserveDuration()

	s.appCtx.Logger.Debug("recommendations ranked", "user_id", userID, "pool", len(pool), "returned", len(recs))
	server.JSON(w, http.StatusOK, recs)
}

// HandleSearch ranks candidates matching explicit filters: city
// substring, age bounds, and comma-separated interest/skill any-match
// lists.
func (s *Service) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserID(ctx)
	q := r.URL.Query()
	limit := queryInt(r, "limit", 10)

	target, err := s.profileRepo.ProfileByUserID(ctx, userID)
	if svcErr.Is(err, svcErr.ErrNotFound) {
		server.JSON(w, http.StatusOK, []engine.Recommendation{})
		return
	} else if err != nil {
		server.Error(w, err)
		return
	}

	filter := repository.PoolFilter{City: q.Get("city")}
	if minAge, ok := queryIntOpt(r, "min_age"); ok {
		filter.MinAge = &minAge
	}
	if maxAge, ok := queryIntOpt(r, "max_age"); ok {
		filter.MaxAge = &maxAge
	}

	pool, err := s.profileRepo.CandidatePool(ctx, userID, filter)
	if err != nil {
		server.Error(w, err)
		return
	}

	pool = filterByAttributes(pool, splitList(q.Get("interests")), splitList(q.Get("skills")))

	timer := prometheus.NewTimer(metrics.RankingDuration)
	recs := s.engine.RankCandidates(target, pool, limit)
	timer.ObserveDuration()

	server.JSON(w, http.StatusOK, recs)
}

// filterByAttributes keeps candidates holding ANY of the wanted
// interests and ANY of the wanted skills. Empty want-lists disable
// that filter. Matching is case-insensitive.
func filterByAttributes(pool []*engine.Profile, wantInterests, wantSkills []string) []*engine.Profile {
	if len(wantInterests) == 0 && len(wantSkills) == 0 {
		return pool
	}

	out := make([]*engine.Profile, 0, len(pool))
	for _, p := range pool {
		if len(wantInterests) > 0 && !hasAny(p.Interests, wantInterests) {
			continue
		}
		if len(wantSkills) > 0 && !hasAny(p.Skills, wantSkills) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasAny(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[strings.ToLower(h)] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

// splitList parses a comma-separated query value into trimmed,
// lower-cased entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(strings.ToLower(p)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func queryInt(r *http.Request, name string, def int) int {
	if n, ok := queryIntOpt(r, name); ok {
		return n
	}
	return def
}

func queryIntOpt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Registrar ties the recommendation service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (reg *Registrar) Register(r chi.Router) {
	svc := NewService(reg.appCtx)

	r.Route("/api/recommendations", func(r chi.Router) {
		r.Use(auth.Middleware(reg.appCtx.Cfg))
		r.Get("/", svc.HandleRecommendations)
		r.Get("/search", svc.HandleSearch)
	})
}
