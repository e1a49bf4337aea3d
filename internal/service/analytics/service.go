// Package analytics aggregates per-user and platform-wide statistics
// over matches, catalogs and profiles.
package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
	"github.com/legitsearch/platform/internal/db"
	svcErr "github.com/legitsearch/platform/internal/errors"
	"github.com/legitsearch/platform/internal/repository"
	"github.com/legitsearch/platform/internal/server"
)

const (
	topAttributes    = 5
	popularLimit     = 10
	cityBucketsLimit = 20
)

type Service struct {
	appCtx      *app.AppContext
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	matchRepo   *repository.MatchRepository
	catalogRepo *repository.CatalogRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		userRepo:    repository.NewUserRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		catalogRepo: repository.NewCatalogRepository(appCtx.DB),
	}
}

type userAnalytics struct {
	TotalMatches          int64    `json:"total_matches"`
	MutualMatches         int64    `json:"mutual_matches"`
	AverageCompatibility  float64  `json:"average_compatibility"`
	TopInterests          []string `json:"top_interests"`
	TopSkills             []string `json:"top_skills"`
	ProfileCompletionPerc float64  `json:"profile_completion_percentage"`
}

type platformAnalytics struct {
	TotalUsers       int64                       `json:"total_users"`
	TotalMatches     int64                       `json:"total_matches"`
	PopularInterests []repository.AttributeCount `json:"popular_interests"`
	PopularSkills    []repository.AttributeCount `json:"popular_skills"`
	GeographicDist   []repository.CityCount      `json:"geographic_distribution"`
}

// HandleUser reports the caller's match counts, average compatibility,
// top attributes and profile completion. Users without a profile get
// the zero report instead of an error.
func (s *Service) HandleUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserID(ctx)

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if svcErr.Is(err, svcErr.ErrNotFound) {
			server.JSON(w, http.StatusOK, userAnalytics{
				TopInterests: []string{},
				TopSkills:    []string{},
			})
			return
		}
		server.Error(w, err)
		return
	}

	total, mutual, avgScore, err := s.matchRepo.CountByUser(ctx, userID)
	if err != nil {
		server.Error(w, err)
		return
	}

	user, err := s.userRepo.GetWithAttributes(ctx, userID)
	if err != nil {
		server.Error(w, err)
		return
	}

	server.JSON(w, http.StatusOK, userAnalytics{
		TotalMatches:          total,
		MutualMatches:         mutual,
		AverageCompatibility:  avgScore,
		TopInterests:          attributeNames(user.Interests, topAttributes),
		TopSkills:             skillNames(user.Skills, topAttributes),
		ProfileCompletionPerc: completionPercentage(profile),
	})
}

// HandlePlatform reports platform-wide totals, the most used catalog
// attributes and the city distribution.
func (s *Service) HandlePlatform(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		server.Error(w, err)
		return
	}
	totalMatches, err := s.matchRepo.CountAll(ctx)
	if err != nil {
		server.Error(w, err)
		return
	}
	interests, err := s.catalogRepo.PopularInterests(ctx, popularLimit)
	if err != nil {
		server.Error(w, err)
		return
	}
	skills, err := s.catalogRepo.PopularSkills(ctx, popularLimit)
	if err != nil {
		server.Error(w, err)
		return
	}
	cities, err := s.profileRepo.CityDistribution(ctx, cityBucketsLimit)
	if err != nil {
		server.Error(w, err)
		return
	}

	if interests == nil {
		interests = []repository.AttributeCount{}
	}
	if skills == nil {
		skills = []repository.AttributeCount{}
	}
	if cities == nil {
		cities = []repository.CityCount{}
	}

	server.JSON(w, http.StatusOK, platformAnalytics{
		TotalUsers:       totalUsers,
		TotalMatches:     totalMatches,
		PopularInterests: interests,
		PopularSkills:    skills,
		GeographicDist:   cities,
	})
}

// completionPercentage scores a profile over its six display fields.
func completionPercentage(p *db.Profile) float64 {
	fields := []bool{
		p.FirstName != "",
		p.LastName != "",
		p.Age != nil,
		p.City != nil && *p.City != "",
		p.Bio != nil && *p.Bio != "",
		p.ProfilePicture != nil && *p.ProfilePicture != "",
	}
	completed := 0
	for _, ok := range fields {
		if ok {
			completed++
		}
	}
	return float64(completed) / float64(len(fields)) * 100
}

func attributeNames(interests []db.Interest, limit int) []string {
	names := make([]string, 0, limit)
	for _, it := range interests {
		if len(names) == limit {
			break
		}
		names = append(names, it.Name)
	}
	return names
}

func skillNames(skills []db.Skill, limit int) []string {
	names := make([]string, 0, limit)
	for _, sk := range skills {
		if len(names) == limit {
			break
		}
		names = append(names, sk.Name)
	}
	return names
}

// Registrar ties the analytics service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (reg *Registrar) Register(r chi.Router) {
	svc := NewService(reg.appCtx)

	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(auth.Middleware(reg.appCtx.Cfg))
		r.Get("/user", svc.HandleUser)
		r.Get("/platform", svc.HandlePlatform)
	})
}
