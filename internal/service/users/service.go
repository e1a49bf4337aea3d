// Package users implements profile CRUD, the interest/skill catalogs
// and attachments, avatar upload, and name search.
package users

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
	"github.com/legitsearch/platform/internal/db"
	"github.com/legitsearch/platform/internal/repository"
	"github.com/legitsearch/platform/internal/server"
)

type Service struct {
	appCtx      *app.AppContext
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	catalogRepo *repository.CatalogRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		userRepo:    repository.NewUserRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		catalogRepo: repository.NewCatalogRepository(appCtx.DB),
	}
}

type profileRequest struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Age            *int    `json:"age"`
	City           *string `json:"city"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
	SearchGoals    *string `json:"search_goals"`
}

type profileResponse struct {
	ID             uint64    `json:"id"`
	UserID         uint64    `json:"user_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Age            *int      `json:"age"`
	City           *string   `json:"city"`
	Bio            *string   `json:"bio"`
	ProfilePicture *string   `json:"profile_picture"`
	SearchGoals    *string   `json:"search_goals"`
	IsComplete     bool      `json:"is_profile_complete"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
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

func toProfileResponse(p *db.Profile) profileResponse {
	return profileResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Age:            p.Age,
		City:           p.City,
		Bio:            p.Bio,
		ProfilePicture: p.ProfilePicture,
		SearchGoals:    p.SearchGoals,
		IsComplete:     p.IsComplete,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// isComplete reports whether the profile has everything the matching
// pool requires: names, age, city and a non-empty bio.
func isComplete(p *db.Profile) bool {
	return p.FirstName != "" && p.LastName != "" &&
		p.Age != nil &&
		p.City != nil && *p.City != "" &&
		p.Bio != nil && *p.Bio != ""
}

// HandleGetProfile returns the authenticated user's own profile.
func (s *Service) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	profile, err := s.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusOK, toProfileResponse(profile))
}

// HandleCreateProfile creates the user's profile. One per user.
func (s *Service) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req profileRequest
	if err := server.Decode(r, &req); err != nil {
		server.BadRequest(w, "invalid request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		server.BadRequest(w, "first_name and last_name are required")
		return
	}
	if req.Age != nil && *req.Age < 0 {
		server.BadRequest(w, "age must be non-negative")
		return
	}

	profile := db.Profile{
		UserID:         userID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Age:            req.Age,
		City:           req.City,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		SearchGoals:    req.SearchGoals,
	}
	profile.IsComplete = isComplete(&profile)

	if err := s.profileRepo.Create(r.Context(), &profile); err != nil {
		server.Error(w, err)
		return
	}

	s.appCtx.Logger.Info("profile created", "user_id", userID, "complete", profile.IsComplete)
	server.JSON(w, http.StatusCreated, toProfileResponse(&profile))
}

// HandleUpdateProfile replaces the user's profile fields and
// recomputes the completeness flag.
func (s *Service) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req profileRequest
	if err := server.Decode(r, &req); err != nil {
		server.BadRequest(w, "invalid request body")
		return
	}
	if req.Age != nil && *req.Age < 0 {
		server.BadRequest(w, "age must be non-negative")
		return
	}

	profile, err := s.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		server.Error(w, err)
		return
	}

	if req.FirstName != "" {
		profile.FirstName = req.FirstName
	}
	if req.LastName != "" {
		profile.LastName = req.LastName
	}
	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.City != nil {
		profile.City = req.City
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.ProfilePicture != nil {
		profile.ProfilePicture = req.ProfilePicture
	}
	if req.SearchGoals != nil {
		profile.SearchGoals = req.SearchGoals
	}
	profile.IsComplete = isComplete(profile)

	if err := s.profileRepo.Update(r.Context(), profile); err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusOK, toProfileResponse(profile))
}

// HandleGetUserProfile returns another user's profile by user id.
func (s *Service) HandleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathID(r, "user_id")
	if err != nil {
		server.BadRequest(w, "user_id must be a valid integer")
		return
	}

	profile, err := s.profileRepo.GetByUserID(r.Context(), targetID)
	if err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusOK, toProfileResponse(profile))
}

// HandleSearch finds users by first, last, or full name. Queries under
// two characters return an empty list rather than matching everyone.
func (s *Service) HandleSearch(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if len(query) < 2 {
		server.JSON(w, http.StatusOK, []searchResult{})
		return
	}
	limit := queryLimit(r, 10)

	views, err := s.profileRepo.SearchByName(r.Context(), userID, query, limit)
	if err != nil {
		server.Error(w, err)
		return
	}

	results := make([]searchResult, 0, len(views))
	for _, v := range views {
		results = append(results, searchResult{
			UserID:         v.UserID,
			FirstName:      v.FirstName,
			LastName:       v.LastName,
			Age:            v.Age,
			City:           v.City,
			Bio:            v.Bio,
			ProfilePicture: v.ProfilePicture,
		})
	}
	server.JSON(w, http.StatusOK, results)
}

// HandleGetUser returns an account with its attached interests and
// skills.
func (s *Service) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathID(r, "user_id")
	if err != nil {
		server.BadRequest(w, "user_id must be a valid integer")
		return
	}

	user, err := s.userRepo.GetWithAttributes(r.Context(), targetID)
	if err != nil {
		server.Error(w, err)
		return
	}

	interests := make([]catalogItem, 0, len(user.Interests))
	for _, i := range user.Interests {
		interests = append(interests, catalogItem{ID: i.ID, Name: i.Name, Category: i.Category, CreatedAt: i.CreatedAt})
	}
	skills := make([]catalogItem, 0, len(user.Skills))
	for _, sk := range user.Skills {
		skills = append(skills, catalogItem{ID: sk.ID, Name: sk.Name, Category: sk.Category, CreatedAt: sk.CreatedAt})
	}

	server.JSON(w, http.StatusOK, map[string]any{
		"id":        user.ID,
		"email":     user.Email,
		"interests": interests,
		"skills":    skills,
	})
}

func pathID(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, name), 10, 64)
}

func queryLimit(r *http.Request, def int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return def
}
