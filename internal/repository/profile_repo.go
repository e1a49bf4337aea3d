package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/legitsearch/platform/internal/db"
	"github.com/legitsearch/platform/internal/engine"
	svcErr "github.com/legitsearch/platform/internal/errors"
)

// ProfileRepository provides profile CRUD and the resolved profile
// views consumed by the scoring engine. It implements
// engine.ProfileSource.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint64) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create inserts a profile for the user. One profile per user.
func (r *ProfileRepository) Create(ctx context.Context, profile *db.Profile) error {
	var existing db.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", profile.UserID).First(&existing).Error
	if err == nil {
		return svcErr.ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *ProfileRepository) Update(ctx context.Context, profile *db.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// ProfileByUserID builds the engine's typed view: profile fields plus
// resolved interest and skill names. Satisfies engine.ProfileSource.
func (r *ProfileRepository) ProfileByUserID(ctx context.Context, userID uint64) (*engine.Profile, error) {
	profile, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var user db.User
	if err := r.db.WithContext(ctx).
		Preload("Interests").
		Preload("Skills").
		First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.ErrNotFound
		}
		return nil, err
	}

	return buildView(profile, &user), nil
}

// PoolFilter narrows a candidate pool fetch.
type PoolFilter struct {
	City         string // substring, case-insensitive; "" disables
	MinAge       *int
	MaxAge       *int
	CompleteOnly bool
	Limit        int // <= 0 means no limit
}

// CandidatePool returns profile views for everyone except the given
// user, optionally filtered by completeness, city and age bounds.
func (r *ProfileRepository) CandidatePool(ctx context.Context, excludeUserID uint64, f PoolFilter) ([]*engine.Profile, error) {
	query := r.db.WithContext(ctx).Model(&db.Profile{}).Where("user_id <> ?", excludeUserID)

	if f.CompleteOnly {
		query = query.Where("is_profile_complete = ?", true)
	}
	if f.City != "" {
		query = query.Where("LOWER(city) LIKE ?", "%"+lowered(f.City)+"%")
	}
	if f.MinAge != nil {
		query = query.Where("age >= ?", *f.MinAge)
	}
	if f.MaxAge != nil {
		query = query.Where("age <= ?", *f.MaxAge)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var profiles []db.Profile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}

	return r.assembleViews(ctx, profiles)
}

// SearchByName matches first name, last name or the concatenated full
// name, case-insensitively.
func (r *ProfileRepository) SearchByName(ctx context.Context, excludeUserID uint64, name string, limit int) ([]*engine.Profile, error) {
	term := "%" + lowered(name) + "%"
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id <> ?", excludeUserID).
		// CONCAT rather than ||: MySQL parses || as logical OR under
		// the default sql_mode
		Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(CONCAT(first_name, ' ', last_name)) LIKE ?",
			term, term, term,
		).
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return r.assembleViews(ctx, profiles)
}

// assembleViews resolves interest/skill names for a batch of profiles
// with a single preloaded user fetch.
func (r *ProfileRepository) assembleViews(ctx context.Context, profiles []db.Profile) ([]*engine.Profile, error) {
	if len(profiles) == 0 {
		return nil, nil
	}

	userIDs := make([]uint64, 0, len(profiles))
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
	}

	var users []db.User
	if err := r.db.WithContext(ctx).
		Preload("Interests").
		Preload("Skills").
		Where("id IN ?", userIDs).
		Find(&users).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint64]*db.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	views := make([]*engine.Profile, 0, len(profiles))
	for i := range profiles {
		user, ok := byID[profiles[i].UserID]
		if !ok {
			return nil, fmt.Errorf("profile %d has no user row", profiles[i].ID)
		}
		views = append(views, buildView(&profiles[i], user))
	}
	return views, nil
}

func buildView(profile *db.Profile, user *db.User) *engine.Profile {
	view := &engine.Profile{
		UserID:         profile.UserID,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		Age:            profile.Age,
		City:           profile.City,
		Bio:            profile.Bio,
		ProfilePicture: profile.ProfilePicture,
		Complete:       profile.IsComplete,
	}
	for _, i := range user.Interests {
		view.Interests = append(view.Interests, i.Name)
	}
	for _, s := range user.Skills {
		view.Skills = append(view.Skills, s.Name)
	}
	return view
}

// CityCount is one row of the geographic distribution.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// CityDistribution groups profiles by city, most populated first.
func (r *ProfileRepository) CityDistribution(ctx context.Context, limit int) ([]CityCount, error) {
	var rows []CityCount
	err := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Select("city, COUNT(id) AS count").
		Where("city IS NOT NULL").
		Group("city").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func lowered(s string) string { return strings.ToLower(s) }
