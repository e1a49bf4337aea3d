package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/legitsearch/platform/internal/db"
	svcErr "github.com/legitsearch/platform/internal/errors"
)

// CatalogRepository manages the shared interest and skill catalogs.
// Names are unique within each catalog.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(database *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: database}
}

func (r *CatalogRepository) ListInterests(ctx context.Context) ([]db.Interest, error) {
	var interests []db.Interest
	err := r.db.WithContext(ctx).Order("name").Find(&interests).Error
	return interests, err
}

func (r *CatalogRepository) ListSkills(ctx context.Context) ([]db.Skill, error) {
	var skills []db.Skill
	err := r.db.WithContext(ctx).Order("name").Find(&skills).Error
	return skills, err
}

func (r *CatalogRepository) GetInterest(ctx context.Context, id uint64) (*db.Interest, error) {
	var interest db.Interest
	err := r.db.WithContext(ctx).First(&interest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &interest, nil
}

func (r *CatalogRepository) GetSkill(ctx context.Context, id uint64) (*db.Skill, error) {
	var skill db.Skill
	err := r.db.WithContext(ctx).First(&skill, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &skill, nil
}

// FindOrCreateInterest returns an existing interest by name or inserts
// a new one with the given category.
func (r *CatalogRepository) FindOrCreateInterest(ctx context.Context, name string, category *string) (*db.Interest, error) {
	var interest db.Interest
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&interest).Error
	if err == nil {
		return &interest, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	interest = db.Interest{Name: name, Category: category}
	if err := r.db.WithContext(ctx).Create(&interest).Error; err != nil {
		return nil, err
	}
	return &interest, nil
}

func (r *CatalogRepository) FindOrCreateSkill(ctx context.Context, name string, category *string) (*db.Skill, error) {
	var skill db.Skill
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&skill).Error
	if err == nil {
		return &skill, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	skill = db.Skill{Name: name, Category: category}
	if err := r.db.WithContext(ctx).Create(&skill).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

// PopularInterests counts catalog usage across users, most used first.
type AttributeCount struct {
	Name     string  `json:"name"`
	Category *string `json:"category"`
	Count    int64   `json:"count"`
}

func (r *CatalogRepository) PopularInterests(ctx context.Context, limit int) ([]AttributeCount, error) {
	var out []AttributeCount
	err := r.db.WithContext(ctx).
		Table("interests i").
		Select("i.name AS name, i.category AS category, COUNT(ui.user_id) AS count").
		Joins("JOIN user_interests ui ON ui.interest_id = i.id").
		Group("i.name, i.category").
		Order("count DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *CatalogRepository) PopularSkills(ctx context.Context, limit int) ([]AttributeCount, error) {
	var out []AttributeCount
	err := r.db.WithContext(ctx).
		Table("skills s").
		Select("s.name AS name, s.category AS category, COUNT(us.user_id) AS count").
		Joins("JOIN user_skills us ON us.skill_id = s.id").
		Group("s.name, s.category").
		Order("count DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
