package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/legitsearch/platform/internal/db"
	svcErr "github.com/legitsearch/platform/internal/errors"
)

// UserRepository provides data access for user accounts and their
// interest/skill associations.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new account. Returns errors.ErrAlreadyExists when
// the email is taken.
func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (*db.User, error) {
	var existing db.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, svcErr.ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := db.User{Email: email, PasswordHash: passwordHash, Active: true}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetWithAttributes preloads the user's interests and skills.
func (r *UserRepository) GetWithAttributes(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).
		Preload("Interests").
		Preload("Skills").
		First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the platform-wide account count.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Count(&count).Error
	return count, err
}

// AddInterest attaches an interest to the user. Adding an already
// attached interest is a no-op (set semantics).
func (r *UserRepository) AddInterest(ctx context.Context, userID uint64, interest *db.Interest) error {
	user := db.User{ID: userID}
	return r.db.WithContext(ctx).Model(&user).Association("Interests").Append(interest)
}

func (r *UserRepository) RemoveInterest(ctx context.Context, userID uint64, interest *db.Interest) error {
	user := db.User{ID: userID}
	return r.db.WithContext(ctx).Model(&user).Association("Interests").Delete(interest)
}

func (r *UserRepository) AddSkill(ctx context.Context, userID uint64, skill *db.Skill) error {
	user := db.User{ID: userID}
	return r.db.WithContext(ctx).Model(&user).Association("Skills").Append(skill)
}

func (r *UserRepository) RemoveSkill(ctx context.Context, userID uint64, skill *db.Skill) error {
	user := db.User{ID: userID}
	return r.db.WithContext(ctx).Model(&user).Association("Skills").Delete(skill)
}
