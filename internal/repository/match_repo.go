package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/legitsearch/platform/internal/db"
	"github.com/legitsearch/platform/internal/engine"
	svcErr "github.com/legitsearch/platform/internal/errors"
)

// MatchRepository persists directed match edges. It implements
// engine.MatchStore.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// Find returns the match row for the ordered pair.
func (r *MatchRepository) Find(ctx context.Context, userID, matchedUserID uint64) (*engine.Match, error) {
	row, err := r.findRow(ctx, userID, matchedUserID)
	if err != nil {
		return nil, err
	}
	m := toEngineMatch(row)
	return &m, nil
}

// Create inserts the match conflict-safely. The unique index on
// (user_id, matched_user_id) plus ON CONFLICT DO NOTHING guarantees a
// single row per ordered pair even under concurrent inserts; when the
// insert loses the race, the winning row is loaded into m.
func (r *MatchRepository) Create(ctx context.Context, m *engine.Match) error {
	row := db.Match{
		UserID:             m.UserID,
		MatchedUserID:      m.MatchedUserID,
		CompatibilityScore: m.CompatibilityScore,
		UserLiked:          m.UserLiked,
		MatchedUserLiked:   m.MatchedUserLiked,
		IsMutual:           m.IsMutual,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "matched_user_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		// lost the race: hand back the existing row
		existing, err := r.findRow(ctx, m.UserID, m.MatchedUserID)
		if err != nil {
			return err
		}
		*m = toEngineMatch(existing)
		return nil
	}

	m.ID = row.ID
	return nil
}

// SetUserLiked updates the like flag on this direction's row.
func (r *MatchRepository) SetUserLiked(ctx context.Context, matchID uint64, liked bool) error {
	return r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ?", matchID).
		Update("user_liked", liked).Error
}

// MarkMutualPair flips mutuality bookkeeping on both directional rows
// in one transaction. Each row's user_liked is already true at this
// point, so setting is_mutual and matched_user_liked on both keeps
// every row correct from its owner's perspective.
func (r *MatchRepository) MarkMutualPair(ctx context.Context, forwardID, reverseID uint64) error {
	updates := map[string]any{"is_mutual": true, "matched_user_liked": true}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Match{}).
			Where("id = ?", forwardID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&db.Match{}).
			Where("id = ?", reverseID).
			Updates(updates).Error
	})
}

// ListByUser returns the user's outgoing match rows, optionally only
// mutual ones, newest first.
func (r *MatchRepository) ListByUser(ctx context.Context, userID uint64, mutualOnly bool) ([]db.Match, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if mutualOnly {
		query = query.Where("is_mutual = ?", true)
	}

	var matches []db.Match
	err := query.Order("updated_at DESC").Find(&matches).Error
	return matches, err
}

// CountByUser returns total and mutual match counts plus the average
// compatibility score of the user's rows.
func (r *MatchRepository) CountByUser(ctx context.Context, userID uint64) (total, mutual int64, avgScore float64, err error) {
	if err = r.db.WithContext(ctx).Model(&db.Match{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return
	}
	if err = r.db.WithContext(ctx).Model(&db.Match{}).
		Where("user_id = ? AND is_mutual = ?", userID, true).
		Count(&mutual).Error; err != nil {
		return
	}
	var avg *float64
	if err = r.db.WithContext(ctx).Model(&db.Match{}).
		Where("user_id = ?", userID).
		Select("AVG(compatibility_score)").
		Scan(&avg).Error; err != nil {
		return
	}
	if avg != nil {
		avgScore = *avg
	}
	return
}

// CountLikesReceived counts users who liked the given user. Backs the
// cached like counter.
func (r *MatchRepository) CountLikesReceived(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Match{}).
		Where("matched_user_id = ? AND user_liked = ?", userID, true).
		Count(&count).Error
	return count, err
}

// CountAll returns the platform-wide match row count.
func (r *MatchRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Match{}).Count(&count).Error
	return count, err
}

func (r *MatchRepository) findRow(ctx context.Context, userID, matchedUserID uint64) (*db.Match, error) {
	var row db.Match
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND matched_user_id = ?", userID, matchedUserID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return &row, nil
}

func toEngineMatch(row *db.Match) engine.Match {
	return engine.Match{
		ID:                 row.ID,
		UserID:             row.UserID,
		MatchedUserID:      row.MatchedUserID,
		CompatibilityScore: row.CompatibilityScore,
		UserLiked:          row.UserLiked,
		MatchedUserLiked:   row.MatchedUserLiked,
		IsMutual:           row.IsMutual,
	}
}
