package db

import (
	"time"
)

// User is an account row. Interests and skills hang off the user, not
// the profile, matching how the association tables are keyed.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Profile   *Profile   `gorm:"foreignKey:UserID"`
	Interests []Interest `gorm:"many2many:user_interests"`
	Skills    []Skill    `gorm:"many2many:user_skills"`
}

// Profile holds display fields. Age, city and bio are nullable: the
// scoring engine treats an absent field as a zero contribution.
type Profile struct {
	ID             uint64  `gorm:"primaryKey;autoIncrement"`
	UserID         uint64  `gorm:"uniqueIndex;not null"`
	FirstName      string  `gorm:"size:64;not null"`
	LastName       string  `gorm:"size:64;not null"`
	Age            *int
	City           *string `gorm:"size:128"`
	Bio            *string `gorm:"type:text"`
	ProfilePicture *string `gorm:"size:255"`
	SearchGoals    *string `gorm:"type:text"`
	IsComplete     bool    `gorm:"column:is_profile_complete;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Interest name is the matching identity (compared case-insensitively
// by the engine); uniqueness is enforced on the raw name.
type Interest struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"uniqueIndex;size:128;not null"`
	Category  *string `gorm:"size:64"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Skill struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"uniqueIndex;size:128;not null"`
	Category  *string `gorm:"size:64"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Match is a directed edge user -> matched user.
//
// Unique composite index idx_match_pair(user_id, matched_user_id)
// guarantees at most one row per ordered pair; inserts go through
// ON CONFLICT DO NOTHING so concurrent like/dislike actions cannot
// create duplicates.
//
// Flags:
//   - UserLiked: this direction's swipe.
//   - MatchedUserLiked: bookkeeping mirror of the reverse direction.
//   - IsMutual: both directions liked. Never cleared by a dislike.
type Match struct {
	ID                 uint64  `gorm:"primaryKey;autoIncrement"`
	UserID             uint64  `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	MatchedUserID      uint64  `gorm:"not null;uniqueIndex:idx_match_pair,priority:2"`
	CompatibilityScore float64 `gorm:"not null"`
	UserLiked          bool    `gorm:"default:false"`
	MatchedUserLiked   bool    `gorm:"default:false"`
	IsMutual           bool    `gorm:"default:false"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

// Message is a direct message. Retrieval is polling-style; IsRead
// flips when the recipient loads the conversation.
type Message struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement;index:idx_msg_convo,priority:3,sort:desc"`
	SenderID    uint64 `gorm:"not null;index:idx_msg_convo,priority:1"`
	RecipientID uint64 `gorm:"not null;index:idx_msg_convo,priority:2"`
	Content     string `gorm:"type:text;not null"`
	IsRead      bool   `gorm:"default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
