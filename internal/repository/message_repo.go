package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/legitsearch/platform/internal/db"
	"github.com/legitsearch/platform/internal/utils/pagination"
)

// MessageRepository provides access to direct messages: sending,
// conversation summaries, history and unread tracking.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

func (r *MessageRepository) Create(ctx context.Context, senderID, recipientID uint64, content string) (*db.Message, error) {
	msg := db.Message{SenderID: senderID, RecipientID: recipientID, Content: content}
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ConversationSummary is one row of a user's conversation list.
type ConversationSummary struct {
	UserID          uint64    `json:"user_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int64     `json:"unread_count"`
}

// Conversations lists every peer the user has exchanged messages with,
// most recent conversation first, with unread counts.
func (r *MessageRepository) Conversations(ctx context.Context, userID uint64) ([]ConversationSummary, error) {
	var messages []db.Message
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}

	order := make([]uint64, 0)
	byPeer := make(map[uint64]*ConversationSummary)
	for _, m := range messages {
		peer := m.SenderID
		if peer == userID {
			peer = m.RecipientID
		}
		summary, ok := byPeer[peer]
		if !ok {
			// first hit is the newest message of the conversation
			summary = &ConversationSummary{
				UserID:          peer,
				LastMessage:     m.Content,
				LastMessageTime: m.CreatedAt,
			}
			byPeer[peer] = summary
			order = append(order, peer)
		}
		if m.RecipientID == userID && !m.IsRead {
			summary.UnreadCount++
		}
	}

	// resolve display names
	peerIDs := make([]uint64, 0, len(order))
	peerIDs = append(peerIDs, order...)
	var profiles []db.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", peerIDs).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	names := make(map[uint64]*db.Profile, len(profiles))
	for i := range profiles {
		names[profiles[i].UserID] = &profiles[i]
	}

	out := make([]ConversationSummary, 0, len(order))
	for _, peer := range order {
		summary := byPeer[peer]
		if p, ok := names[peer]; ok {
			summary.FirstName = p.FirstName
			summary.LastName = p.LastName
		} else {
			summary.FirstName = "Unknown"
			summary.LastName = "User"
		}
		out = append(out, *summary)
	}
	return out, nil
}

// History returns messages between the two users, newest first, with
// cursor-based pagination.
func (r *MessageRepository) History(
	ctx context.Context,
	userID, otherID uint64,
	paginationToken *string,
	limit int,
) ([]db.Message, *string, error) {
	cursor, err := pagination.Decode(deref(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where(
			"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID,
		).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if cursor.MessageID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.MessageID,
		)
	}

	var messages []db.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(messages) > limit {
		last := messages[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MessageID:   last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		messages = messages[:limit]
	}

	return messages, nextToken, nil
}

// MarkRead marks everything the sender sent to the recipient as read.
func (r *MessageRepository) MarkRead(ctx context.Context, recipientID, senderID uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = ?", recipientID, senderID, false).
		Update("is_read", true).Error
}

// UnreadCount counts unread messages addressed to the user.
func (r *MessageRepository) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
