// Package chat implements direct messages: send, conversation list,
// history with cursor pagination, and the cache-first unread counter.
// Delivery is polling-style; there is no push channel.
package chat

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
	"github.com/legitsearch/platform/internal/db"
	svcErr "github.com/legitsearch/platform/internal/errors"
	"github.com/legitsearch/platform/internal/metrics"
	"github.com/legitsearch/platform/internal/repository"
	"github.com/legitsearch/platform/internal/server"
	"github.com/legitsearch/platform/internal/utils/pagination"
)

const defaultHistoryLimit = 50

type Service struct {
	appCtx      *app.AppContext
	userRepo    *repository.UserRepository
	messageRepo *repository.MessageRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		userRepo:    repository.NewUserRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
	}
}

type sendRequest struct {
	RecipientID uint64 `json:"recipient_id"`
	Content     string `json:"content"`
}

type messageResponse struct {
	ID          uint64    `json:"id"`
	SenderID    uint64    `json:"sender_id"`
	RecipientID uint64    `json:"recipient_id"`
	Content     string    `json:"content"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

func toMessageResponse(m *db.Message) messageResponse {
	return messageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
	}
}

// HandleSend stores a message. The recipient must exist; messaging
// does not require a mutual match.
func (s *Service) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserID(ctx)

	var req sendRequest
	if err := server.Decode(r, &req); err != nil {
		server.BadRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		server.BadRequest(w, "content is required")
		return
	}
	if req.RecipientID == userID {
		server.Error(w, svcErr.ErrInvalidOperation)
		return
	}

	if _, err := s.userRepo.GetByID(ctx, req.RecipientID); err != nil {
		server.Error(w, err)
		return
	}

	msg, err := s.messageRepo.Create(ctx, userID, req.RecipientID, req.Content)
	if err != nil {
		server.Error(w, err)
		return
	}
	metrics.MessagesTotal.Inc()

	// bump the recipient's unread counter only when already cached;
	// an absent key recounts from the DB on the next read
	key := s.appCtx.RedisCache.KeyForUnreadCount(req.RecipientID)
	_ = s.appCtx.RedisCache.BumpCounter(ctx, key, 1)

	s.appCtx.Logger.Debug("message sent", "sender", userID, "recipient", req.RecipientID)
	server.JSON(w, http.StatusCreated, toMessageResponse(msg))
}

// HandleConversations lists every peer with last-message preview and
// unread count, most recent first.
func (s *Service) HandleConversations(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	convos, err := s.messageRepo.Conversations(r.Context(), userID)
	if err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusOK, convos)
}

// HandleMessages returns the conversation with another user, newest
// first, with an opaque cursor for older pages. Loading the
// conversation marks the peer's messages read and drops the cached
// unread counter.
func (s *Service) HandleMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserID(ctx)

	otherID, err := strconv.ParseUint(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		server.BadRequest(w, "user_id must be a valid integer")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 {
			limit = n
		}
	}
	var token *string
	if raw := r.URL.Query().Get("page_token"); raw != "" {
		token = &raw
	}

	messages, nextToken, err := s.messageRepo.History(ctx, userID, otherID, token, limit)
	if err != nil {
		if svcErr.Is(err, pagination.ErrInvalidToken) {
			server.BadRequest(w, "invalid page token")
			return
		}
		server.Error(w, err)
		return
	}

	if err := s.messageRepo.MarkRead(ctx, userID, otherID); err != nil {
		server.Error(w, err)
		return
	}
	_ = s.appCtx.RedisCache.Del(ctx, s.appCtx.RedisCache.KeyForUnreadCount(userID))

	out := make([]messageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, toMessageResponse(&messages[i]))
	}

	resp := map[string]any{"messages": out}
	if nextToken != nil {
		resp["next_page_token"] = *nextToken
	}
	server.JSON(w, http.StatusOK, resp)
}

// HandleUnreadCount returns the user's total unread messages.
// Cache-first with a 1h TTL, DB recount on miss.
func (s *Service) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserID(ctx)

	key := s.appCtx.RedisCache.KeyForUnreadCount(userID)
	if n, ok, err := s.appCtx.RedisCache.GetCounter(ctx, key); err == nil && ok {
		server.JSON(w, http.StatusOK, map[string]int64{"unread_count": n})
		return
	}

	count, err := s.messageRepo.UnreadCount(ctx, userID)
	if err != nil {
		server.Error(w, err)
		return
	}
	_ = s.appCtx.RedisCache.SetCounter(ctx, key, count)

	server.JSON(w, http.StatusOK, map[string]int64{"unread_count": count})
}

// Registrar ties the chat service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (reg *Registrar) Register(r chi.Router) {
	svc := NewService(reg.appCtx)

	r.Route("/api/chat", func(r chi.Router) {
		r.Use(auth.Middleware(reg.appCtx.Cfg))

		r.Post("/send", svc.HandleSend)
		r.Get("/conversations", svc.HandleConversations)
		r.Get("/messages/{user_id}", svc.HandleMessages)
		r.Get("/unread-count", svc.HandleUnreadCount)
	})
}
