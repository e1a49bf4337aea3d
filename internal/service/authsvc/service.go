// Package authsvc implements account registration, login, and the
// current-user endpoint. Passwords are bcrypt-hashed; sessions are
// stateless HS256 bearer tokens.
package authsvc

import (
	"net/http"
	"strings"
	"time"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
	svcErr "github.com/legitsearch/platform/internal/errors"
	"github.com/legitsearch/platform/internal/repository"
	"github.com/legitsearch/platform/internal/server"
)

// Service contains the auth business logic on top of the user
// repository. Each method is an HTTP handler.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      uint64 `json:"user_id"`
}

type userResponse struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleRegister creates an account and issues a token immediately, so
// the client can proceed straight to profile creation.
func (s *Service) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := server.Decode(r, &req); err != nil {
		server.BadRequest(w, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		server.BadRequest(w, "email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		server.Error(w, err)
		return
	}

	user, err := s.userRepo.Create(r.Context(), req.Email, hash)
	if err != nil {
		s.appCtx.Logger.Error("registration failed", "email", req.Email, "err", err)
		server.Error(w, err)
		return
	}

	token, err := auth.IssueToken(s.appCtx.Cfg, user.ID)
	if err != nil {
		server.Error(w, err)
		return
	}

	s.appCtx.Logger.Info("user registered", "user_id", user.ID)
	server.JSON(w, http.StatusCreated, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
	})
}

// HandleLogin verifies credentials and issues a token. Wrong email and
// wrong password produce the same 401 body.
func (s *Service) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := server.Decode(r, &req); err != nil {
		server.BadRequest(w, "invalid request body")
		return
	}

	user, err := s.userRepo.GetByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		server.JSON(w, http.StatusUnauthorized, map[string]string{"detail": "incorrect email or password"})
		return
	}
	if !user.Active {
		server.JSON(w, http.StatusUnauthorized, map[string]string{"detail": "account is deactivated"})
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		server.JSON(w, http.StatusUnauthorized, map[string]string{"detail": "incorrect email or password"})
		return
	}

	token, err := auth.IssueToken(s.appCtx.Cfg, user.ID)
	if err != nil {
		server.Error(w, err)
		return
	}

	s.appCtx.Logger.Debug("user logged in", "user_id", user.ID)
	server.JSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
	})
}

// HandleMe returns the authenticated account.
func (s *Service) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		server.Error(w, svcErr.ErrUnauthorized)
		return
	}

	user, err := s.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		server.Error(w, err)
		return
	}

	server.JSON(w, http.StatusOK, userResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsActive:  user.Active,
		CreatedAt: user.CreatedAt,
	})
}
