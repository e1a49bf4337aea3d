package users_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
	"github.com/legitsearch/platform/internal/cache"
	"github.com/legitsearch/platform/internal/config"
	"github.com/legitsearch/platform/internal/db"
	"github.com/legitsearch/platform/internal/service/users"
)

func setupService(t *testing.T) (*users.Service, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Upload.Dir = t.TempDir()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(dbase, redisCache, logger, cfg)
	return users.NewService(appCtx), dbase
}

func seedUser(t *testing.T, dbase *gorm.DB, id uint64) {
	t.Helper()
	user := db.User{ID: id, Email: fmt.Sprintf("u%d@test.com", id), PasswordHash: "x", Active: true}
	require.NoError(t, dbase.Create(&user).Error)
}

// asUser builds a request with the user id already in context, the way
// the auth middleware would leave it.
func asUser(method, path, body string, userID uint64) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateProfileComputesCompleteness(t *testing.T) {
	svc, dbase := setupService(t)
	seedUser(t, dbase, 1)

	// missing bio and city: not complete
	rec := httptest.NewRecorder()
	svc.HandleCreateProfile(rec, asUser(http.MethodPost, "/api/users/profile",
		`{"first_name":"Ann","last_name":"Archer","age":30}`, 1))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		IsComplete bool `json:"is_profile_complete"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsComplete)

	// filling in the rest flips the flag
	rec = httptest.NewRecorder()
	svc.HandleUpdateProfile(rec, asUser(http.MethodPut, "/api/users/profile",
		`{"city":"Austin","bio":"I like hiking"}`, 1))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsComplete)
}

func TestCreateProfileTwice(t *testing.T) {
	svc, dbase := setupService(t)
	seedUser(t, dbase, 1)

	body := `{"first_name":"Ann","last_name":"Archer"}`
	rec := httptest.NewRecorder()
	svc.HandleCreateProfile(rec, asUser(http.MethodPost, "/api/users/profile", body, 1))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	svc.HandleCreateProfile(rec, asUser(http.MethodPost, "/api/users/profile", body, 1))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetProfileNotFound(t *testing.T) {
	svc, dbase := setupService(t)
	seedUser(t, dbase, 1)

	rec := httptest.NewRecorder()
	svc.HandleGetProfile(rec, asUser(http.MethodGet, "/api/users/profile", "", 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttachAndDetachInterest(t *testing.T) {
	svc, dbase := setupService(t)
	seedUser(t, dbase, 1)
	require.NoError(t, dbase.Create(&db.Profile{UserID: 1, FirstName: "A", LastName: "B"}).Error)

	interest := db.Interest{Name: "Hiking"}
	require.NoError(t, dbase.Create(&interest).Error)

	req := withURLParam(asUser(http.MethodPost, "/api/users/profile/interests/1", "", 1),
		"interest_id", fmt.Sprint(interest.ID))
	rec := httptest.NewRecorder()
	svc.HandleAttachInterest(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// attach is idempotent
	rec = httptest.NewRecorder()
	svc.HandleAttachInterest(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var user db.User
	require.NoError(t, dbase.Preload("Interests").First(&user, 1).Error)
	require.Len(t, user.Interests, 1)

	detach := withURLParam(asUser(http.MethodDelete, "/api/users/profile/interests/1", "", 1),
		"interest_id", fmt.Sprint(interest.ID))
	rec = httptest.NewRecorder()
	svc.HandleDetachInterest(rec, detach)
	require.Equal(t, http.StatusOK, rec.Code)

	user = db.User{}
	require.NoError(t, dbase.Preload("Interests").First(&user, 1).Error)
	assert.Empty(t, user.Interests)
}

func TestAttachInterestRequiresProfile(t *testing.T) {
	svc, dbase := setupService(t)
	seedUser(t, dbase, 1)

	interest := db.Interest{Name: "Hiking"}
	require.NoError(t, dbase.Create(&interest).Error)

	req := withURLParam(asUser(http.MethodPost, "/api/users/profile/interests/1", "", 1),
		"interest_id", fmt.Sprint(interest.ID))
	rec := httptest.NewRecorder()
	svc.HandleAttachInterest(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomSkillCreatesAndAttaches(t *testing.T) {
	svc, dbase := setupService(t)
	seedUser(t, dbase, 1)
	require.NoError(t, dbase.Create(&db.Profile{UserID: 1, FirstName: "A", LastName: "B"}).Error)

	rec := httptest.NewRecorder()
	svc.HandleCustomSkill(rec, asUser(http.MethodPost, "/api/users/profile/custom-skill",
		`{"name":"Juggling"}`, 1))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item struct {
		Name     string  `json:"name"`
		Category *string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "Juggling", item.Name)
	require.NotNil(t, item.Category)
	assert.Equal(t, "Custom", *item.Category)

	var user db.User
	require.NoError(t, dbase.Preload("Skills").First(&user, 1).Error)
	require.Len(t, user.Skills, 1)

	// same name again reuses the catalog row
	rec = httptest.NewRecorder()
	svc.HandleCustomSkill(rec, asUser(http.MethodPost, "/api/users/profile/custom-skill",
		`{"name":"Juggling"}`, 1))
	require.Equal(t, http.StatusCreated, rec.Code)

	var count int64
	require.NoError(t, dbase.Model(&db.Skill{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSearchShortQueryReturnsEmpty(t *testing.T) {
	svc, dbase := setupService(t)
	seedUser(t, dbase, 1)

	rec := httptest.NewRecorder()
	svc.HandleSearch(rec, asUser(http.MethodGet, "/api/users/search?query=a", "", 1))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestUploadAvatar(t *testing.T) {
	svc, dbase := setupService(t)
	seedUser(t, dbase, 1)
	require.NoError(t, dbase.Create(&db.Profile{UserID: 1, FirstName: "A", LastName: "B"}).Error)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-really-a-png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(auth.WithUserID(req.Context(), 1))

	rec := httptest.NewRecorder()
	svc.HandleUploadAvatar(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AvatarURL string `json:"avatar_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.AvatarURL, "/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(resp.AvatarURL, ".png"))

	var profile db.Profile
	require.NoError(t, dbase.Where("user_id = ?", 1).First(&profile).Error)
	require.NotNil(t, profile.ProfilePicture)
	assert.Equal(t, resp.AvatarURL, *profile.ProfilePicture)
}

func TestUploadAvatarRejectsExtension(t *testing.T) {
	svc, dbase := setupService(t)
	seedUser(t, dbase, 1)
	require.NoError(t, dbase.Create(&db.Profile{UserID: 1, FirstName: "A", LastName: "B"}).Error)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "evil.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("mz"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(auth.WithUserID(req.Context(), 1))

	rec := httptest.NewRecorder()
	svc.HandleUploadAvatar(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
