package aisearch_test

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
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
	"github.com/legitsearch/platform/internal/service/aisearch"
)

// Seeds user 1 (the searcher), a musician in Austin (2), a programmer
// in Dallas (3), a 50-year-old chef in Austin (4) and a user without a
// profile (5).
func seedSearchable(t *testing.T, dbase *gorm.DB) {
	t.Helper()

	music := db.Interest{Name: "Music"}
	coding := db.Interest{Name: "Programming"}
	require.NoError(t, dbase.Create(&music).Error)
	require.NoError(t, dbase.Create(&coding).Error)

	users := []db.User{
		{ID: 1, Email: "u1@test.com", PasswordHash: "x"},
		{ID: 2, Email: "u2@test.com", PasswordHash: "x", Interests: []db.Interest{music}},
		{ID: 3, Email: "u3@test.com", PasswordHash: "x", Interests: []db.Interest{coding}},
		{ID: 4, Email: "u4@test.com", PasswordHash: "x"},
		{ID: 5, Email: "u5@test.com", PasswordHash: "x"},
	}
	require.NoError(t, dbase.Create(&users).Error)

	age30, age50 := 30, 50
	austin, dallas := "Austin", "Dallas"
	searcherBio := "just browsing"
	musicianBio := "I play guitar and write music"
	coderBio := "software developer, coding all day"
	chefBio := "cooking is my life"
	profiles := []db.Profile{
		{UserID: 1, FirstName: "Ann", LastName: "Archer", Age: &age30, City: &austin, Bio: &searcherBio, IsComplete: true},
		{UserID: 2, FirstName: "Bob", LastName: "Builder", Age: &age30, City: &austin, Bio: &musicianBio, IsComplete: true},
		{UserID: 3, FirstName: "Cat", LastName: "Cooper", Age: &age30, City: &dallas, Bio: &coderBio, IsComplete: true},
		{UserID: 4, FirstName: "Dan", LastName: "Drape", Age: &age50, City: &austin, Bio: &chefBio, IsComplete: true},
	}
	require.NoError(t, dbase.Create(&profiles).Error)
}

func setupService(t *testing.T) *aisearch.Service {
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
	seedSearchable(t, dbase)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(dbase, redisCache, logger, cfg)
	return aisearch.NewService(appCtx)
}

func searchReq(t *testing.T, userID uint64, query string, limit int) *http.Request {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "limit": limit})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/ai/ai-search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

type hit struct {
	UserID    uint64  `json:"user_id"`
	FirstName string  `json:"first_name"`
	City      *string `json:"city"`
}

func TestSearchByTopic(t *testing.T) {
	svc := setupService(t)

	w := httptest.NewRecorder()
	svc.HandleSearch(w, searchReq(t, 1, "someone who loves music", 0))
	require.Equal(t, http.StatusOK, w.Code)

	var hits []hit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hits))
	require.NotEmpty(t, hits)
	assert.Equal(t, uint64(2), hits[0].UserID)
	assert.Equal(t, "Bob", hits[0].FirstName)
	for _, h := range hits {
		assert.NotEqual(t, uint64(3), h.UserID, "coder should not match a music query")
	}
}

func TestSearchByCity(t *testing.T) {
	svc := setupService(t)

	w := httptest.NewRecorder()
	svc.HandleSearch(w, searchReq(t, 1, "coding people in dallas", 0))
	require.Equal(t, http.StatusOK, w.Code)

	var hits []hit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, uint64(3), hits[0].UserID)
	require.NotNil(t, hits[0].City)
	assert.Equal(t, "Dallas", *hits[0].City)
}

func TestSearchLimit(t *testing.T) {
	svc := setupService(t)

	w := httptest.NewRecorder()
	svc.HandleSearch(w, searchReq(t, 1, "music and cooking in austin", 1))
	require.Equal(t, http.StatusOK, w.Code)

	var hits []hit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hits))
	assert.Len(t, hits, 1)
}

func TestSearchRequiresQuery(t *testing.T) {
	svc := setupService(t)

	w := httptest.NewRecorder()
	svc.HandleSearch(w, searchReq(t, 1, "   ", 0))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchRequiresProfile(t *testing.T) {
	svc := setupService(t)

	w := httptest.NewRecorder()
	svc.HandleSearch(w, searchReq(t, 5, "anyone into music", 0))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchExcludesSearcher(t *testing.T) {
	svc := setupService(t)

	w := httptest.NewRecorder()
	svc.HandleSearch(w, searchReq(t, 2, "musicians in austin", 0))
	require.Equal(t, http.StatusOK, w.Code)

	var hits []hit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hits))
	for _, h := range hits {
		assert.NotEqual(t, uint64(2), h.UserID)
	}
}
