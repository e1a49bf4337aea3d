package main

import (
	"context"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/cache"
	"github.com/legitsearch/platform/internal/config"
	"github.com/legitsearch/platform/internal/db"
	"github.com/legitsearch/platform/internal/logger"
	"github.com/legitsearch/platform/internal/server"
	"github.com/legitsearch/platform/internal/service/aisearch"
	"github.com/legitsearch/platform/internal/service/analytics"
	"github.com/legitsearch/platform/internal/service/authsvc"
	"github.com/legitsearch/platform/internal/service/chat"
	"github.com/legitsearch/platform/internal/service/match"
	"github.com/legitsearch/platform/internal/service/recommend"
	"github.com/legitsearch/platform/internal/service/users"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}
	if err := db.Migrate(database); err != nil {
		log.Error("failed to migrate db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log, cfg)

	registrars := []server.Registrar{
		authsvc.NewRegistrar(appCtx),
		users.NewRegistrar(appCtx),
		recommend.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
		aisearch.NewRegistrar(appCtx),
		analytics.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
