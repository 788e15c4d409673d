package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/atelier-studio/registry-api/internal/api"
	"github.com/atelier-studio/registry-api/internal/core/registry"
	"github.com/atelier-studio/registry-api/internal/infrastructure/db/mongo"
	"github.com/atelier-studio/registry-api/internal/infrastructure/db/redis"
	"github.com/atelier-studio/registry-api/internal/infrastructure/github"
	"github.com/atelier-studio/registry-api/internal/infrastructure/queue"
	"github.com/atelier-studio/registry-api/internal/pkg/config"
	"github.com/atelier-studio/registry-api/pkg/logger"
)

// @title        Atelier Registry API
// @version      1.0
// @description  Admin console backend for the atelier registry: orders, inventory, quotes, and accounts synchronized against a single remote JSON document.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	remote := github.NewClient(github.Config{
		Owner:  cfg.Registry.Owner,
		Repo:   cfg.Registry.Repo,
		Path:   cfg.Registry.Path,
		Branch: cfg.Registry.Branch,
		Token:  cfg.Registry.Token,
	}, log)

	// The mirror and audit stores are optional: the service still runs when
	// Redis or Mongo is down, it just loses the local fallback copy and the
	// commit trail.
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache mirror")
		rdb = nil
	}

	mongoClient, mongoDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Warn().Err(err).Msg("mongo unavailable, running without commit audit trail")
		mongoClient, mongoDB = nil, nil
	}

	opts := registry.Options{
		MaxRetries: cfg.Registry.MaxRetries,
		RetryDelay: cfg.Registry.RetryDelay,
	}

	var dispatcher *queue.Dispatcher
	if rdb != nil {
		mirror := redis.NewMirror(rdb)
		dispatcher = queue.NewDispatcher(cfg.Registry.MirrorWorkers, mirror, log)
		dispatcher.Start(ctx)
		opts.Mirror = mirror
		opts.MirrorQueue = dispatcher
	}
	if mongoDB != nil {
		opts.Audit = mongo.NewAuditRepository(mongoDB)
	}

	reg := registry.New(remote, log, opts)
	if err := reg.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("registry initialization aborted")
	}
	log.Info().
		Str("state", string(reg.State())).
		Str("version_token", reg.VersionToken()).
		Msg("registry loaded")

	e := api.NewRouter(api.RouterDeps{
		Registry:   reg,
		Redis:      rdb,
		Mongo:      mongoDB,
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
		Log:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}
	log.Info().Msg("server exited")
}
