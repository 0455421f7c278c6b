package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fromagerie-alioui/invoicing-api/internal/api"
	"github.com/fromagerie-alioui/invoicing-api/internal/infrastructure/config"
	mongodb "github.com/fromagerie-alioui/invoicing-api/internal/infrastructure/db/mongo"
	redisdb "github.com/fromagerie-alioui/invoicing-api/internal/infrastructure/db/redis"
	"github.com/fromagerie-alioui/invoicing-api/internal/render"
	"github.com/fromagerie-alioui/invoicing-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- PDF pipeline ---
	builder, err := render.NewHTMLBuilder(render.DefaultCompany())
	if err != nil {
		log.Fatal().Err(err).Msg("invoice template failed to parse")
	}
	renderer := render.NewChromeRenderer(render.ChromeConfig{
		Timeout:       cfg.Chrome.RenderTimeout,
		MaxConcurrent: cfg.Chrome.MaxConcurrent,
		NoSandbox:     cfg.Chrome.NoSandbox,
	}, log)
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error().Err(err).Msg("renderer shutdown failed")
		}
	}()

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Mongo:     db,
		Redis:     rdb,
		Renderer:  renderer,
		Builder:   builder,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
