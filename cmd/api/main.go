package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/campusboard/board-api/docs" // swagger docs
	"github.com/campusboard/board-api/internal/api"
	"github.com/campusboard/board-api/internal/api/handler"
	"github.com/campusboard/board-api/internal/core/ports"
	"github.com/campusboard/board-api/internal/core/service"
	"github.com/campusboard/board-api/internal/infrastructure/db/mongo"
	"github.com/campusboard/board-api/internal/infrastructure/db/redis"
	"github.com/campusboard/board-api/internal/pkg/config"
	"github.com/campusboard/board-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       Board API
// @version                     1.0
// @description                 Community board with role-gated moderation.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "board-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	store := mongo.NewStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	readiness := map[string]handler.Check{
		"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
	}

	// The feed cache is optional; without Redis every public listing is
	// read from MongoDB.
	var feed ports.FeedCache
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, feed cache disabled")
		} else {
			defer rdb.Close()
			feed = redis.NewFeedCache(rdb, cfg.Redis.FeedTTL)
			readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	tokens := service.NewTokenService(cfg.JWTSecret)
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)

	authService := service.NewAuthService(store.Users, hasher, tokens, logger.Component("auth"))
	userService := service.NewUserService(store.Users, store.Posts, hasher, feed, logger.Component("users"))
	categoryService := service.NewCategoryService(store.Categories, store.Posts, feed, logger.Component("categories"))
	postService := service.NewPostService(store.Posts, store.Users, store.Categories, feed, logger.Component("posts"))

	if cfg.Auth.AdminEmail != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Deps{
		Tokens:             tokens,
		Auth:               authService,
		Users:              userService,
		Categories:         categoryService,
		Posts:              postService,
		Readiness:          readiness,
		LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
		Log:                logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
