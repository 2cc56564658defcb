// @title           Dashboard Access Control API
// @version         1.0
// @description     Role-based permission resolver, role catalog and per-user overrides for the admin dashboard.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/adminhub/access-control/internal/api"
	"github.com/adminhub/access-control/internal/api/handler"
	"github.com/adminhub/access-control/internal/core/domain"
	"github.com/adminhub/access-control/internal/core/ports"
	"github.com/adminhub/access-control/internal/core/service"
	"github.com/adminhub/access-control/internal/infrastructure/db/memory"
	"github.com/adminhub/access-control/internal/infrastructure/db/mongo"
	"github.com/adminhub/access-control/internal/infrastructure/db/redis"
	"github.com/adminhub/access-control/internal/infrastructure/queue"
	"github.com/adminhub/access-control/internal/pkg/config"
	"github.com/adminhub/access-control/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "access-control",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	now := time.Now().UTC()
	hash, err := service.HashPassword(cfg.SeedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	seedRoles := domain.DefaultRoles(now)
	seedUsers := domain.DefaultUsers(hash, now)

	readiness := map[string]handler.PingFunc{}

	var (
		roles ports.RoleRepository
		users ports.UserRepository
	)
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer disconnectMongo(client, log)

		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		if err := mongo.SeedIfEmpty(ctx, db, seedRoles, seedUsers); err != nil {
			return err
		}
		roles = mongo.NewRoleRepository(db)
		users = mongo.NewUserRepository(db)
		readiness["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb store")
	default:
		roles = memory.NewRoleRepository(seedRoles)
		users = memory.NewUserRepository(seedUsers)
		log.Info().Msg("using in-memory store, seeded with default roles")
	}

	var cache ports.PermissionCache
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		cache = redis.NewPermissionCache(rdb, cfg.Redis.CacheTTL)
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("permission cache enabled")
	}

	access := service.NewAccessService(roles, users, cache, logger.Component("access"))
	if cache != nil {
		dispatcher := queue.NewDispatcher(cfg.Redis.WarmupWorkers, access, logger.Component("warmup"))
		dispatcher.Start(ctx)
		access.UseWarmupQueue(dispatcher)
	}
	auth := service.NewAuthService(users, roles, cfg.JWTSecret, cfg.TokenTTL)

	e := api.NewRouter(api.Deps{
		Access:    access,
		Auth:      auth,
		JWTSecret: cfg.JWTSecret,
		Log:       logger.Component("http"),
		Readiness: readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

func disconnectMongo(client *mongodriver.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
}
