package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/AlekseevAleksey/testAuth/internal/api"
	"github.com/AlekseevAleksey/testAuth/internal/core/ports"
	"github.com/AlekseevAleksey/testAuth/internal/core/service"
	"github.com/AlekseevAleksey/testAuth/internal/infrastructure/config"
	memorydb "github.com/AlekseevAleksey/testAuth/internal/infrastructure/db/memory"
	mongodb "github.com/AlekseevAleksey/testAuth/internal/infrastructure/db/mongo"
	redisdb "github.com/AlekseevAleksey/testAuth/internal/infrastructure/db/redis"
	"github.com/AlekseevAleksey/testAuth/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	deps, cleanup, err := buildDeps(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise storage")
	}
	defer cleanup()

	e := api.NewRouter(deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	if err := e.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// buildDeps wires repositories and services for the configured backends and
// returns the router dependencies plus a cleanup func for open connections.
func buildDeps(ctx context.Context, cfg *config.Config, log zerolog.Logger) (api.Deps, func(), error) {
	var (
		users    ports.UserRepository
		profiles ports.ProfileRepository
		tokens   ports.TokenRepository

		mongoDB  *mongo.Database
		redisCli *goredis.Client
		cleanups []func()
	)
	cleanup := func() {
		for _, f := range cleanups {
			f()
		}
	}

	switch cfg.Backend {
	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return api.Deps{}, cleanup, err
		}
		cleanups = append(cleanups, func() { _ = client.Disconnect(context.Background()) })
		mongoDB = db

		profileRepo := mongodb.NewProfileRepository(db)
		if err := profileRepo.Seed(ctx); err != nil {
			return api.Deps{}, cleanup, err
		}
		userRepo := mongodb.NewUserRepository(db, profileRepo)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return api.Deps{}, cleanup, err
		}
		users, profiles = userRepo, profileRepo
	case config.BackendMemory:
		users, profiles = memorydb.NewUserRepository(), memorydb.NewProfileRepository()
	}

	switch cfg.TokenStore {
	case config.TokenStoreMongo:
		tokenRepo := mongodb.NewTokenRepository(mongoDB)
		if err := tokenRepo.EnsureIndexes(ctx); err != nil {
			return api.Deps{}, cleanup, err
		}
		tokens = tokenRepo
	case config.TokenStoreRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return api.Deps{}, cleanup, err
		}
		cleanups = append(cleanups, func() { _ = client.Close() })
		redisCli = client
		tokens = redisdb.NewTokenRepository(client, cfg.RememberMeTTL)
	case config.TokenStoreMemory:
		tokens = memorydb.NewTokenRepository()
	}

	rememberMe := service.NewRememberMeService(tokens, service.NewKeyGenerator(), service.NewClock(), log)
	directory := service.NewDirectoryService(users, profiles, log)
	auth := service.NewAuthService(users, rememberMe, cfg.JWTSecret, cfg.AccessTokenTTL, log)

	return api.Deps{
		Directory:  directory,
		Auth:       auth,
		RememberMe: rememberMe,
		Mongo:      mongoDB,
		Redis:      redisCli,
		JWTSecret:  cfg.JWTSecret,
		CookieTTL:  cfg.RememberMeTTL,
		Logger:     log,
	}, cleanup, nil
}
