// Command seed creates the bootstrap admin account. Self-registration always
// produces role "user"; this is the only path that creates an admin. The
// command is idempotent: an existing admin is left untouched.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/userhive/account-api/internal/core/domain"
	"github.com/userhive/account-api/internal/core/service"
	"github.com/userhive/account-api/internal/infrastructure/config"
	mongodb "github.com/userhive/account-api/internal/infrastructure/db/mongo"
	redisdb "github.com/userhive/account-api/internal/infrastructure/db/redis"
	"github.com/userhive/account-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	adminEmail := envOr("ADMIN_EMAIL", "admin@example.com")
	adminPassword := envOr("ADMIN_PASSWORD", "admin123")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer client.Disconnect(ctx) //nolint:errcheck

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close() //nolint:errcheck

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}

	if _, err := users.FindByEmail(ctx, adminEmail); err == nil {
		log.Info().Str("email", adminEmail).Msg("admin already exists")
		return
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		log.Fatal().Err(err).Msg("admin lookup failed")
	}

	hash, err := service.NewPasswordHasher(cfg.BcryptCost).Hash(adminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("hash admin password failed")
	}

	id, err := redisdb.NewSequenceAllocator(rdb).NextUserID(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("allocate admin id failed")
	}

	_, err = users.Create(ctx, &domain.User{
		ID:           id,
		FullName:     "System Admin",
		DOB:          time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create admin failed")
	}

	log.Info().Str("email", adminEmail).Int64("user_id", id).Msg("admin user created")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
