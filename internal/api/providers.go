package api

import (
	"context"
	"database/sql"
	"time"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/challenge"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/keys"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/registry"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/ringstore"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/storage"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/verifier"
	"github.com/attestra/go-anoncred-infra/internal/auth"
	"github.com/attestra/go-anoncred-infra/internal/config"
	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// InitServer builds every component in dependency order and returns a ready
// server.
func InitServer(cfg config.Server) (*Server, error) {
	s := NewServer(cfg)
	s.Clock = time2.DefaultClock
	s.JWT = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenDuration)

	state, db, err := NewStateStore(cfg)
	if err != nil {
		return nil, err
	}
	s.State = state
	s.DB = db

	s.Keys = keys.NewGenerator()
	s.Registry = registry.NewService(state)
	s.Rings = ringstore.NewService(state, s.Registry)
	s.Verifier = verifier.NewService(state, s.Rings)
	s.Challenges = challenge.NewService(s.Clock, cfg.Engine.ChallengeTTL)

	return s, nil
}

// NewStateStore picks the engine state backend from configuration. The
// returned *sql.DB is non-nil only for the postgres backend so the caller
// can close it on shutdown.
func NewStateStore(cfg config.Server) (anoncred.StateStore, *sql.DB, error) {
	switch cfg.Engine.StateBackend {
	case "", "memory":
		log.Warn().Msg("Using in-memory state store; engine state will not survive restarts")
		return storage.NewMemoryStore(), nil, nil

	case "redis":
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(client), nil, nil

	case "postgres":
		if cfg.Database.ConnectionString == "" {
			return nil, nil, errors.New("database connection string is not configured")
		}
		db, err := sql.Open("postgres", cfg.Database.ConnectionString)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open database")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return nil, nil, errors.Wrap(err, "failed to ping database")
		}
		return storage.NewPostgresStore(db), db, nil

	default:
		return nil, nil, errors.Errorf("unknown state backend %q", cfg.Engine.StateBackend)
	}
}

// NewRedisClient connects and pings the configured Redis endpoint.
func NewRedisClient(cfg config.Server) (*redis.Client, error) {
	if cfg.Engine.RedisEndpoint == "" {
		return nil, errors.New("redis endpoint is not configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Engine.RedisEndpoint,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to ping redis")
	}

	return client, nil
}
