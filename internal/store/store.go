// Package store holds the most recently uploaded batch of assignments between
// the upload and analyze calls.
package store

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pair-engine/internal/config"
	"pair-engine/internal/model"
)

// Store keeps one batch at a time. Readers always observe a complete batch:
// Store replaces it as a whole.
type Store interface {
	Store(ctx context.Context, assignments []model.Assignment) (*model.Batch, error)
	// RetrieveOrEmpty never returns a nil batch when err is nil.
	RetrieveOrEmpty(ctx context.Context) (*model.Batch, error)
	HasData(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error
}

// New builds the backend selected in cfg. An unreachable Redis falls back to
// the in-memory store so the service stays usable on a single instance.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) Store {
	logger = logger.With().Str("component", "store").Logger()

	if cfg.StoreBackend != config.StoreRedis {
		logger.Info().Msg("holding uploads in memory")
		return NewMemory()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, holding uploads in memory")
		_ = client.Close()
		return NewMemory()
	}

	logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.BatchTTL).Msg("holding uploads in Redis")
	return NewRedis(client, cfg.BatchTTL)
}

func newBatch(assignments []model.Assignment, now time.Time) *model.Batch {
	b := &model.Batch{
		ID:          uuid.New().String(),
		StoredAt:    now.UTC(),
		Assignments: slices.Clone(assignments),
	}
	if b.Assignments == nil {
		b.Assignments = []model.Assignment{}
	}
	return b
}

func emptyBatch() *model.Batch {
	return &model.Batch{Assignments: []model.Assignment{}}
}
