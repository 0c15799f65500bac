package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"pair-engine/internal/model"
)

const keyLatestBatch = "pair-engine:batch:latest"

// Redis shares the latest batch between instances behind a load balancer.
// The whole batch lives under one key, so SET is the atomic swap.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl, now: time.Now}
}

func (r *Redis) Store(ctx context.Context, assignments []model.Assignment) (*model.Batch, error) {
	b := newBatch(assignments, r.now())
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}
	if err := r.client.Set(ctx, keyLatestBatch, data, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store batch: %w", err)
	}
	return b, nil
}

func (r *Redis) RetrieveOrEmpty(ctx context.Context) (*model.Batch, error) {
	data, err := r.client.Get(ctx, keyLatestBatch).Bytes()
	if errors.Is(err, redis.Nil) {
		return emptyBatch(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}

	var b model.Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if b.Assignments == nil {
		b.Assignments = []model.Assignment{}
	}
	return &b, nil
}

func (r *Redis) HasData(ctx context.Context) (bool, error) {
	b, err := r.RetrieveOrEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !b.Empty(), nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, keyLatestBatch).Err(); err != nil {
		return fmt.Errorf("clear batch: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
