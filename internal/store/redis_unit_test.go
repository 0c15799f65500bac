package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestRedisMissingKeyIsEmptyBatch(t *testing.T) {
	ctx := context.Background()
	r, _ := newMiniRedis(t)

	b, err := r.RetrieveOrEmpty(ctx)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.NotNil(t, b.Assignments)
	assert.Empty(t, b.Assignments)

	has, err := r.HasData(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRedisStoreRetrieveClear(t *testing.T) {
	ctx := context.Background()
	r, mr := newMiniRedis(t)

	in := sample(4)
	stored, err := r.Store(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(keyLatestBatch))

	b, err := r.RetrieveOrEmpty(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, b.ID)
	assert.Equal(t, in, b.Assignments)

	has, err := r.HasData(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, r.Clear(ctx))
	has, err = r.HasData(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRedisBatchExpires(t *testing.T) {
	ctx := context.Background()
	r, mr := newMiniRedis(t)

	_, err := r.Store(ctx, sample(2))
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	has, err := r.HasData(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRedisCorruptBatch(t *testing.T) {
	r, mr := newMiniRedis(t)
	require.NoError(t, mr.Set(keyLatestBatch, "{not json"))

	_, err := r.RetrieveOrEmpty(context.Background())
	assert.ErrorContains(t, err, "decode batch")
}

func TestRedisUnreachableWrapsErrors(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: time.Second,
	})
	r := NewRedis(client, time.Minute)
	t.Cleanup(func() { _ = r.Close() })

	_, err := r.Store(ctx, sample(1))
	assert.ErrorContains(t, err, "store batch")

	_, err = r.RetrieveOrEmpty(ctx)
	assert.ErrorContains(t, err, "load batch")

	_, err = r.HasData(ctx)
	assert.ErrorContains(t, err, "load batch")

	err = r.Clear(ctx)
	assert.ErrorContains(t, err, "clear batch")
}
