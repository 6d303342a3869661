package session

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RevokeExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, s.Revoke(ctx, "jti-2", 0))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = s.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)

	now = now.Add(time.Minute)
	revoked, _ = s.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
	assert.Empty(t, s.revoked)
}

func TestMemoryStore_SweepsOnRevoke(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Revoke(ctx, "old", time.Second))
	now = now.Add(time.Hour)
	require.NoError(t, s.Revoke(ctx, "new", time.Second))

	assert.Len(t, s.revoked, 1)
	assert.Contains(t, s.revoked, "new")
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, "127.0.0.1:1", "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}

func TestRedisStore_ClientErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	s := NewRedisStoreFromClient(rdb)
	t.Cleanup(func() { _ = s.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, s.Revoke(ctx, "jti", 0))
	require.ErrorContains(t, s.Revoke(ctx, "jti", time.Minute), "revoke token jti")

	_, err := s.IsRevoked(ctx, "jti")
	require.ErrorContains(t, err, "check token jti")
}
