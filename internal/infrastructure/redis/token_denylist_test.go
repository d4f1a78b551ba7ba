package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendofy-api/pkg/config"
)

// Requiere un Redis real: REDIS_TEST_ADDR=localhost:6379 go test ./internal/infrastructure/redis/...
func TestTokenDenylist_RevocaConTTL(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR no definido")
	}
	ctx := context.Background()
	rdb, err := NewClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()

	d := NewTokenDenylist(rdb)
	jti := uuid.New().String()

	revoked, err := d.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, jti, time.Now().Add(time.Minute)))
	revoked, err = d.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := rdb.TTL(ctx, revokedKeyPrefix+jti).Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Minute.Seconds(), ttl.Seconds(), 5)

	expired := uuid.New().String()
	require.NoError(t, d.Revoke(ctx, expired, time.Now().Add(-time.Second)))
	revoked, err = d.IsRevoked(ctx, expired)
	require.NoError(t, err)
	assert.False(t, revoked)
}
