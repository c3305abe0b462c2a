package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryTokenDenylist(t *testing.T) {
	d := NewMemoryTokenDenylist(zap.NewNop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "tok-1", time.Hour))
	require.NoError(t, d.Revoke(ctx, "tok-2", 2*time.Hour))
	// already expired tokens are not worth remembering
	require.NoError(t, d.Revoke(ctx, "tok-3", 0))

	revoked, err := d.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "tok-3")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Equal(t, 2, d.Len())

	now = now.Add(90 * time.Minute)
	revoked, err = d.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.Equal(t, 1, d.Prune())
	assert.Equal(t, 1, d.Len())

	revoked, err = d.IsRevoked(ctx, "tok-2")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryTokenDenylist_StartPruning(t *testing.T) {
	d := NewMemoryTokenDenylist(zap.NewNop())
	require.NoError(t, d.StartPruning("@every 1h"))
	d.Stop()

	assert.Error(t, NewMemoryTokenDenylist(zap.NewNop()).StartPruning("not a spec"))
}

func TestRedisTokenDenylist_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	d := NewRedisTokenDenylist(client)
	ctx := context.Background()

	// nothing to store for an already expired token
	assert.NoError(t, d.Revoke(ctx, "tok-1", -time.Second))

	assert.Error(t, d.Revoke(ctx, "tok-1", time.Minute))
	_, err := d.IsRevoked(ctx, "tok-1")
	assert.Error(t, err)
}
