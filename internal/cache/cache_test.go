package cache

import (
	"context"
	"testing"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNopAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	ok, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.Delete(ctx, "k"))
}

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.clock = func() time.Time { return now }

	release, err := l.Obtain(ctx, "retention", time.Minute)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, "retention", time.Minute)
	require.ErrorIs(t, err, ErrLockNotObtained)

	_, err = l.Obtain(ctx, "other", time.Minute)
	require.NoError(t, err)

	require.NoError(t, release(ctx))
	_, err = l.Obtain(ctx, "retention", time.Minute)
	require.NoError(t, err)

	// expired locks can be taken over
	now = now.Add(2 * time.Minute)
	_, err = l.Obtain(ctx, "retention", time.Minute)
	require.NoError(t, err)
}

func TestRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedis(ctx, redisConfigFor("127.0.0.1", 1))
	require.Error(t, err)
}

func redisConfigFor(host string, port int) config.RedisConfig {
	return config.RedisConfig{Enabled: true, Host: host, Port: port}
}
