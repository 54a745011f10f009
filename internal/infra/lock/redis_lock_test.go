//go:build unit

package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client), mr
}

func TestRedisLocker_SingleHolder(t *testing.T) {
	l, _ := newTestLocker(t)
	ctx := context.Background()

	release, ok, err := l.TryAcquire(ctx, "sweeper", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryAcquire(ctx, "sweeper", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, release(ctx))

	_, ok, err = l.TryAcquire(ctx, "sweeper", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLocker_ExpiredLeaseCannotReleaseSuccessor(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	staleRelease, ok, err := l.TryAcquire(ctx, "sweeper", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = l.TryAcquire(ctx, "sweeper", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, staleRelease(ctx))
	assert.True(t, mr.Exists("sweeper"))
}

func TestRedisLocker_BackendDown(t *testing.T) {
	l, mr := newTestLocker(t)
	mr.Close()

	_, ok, err := l.TryAcquire(context.Background(), "sweeper", time.Minute)
	require.Error(t, err)
	assert.False(t, ok)
}
