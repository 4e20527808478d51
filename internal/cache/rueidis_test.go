package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedis starts a throwaway Redis container, skipping the test when
// Docker is unavailable.
func startRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("Skipping Redis test: Docker not available (panic: %v)", r)
		}
	}()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Skipping Redis test: Docker not available (%v)", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRueidisCache(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	c, err := NewRueidisCache[int64](ctx, addr, "", 0, "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Health(ctx))

	_, err = c.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", 5, time.Minute))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	stored, err := c.SetIfAbsent(ctx, "nonce", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = c.SetIfAbsent(ctx, "nonce", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestRueidisAsideCache_GetWithFetch(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	c, err := NewRueidisAsideCache[int64](addr, "", 0, "aside:", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	calls := 0
	fetch := func(context.Context, string) (int64, error) {
		calls++
		return 11, nil
	}

	for range 2 {
		v, err := c.GetWithFetch(ctx, "gauge", time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, int64(11), v)
	}
	assert.Equal(t, 1, calls)
}
