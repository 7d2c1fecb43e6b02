//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return addr
}

func TestLoginThrottle_BlocksAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: startRedis(t)})
	require.NoError(t, err)
	defer client.Close()

	throttle := NewLoginThrottle(client, 3, time.Minute)

	blocked, err := throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, blocked)

	for i := int64(1); i <= 3; i++ {
		n, err := throttle.RecordFailure(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	blocked, err = throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, blocked)

	other, err := throttle.Blocked(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, other)

	ttl, err := client.TTL(ctx, "login:fail:alice").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, throttle.Reset(ctx, "alice"))
	blocked, err = throttle.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: startRedis(t)})
	require.NoError(t, err)
	defer client.Close()

	throttle := NewLoginThrottle(client, 1, time.Second)

	_, err = throttle.RecordFailure(ctx, "carol")
	require.NoError(t, err)
	blocked, err := throttle.Blocked(ctx, "carol")
	require.NoError(t, err)
	require.True(t, blocked)

	assert.Eventually(t, func() bool {
		b, err := throttle.Blocked(ctx, "carol")
		return err == nil && !b
	}, 5*time.Second, 100*time.Millisecond)
}

func TestLoginThrottle_CounterAlwaysHasTTL(t *testing.T) {
	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: startRedis(t)})
	require.NoError(t, err)
	defer client.Close()

	throttle := NewLoginThrottle(client, 5, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := throttle.RecordFailure(ctx, "frank")
		require.NoError(t, err)
		ttl, err := client.TTL(ctx, "login:fail:frank").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0), "failure %d", i+1)
	}

	// A counter left behind without a TTL is repaired by the next failure.
	require.NoError(t, client.Set(ctx, "login:fail:grace", 4, 0).Err())
	n, err := throttle.RecordFailure(ctx, "grace")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	ttl, err := client.TTL(ctx, "login:fail:grace").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}
