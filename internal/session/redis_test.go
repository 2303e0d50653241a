package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(setupRedis(t), "recipe-finder:test")

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := Open(ctx, store)
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())

	require.NoError(t, s.SignIn(ctx, "ana", "Ana"))
	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, State{LoggedIn: true, Username: "ana", FirstName: "Ana"}, state)

	require.NoError(t, s.SignOut(ctx))
	state, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, State{}, state)
}
