package redis_test

import (
	"context"
	"testing"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	rediswrap "resto-suite/internal/whatsapp/redis"
)

// TestConversationLockIntegration runs the lock against a real Redis container.
func TestConversationLockIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}

	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	defer redisContainer.Terminate(ctx)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)

	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{
		Addr: host + ":" + port.Port(),
	})
	lock := rediswrap.NewRedis(client)

	locked, err := lock.LockConversation("rest-1", "41791234567")
	require.NoError(t, err)
	assert.True(t, locked, "Expected conversation to be lockable")

	// Second attempt for the same restaurant+phone must fail
	locked, err = lock.LockConversation("rest-1", "41791234567")
	require.NoError(t, err)
	assert.False(t, locked, "Expected conversation to be already locked")

	// A different phone is an independent conversation
	locked, err = lock.LockConversation("rest-1", "41760000000")
	require.NoError(t, err)
	assert.True(t, locked, "Expected other phone to be lockable")

	err = lock.UnlockConversation("rest-1", "41791234567")
	require.NoError(t, err)

	locked, err = lock.LockConversation("rest-1", "41791234567")
	require.NoError(t, err)
	assert.True(t, locked, "Expected conversation to be lockable after unlock")
}
