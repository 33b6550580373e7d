package redis

import (
	"fmt"
	"log"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return client, mr
}

func cleanupTestRedis(client *redis.Client, mr *miniredis.Miniredis) {
	if client != nil {
		client.Close()
	}
	if mr != nil {
		mr.Close()
	}
}

func TestLockConversation_MutualExclusion(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := &Redis{Client: client, Logger: log.Default()}

	ok, err := r.LockConversation("rest-1", "41791234567")
	require.NoError(t, err)
	assert.True(t, ok, "First lock should succeed")

	ok, err = r.LockConversation("rest-1", "41791234567")
	require.NoError(t, err)
	assert.False(t, ok, "Second lock on same conversation should fail")

	// A different phone is an independent lock
	ok, err = r.LockConversation("rest-1", "41799999999")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, r.UnlockConversation("rest-1", "41791234567"))

	ok, err = r.LockConversation("rest-1", "41791234567")
	require.NoError(t, err)
	assert.True(t, ok, "Lock should succeed after release")
}

func TestLockConversation_ConcurrentDeliveries(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := &Redis{Client: client, Logger: log.Default()}

	const numGoroutines = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ok, err := r.LockConversation("rest-1", "41791234567")
			if err == nil && ok {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successCount, fmt.Sprintf("Exactly one of %d concurrent deliveries should win the lock", numGoroutines))
}
