package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis serializes conversation creation per restaurant+phone pair. Without
// the lock, two near-simultaneous inbound messages can both miss the lookup
// and insert duplicate conversation rows.
type Redis struct {
	Client *redis.Client
	Logger *log.Logger
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		Client: client,
		Logger: log.Default(),
	}
}

// getConversationLockDuration returns the lock TTL from the environment or
// the default. The TTL is a crash fallback; normal flow releases explicitly.
func (r *Redis) getConversationLockDuration() time.Duration {
	defaultDuration := 10 * time.Second

	lockTTLStr := os.Getenv("WA_CONV_LOCK_TTL_SECONDS")
	if lockTTLStr == "" {
		return defaultDuration
	}

	lockTTLSec, err := strconv.Atoi(lockTTLStr)
	if err != nil {
		r.Logger.Println("REDIS: Invalid WA_CONV_LOCK_TTL_SECONDS value '" + lockTTLStr + "', using default 10 seconds")
		return defaultDuration
	}

	return time.Duration(lockTTLSec) * time.Second
}

func lockKey(restaurantID, phone string) string {
	return fmt.Sprintf("wa_conv_lock:%s:%s", restaurantID, phone)
}

// LockConversation takes the per-conversation lock. Returns false when
// another webhook delivery holds it.
func (r *Redis) LockConversation(restaurantID, phone string) (bool, error) {
	key := lockKey(restaurantID, phone)
	ok, err := r.Client.SetNX(context.Background(), key, "locked", r.getConversationLockDuration()).Result()
	return ok, err
}

// UnlockConversation releases the lock.
func (r *Redis) UnlockConversation(restaurantID, phone string) error {
	_, err := r.Client.Del(context.Background(), lockKey(restaurantID, phone)).Result()
	return err
}
