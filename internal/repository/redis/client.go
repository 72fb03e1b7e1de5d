package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// MoveCache keeps computed hard moves in Redis. It satisfies bot.MoveCache.
type MoveCache struct {
	client *redis.Client
}

// Connect dials Redis and checks it answers a PING before handing back the
// cache. The caller owns the result and must Close it.
func Connect(ctx context.Context, addr, password string) (*MoveCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &MoveCache{client: client}, nil
}

func (m *MoveCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key. A missing key is not an error: it yields "".
func (m *MoveCache) Get(ctx context.Context, key string) (string, error) {
	value, err := m.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

func (m *MoveCache) Close() error {
	return m.client.Close()
}
