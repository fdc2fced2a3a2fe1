package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Open connects to Redis from a URL and verifies the connection. An
// empty URL returns a nil client; callers treat that as cache disabled.
func Open(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
