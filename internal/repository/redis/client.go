package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "okboz:"

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// NewClient connects to Redis and checks the connection with a ping.
func NewClient(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	res, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	slog.Info("Redis connected", "addr", opts.Addr, "ping", res)
	return client, nil
}

var errCacheMiss = errors.New("cache miss")

// getJSON decodes the value stored at key into target. A missing key is
// reported as errCacheMiss.
func getJSON(ctx context.Context, rdb goredis.Cmdable, key string, target interface{}) error {
	data, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return errCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func setJSON(ctx context.Context, rdb goredis.Cmdable, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, data, ttl).Err()
}
