package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/piresc/ridetracker/internal/pkg/models"
)

// RedisClient represents a Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedisClient connects and pings the configured Redis
func NewRedisClient(config models.RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{Client: client}, nil
}

// WrapRedisClient adopts an existing client, used with miniredis and redismock
func WrapRedisClient(client *redis.Client) *RedisClient {
	return &RedisClient{Client: client}
}

// Ping checks the connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// HSetWithTTL writes hash fields as alternating name/value pairs and
// refreshes the key expiry. A zero ttl leaves the key persistent.
func (r *RedisClient) HSetWithTTL(ctx context.Context, key string, ttl time.Duration, values ...interface{}) error {
	if err := r.Client.HSet(ctx, key, values...).Err(); err != nil {
		return err
	}
	if ttl > 0 {
		return r.Client.Expire(ctx, key, ttl).Err()
	}
	return nil
}

// HGetAll reads a hash. A missing key yields an empty map.
func (r *RedisClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.Client.HGetAll(ctx, key).Result()
}

// Delete removes a key
func (r *RedisClient) Delete(ctx context.Context, key string) error {
	return r.Client.Del(ctx, key).Err()
}

// Close closes the Redis client
func (r *RedisClient) Close() error {
	return r.Client.Close()
}
