package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient implements Client on a Redis server. Ordered sets map to sorted
// sets scored by insertion time, hashes map to Redis hashes; both give the
// per-key atomicity the session store and identity cache count on.
type redisClient struct {
	client *redis.Client
}

// RedisConfig holds the connection settings for the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects to Redis and verifies the connection before returning.
func NewRedis(cfg RedisConfig) (Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("kv: redis ping failed: %w", err)
	}

	return &redisClient{client: rdb}, nil
}

func (c *redisClient) OrderedAdd(ctx context.Context, key, member string, at time.Time) error {
	return c.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(at.UnixNano()),
		Member: member,
	}).Err()
}

func (c *redisClient) Remove(ctx context.Context, key, member string) error {
	return c.client.ZRem(ctx, key, member).Err()
}

func (c *redisClient) Contains(ctx context.Context, key, member string) (bool, error) {
	_, err := c.client.ZScore(ctx, key, member).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisClient) Members(ctx context.Context, key string) ([]string, error) {
	return c.client.ZRange(ctx, key, 0, -1).Result()
}

func (c *redisClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

func (c *redisClient) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *redisClient) HashSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	args := make([]any, 0, len(fields)*2)
	for f, v := range fields {
		args = append(args, f, v)
	}
	return c.client.HSet(ctx, key, args...).Err()
}

func (c *redisClient) HashGet(ctx context.Context, key, field string) (string, error) {
	val, err := c.client.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *redisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisClient) Close() error {
	return c.client.Close()
}
