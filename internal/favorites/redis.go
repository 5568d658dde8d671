package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rtv:favorites:"

// RedisKV stores values in redis under a namespace. Entries never expire.
type RedisKV struct {
	client    redis.Cmdable
	namespace string
}

// NewRedisKV scopes client to namespace.
func NewRedisKV(client redis.Cmdable, namespace string) *RedisKV {
	return &RedisKV{client: client, namespace: redisKeyPrefix + namespace + ":"}
}

func (k *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := k.client.Get(ctx, k.namespace+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (k *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := k.client.Set(ctx, k.namespace+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (k *RedisKV) Remove(ctx context.Context, key string) error {
	if err := k.client.Del(ctx, k.namespace+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// NewRedisClient connects and pings with a short timeout.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
