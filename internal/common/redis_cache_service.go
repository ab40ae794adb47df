package common

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"smartgrid/wattson/internal/logging"
)

// RedisCacheService implements CacheInterface using Redis, so cached
// vendor readings survive restarts and are shared between replicas
type RedisCacheService struct {
	client *redis.Client
	ctx    context.Context
}

// Ensure RedisCacheService implements CacheInterface
var _ CacheInterface = (*RedisCacheService)(nil)

// NewRedisClient builds a Redis client from REDIS_HOST/REDIS_PORT/
// REDIS_PASSWORD with local-development defaults
func NewRedisClient() *redis.Client {
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}

	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}

	return redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}

// NewRedisCacheService connects to Redis and verifies the connection
func NewRedisCacheService() (*RedisCacheService, error) {
	client := NewRedisClient()
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("Redis cache connected", "addr", client.Options().Addr)
	return &RedisCacheService{client: client, ctx: ctx}, nil
}

// Client exposes the underlying Redis client for health probes
func (rc *RedisCacheService) Client() *redis.Client {
	return rc.client
}

func (rc *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Error("Failed to marshal cache value", "key", key, "error", err.Error())
		return
	}
	if err := rc.client.Set(rc.ctx, key, data, duration).Err(); err != nil {
		logging.Error("Failed to store cache value", "key", key, "error", err.Error())
	}
}

func (rc *RedisCacheService) Get(key string) (interface{}, bool) {
	val, err := rc.client.Get(rc.ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logging.Error("Redis get failed", "key", key, "error", err.Error())
		}
		return nil, false
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(val), &decoded); err != nil {
		logging.Error("Failed to unmarshal cache value", "key", key, "error", err.Error())
		return nil, false
	}
	return decoded, true
}

func (rc *RedisCacheService) Delete(key string) {
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		logging.Error("Redis delete failed", "key", key, "error", err.Error())
	}
}

func (rc *RedisCacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error),
) (interface{}, error) {
	if val, found := rc.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	rc.Set(key, val, duration)
	return val, nil
}

// Close closes the Redis connection
func (rc *RedisCacheService) Close() error {
	return rc.client.Close()
}
