package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/udonggeum-variants/config"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// Cache stores JSON documents under a key prefix with a fixed TTL.
type Cache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewCache(c redis.Cmdable, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: c, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(name string) string {
	return c.prefix + ":" + name
}

// GetJSON decodes the cached document into dest. The bool is false on a miss.
func (c *Cache) GetJSON(ctx context.Context, name string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to read cache entry", err, map[string]interface{}{
			"key": c.key(name),
		})
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		// a payload we cannot decode is treated as a miss and overwritten later
		logger.Warn("Discarding undecodable cache entry", map[string]interface{}{
			"key":   c.key(name),
			"error": err.Error(),
		})
		return false, nil
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, name string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", name, err)
	}

	if err := c.client.Set(ctx, c.key(name), raw, c.ttl).Err(); err != nil {
		logger.Error("Failed to write cache entry", err, map[string]interface{}{
			"key": c.key(name),
		})
		return err
	}
	return nil
}

// Delete removes the named entries.
func (c *Cache) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, c.key(n))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Error("Failed to delete cache entries", err, map[string]interface{}{
			"keys": keys,
		})
		return err
	}

	logger.Debug("Cache entries invalidated", map[string]interface{}{
		"keys": keys,
	})
	return nil
}
