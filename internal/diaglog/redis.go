package diaglog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keys:
//
//	LIST  <prefix>         newest first, trimmed to the ring capacity
//	PUB   <prefix>:events  one message per entry
const DefaultRedisKey = "itemgate:diag"

// appendTimeout bounds a single mirror write so a slow Redis cannot stall requests.
const appendTimeout = 2 * time.Second

// RedisConfig is a minimal Redis connection config for the diagnostics mirror.
type RedisConfig struct {
	Addr     string `yaml:"addr"`     // host:port; empty disables the mirror
	Password string `yaml:"password"` // empty = no auth
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"` // default itemgate:diag
}

// RedisAppender mirrors diagnostic entries to Redis so they survive restarts
// and can be watched by other replicas.
type RedisAppender struct {
	client  *redis.Client
	key     string
	channel string
	max     int64
}

// NewRedisAppender connects lazily; the first Append dials.
func NewRedisAppender(cfg RedisConfig, maxEntries int) *RedisAppender {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return newRedisAppender(client, cfg.Key, maxEntries)
}

func newRedisAppender(client *redis.Client, key string, maxEntries int) *RedisAppender {
	if key == "" {
		key = DefaultRedisKey
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCapacity
	}
	return &RedisAppender{
		client:  client,
		key:     key,
		channel: key + ":events",
		max:     int64(maxEntries),
	}
}

// Append pushes the entry, trims the list and publishes it in one MULTI/EXEC.
func (a *RedisAppender) Append(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, appendTimeout)
	defer cancel()

	pipe := a.client.TxPipeline()
	pipe.LPush(ctx, a.key, payload)
	pipe.LTrim(ctx, a.key, 0, a.max-1)
	pipe.Publish(ctx, a.channel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis mirror failed: %w", err)
	}
	return nil
}

// Load returns the persisted entries oldest first, for Ring.Restore.
func (a *RedisAppender) Load(ctx context.Context) ([]Entry, error) {
	raw, err := a.client.LRange(ctx, a.key, 0, a.max-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis LRANGE failed: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var e Entry
		if err := json.Unmarshal([]byte(raw[i]), &e); err != nil {
			continue // foreign or corrupt element
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close closes the Redis client.
func (a *RedisAppender) Close() error {
	return a.client.Close()
}
