package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisScanBatch размер пачки ключей при итерации SCAN
const redisScanBatch = 500

// RedisCache кэш на Redis. Все ключи живут в пространстве имён
// "netflow:", поэтому Clear не трогает чужие данные в той же базе.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
	namespace  string
}

// NewRedisCache создаёт кэш и проверяет соединение
func NewRedisCache(opts *Options) (*RedisCache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	poolSize := opts.RedisPoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
		PoolSize: poolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCache{
		client:     client,
		defaultTTL: opts.DefaultTTL,
		namespace:  "netflow:",
	}, nil
}

// qualify переводит ключ в пространство имён кэша
func (c *RedisCache) qualify(key string) string {
	return c.namespace + key
}

// unqualify убирает пространство имён из ключа Redis
func (c *RedisCache) unqualify(key string) string {
	return strings.TrimPrefix(key, c.namespace)
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, c.qualify(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.client.Set(ctx, c.qualify(key), value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.qualify(key)).Err()
}

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.qualify(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisCache) GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, error) {
	qualified := c.qualify(key)

	pipe := c.client.Pipeline()
	getCmd := pipe.Get(ctx, qualified)
	ttlCmd := pipe.TTL(ctx, qualified)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, err
	}

	value, err := getCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, ErrKeyNotFound
	}
	if err != nil {
		return nil, 0, err
	}

	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = 0
	}
	return value, ttl, nil
}

func (c *RedisCache) MGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	qualified := make([]string, len(keys))
	for i, key := range keys {
		qualified[i] = c.qualify(key)
	}

	values, err := c.client.MGet(ctx, qualified...).Result()
	if err != nil {
		return nil, err
	}
	for i, value := range values {
		if str, ok := value.(string); ok {
			result[keys[i]] = []byte(str)
		}
	}
	return result, nil
}

func (c *RedisCache) MSet(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	pipe := c.client.Pipeline()
	for key, value := range entries {
		pipe.Set(ctx, c.qualify(key), value, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisCache) MDelete(ctx context.Context, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	qualified := make([]string, len(keys))
	for i, key := range keys {
		qualified[i] = c.qualify(key)
	}
	return c.client.Del(ctx, qualified...).Result()
}

// scanKeys итерирует ключи по шаблону через SCAN, не блокируя Redis
func (c *RedisCache) scanKeys(ctx context.Context, pattern string, fn func(keys []string) error) error {
	iter := c.client.Scan(ctx, 0, c.qualify(pattern), redisScanBatch).Iterator()

	batch := make([]string, 0, redisScanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == redisScanBatch {
			if err := fn(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}

func (c *RedisCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	err := c.scanKeys(ctx, pattern, func(batch []string) error {
		for _, key := range batch {
			keys = append(keys, c.unqualify(key))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *RedisCache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	err := c.scanKeys(ctx, pattern, func(batch []string) error {
		n, err := c.client.Del(ctx, batch...).Result()
		deleted += n
		return err
	})
	return deleted, err
}

func (c *RedisCache) Stats(ctx context.Context) (*Stats, error) {
	info, err := c.client.Info(ctx, "stats", "memory").Result()
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		KeysByPrefix: make(map[string]int64),
		Backend:      BackendRedis,
	}

	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "keyspace_hits:"):
			readInfoValue(line, &stats.Hits)
		case strings.HasPrefix(line, "keyspace_misses:"):
			readInfoValue(line, &stats.Misses)
		case strings.HasPrefix(line, "used_memory:"):
			readInfoValue(line, &stats.MemoryBytes)
		}
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}

	// Считаем только свои ключи
	err = c.scanKeys(ctx, "*", func(batch []string) error {
		stats.TotalKeys += int64(len(batch))
		for _, key := range batch {
			stats.KeysByPrefix[keyPrefix(c.unqualify(key))]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// readInfoValue разбирает строку "name:value" из ответа INFO, ошибки игнорируются
func readInfoValue(line string, target *int64) {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return
	}
	if _, err := fmt.Sscanf(value, "%d", target); err != nil {
		return
	}
}

// Clear удаляет все ключи кэша, не трогая остальную базу
func (c *RedisCache) Clear(ctx context.Context) error {
	_, err := c.DeleteByPattern(ctx, "*")
	return err
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
