package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// redisTestCache подключается к Redis из REDIS_TEST_ADDR или пропускает тест
func redisTestCache(t *testing.T) *RedisCache {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis tests")
	}

	c, err := NewRedisCache(&Options{
		Backend:       BackendRedis,
		RedisAddr:     addr,
		RedisPassword: os.Getenv("REDIS_TEST_PASSWORD"),
		DefaultTTL:    time.Minute,
	})
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	t.Cleanup(func() {
		c.Clear(context.Background())
		c.Close()
	})
	return c
}

func TestRedisCache_SetGet(t *testing.T) {
	c := redisTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "solve:test", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, err := c.Get(ctx, "solve:test")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(value) != "payload" {
		t.Errorf("Get() = %q, want payload", value)
	}
}

func TestRedisCache_NotFound(t *testing.T) {
	c := redisTestCache(t)

	if _, err := c.Get(context.Background(), "missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestRedisCache_PatternDelete(t *testing.T) {
	c := redisTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "solve:a", []byte("1"), time.Minute)
	c.Set(ctx, "solve:b", []byte("2"), time.Minute)
	c.Set(ctx, "report:c", []byte("3"), time.Minute)

	deleted, err := c.DeleteByPattern(ctx, "solve:*")
	if err != nil {
		t.Fatalf("DeleteByPattern() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteByPattern() = %d, want 2", deleted)
	}

	if exists, _ := c.Exists(ctx, "report:c"); !exists {
		t.Error("unrelated key should survive pattern delete")
	}
}

func TestRedisCache_Namespacing(t *testing.T) {
	c := redisTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "solve:ns", []byte("1"), time.Minute)

	keys, err := c.Keys(ctx, "solve:*")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}

	// Ключи возвращаются без служебного префикса
	for _, key := range keys {
		if key == "solve:ns" {
			return
		}
	}
	t.Errorf("Keys() = %v, want to contain solve:ns", keys)
}
