package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newMemoryCache(t *testing.T, opts *Options) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(opts)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := newMemoryCache(t, &Options{DefaultTTL: time.Minute, MaxEntries: 100})
	ctx := context.Background()

	if err := c.Set(ctx, "solve:a", []byte("payload"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "solve:a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Get() = %q, want payload", got)
	}
}

func TestMemoryCache_GetNotFound(t *testing.T) {
	c := newMemoryCache(t, nil)

	if _, err := c.Get(context.Background(), "missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestMemoryCache_ValueIsCopied(t *testing.T) {
	c := newMemoryCache(t, nil)
	ctx := context.Background()

	original := []byte("payload")
	c.Set(ctx, "key", original, 0)
	original[0] = 'X'

	got, _ := c.Get(ctx, "key")
	if string(got) != "payload" {
		t.Errorf("stored value should not alias the caller's slice, got %q", got)
	}

	got[0] = 'Y'
	again, _ := c.Get(ctx, "key")
	if string(again) != "payload" {
		t.Errorf("returned value should not alias the stored slice, got %q", again)
	}
}

func TestMemoryCache_DeleteAndExists(t *testing.T) {
	c := newMemoryCache(t, nil)
	ctx := context.Background()

	c.Set(ctx, "key", []byte("value"), 0)

	exists, err := c.Exists(ctx, "key")
	if err != nil || !exists {
		t.Fatalf("Exists() = %v, %v; want true", exists, err)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	exists, _ = c.Exists(ctx, "key")
	if exists {
		t.Error("key should not exist after delete")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	// Без фоновой очистки: просроченные записи удаляются лениво
	c := newMemoryCache(t, &Options{CleanupInterval: -1})
	ctx := context.Background()

	c.Set(ctx, "key", []byte("value"), 50*time.Millisecond)

	if _, err := c.Get(ctx, "key"); err != nil {
		t.Fatalf("key should exist before expiry: %v", err)
	}

	time.Sleep(80 * time.Millisecond)

	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() after expiry = %v, want ErrKeyNotFound", err)
	}
}

func TestMemoryCache_GetWithTTL(t *testing.T) {
	c := newMemoryCache(t, nil)
	ctx := context.Background()

	c.Set(ctx, "key", []byte("value"), 5*time.Minute)

	value, ttl, err := c.GetWithTTL(ctx, "key")
	if err != nil {
		t.Fatalf("GetWithTTL() error = %v", err)
	}
	if string(value) != "value" {
		t.Errorf("value = %q", value)
	}
	if ttl <= 4*time.Minute || ttl > 5*time.Minute {
		t.Errorf("remaining ttl = %v", ttl)
	}
}

func TestMemoryCache_BatchOperations(t *testing.T) {
	c := newMemoryCache(t, nil)
	ctx := context.Background()

	err := c.MSet(ctx, map[string][]byte{
		"k1": []byte("v1"),
		"k2": []byte("v2"),
		"k3": []byte("v3"),
	}, 0)
	if err != nil {
		t.Fatalf("MSet() error = %v", err)
	}

	got, err := c.MGet(ctx, []string{"k1", "k2", "missing"})
	if err != nil {
		t.Fatalf("MGet() error = %v", err)
	}
	if len(got) != 2 || string(got["k1"]) != "v1" || string(got["k2"]) != "v2" {
		t.Errorf("MGet() = %v", got)
	}

	deleted, err := c.MDelete(ctx, []string{"k1", "k3", "missing"})
	if err != nil {
		t.Fatalf("MDelete() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("MDelete() = %d, want 2", deleted)
	}
}

func TestMemoryCache_PatternOperations(t *testing.T) {
	c := newMemoryCache(t, nil)
	ctx := context.Background()

	c.Set(ctx, "solve:edmonds_karp:aaa", []byte("1"), 0)
	c.Set(ctx, "solve:edmonds_karp:bbb", []byte("2"), 0)
	c.Set(ctx, "report:ccc", []byte("3"), 0)

	keys, err := c.Keys(ctx, "solve:*")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys() = %v, want 2 keys", keys)
	}

	deleted, err := c.DeleteByPattern(ctx, "solve:*")
	if err != nil {
		t.Fatalf("DeleteByPattern() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteByPattern() = %d, want 2", deleted)
	}

	if exists, _ := c.Exists(ctx, "report:ccc"); !exists {
		t.Error("unrelated key should survive pattern delete")
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := newMemoryCache(t, nil)
	ctx := context.Background()

	c.Set(ctx, "solve:a", []byte("12345"), 0)
	c.Set(ctx, "solve:b", []byte("67890"), 0)

	c.Get(ctx, "solve:a")
	c.Get(ctx, "solve:a")
	c.Get(ctx, "missing")

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalKeys != 2 {
		t.Errorf("TotalKeys = %d, want 2", stats.TotalKeys)
	}
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("Hits/Misses = %d/%d, want 2/1", stats.Hits, stats.Misses)
	}
	if stats.MemoryBytes != 10 {
		t.Errorf("MemoryBytes = %d, want 10", stats.MemoryBytes)
	}
	if stats.Backend != BackendMemory {
		t.Errorf("Backend = %s", stats.Backend)
	}
	if stats.KeysByPrefix["solve"] != 2 {
		t.Errorf("KeysByPrefix = %v", stats.KeysByPrefix)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := newMemoryCache(t, nil)
	ctx := context.Background()

	c.Set(ctx, "k1", []byte("v1"), 0)
	c.Set(ctx, "k2", []byte("v2"), 0)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	stats, _ := c.Stats(ctx)
	if stats.TotalKeys != 0 || stats.MemoryBytes != 0 {
		t.Errorf("after clear: keys=%d bytes=%d", stats.TotalKeys, stats.MemoryBytes)
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	c := newMemoryCache(t, &Options{MaxEntries: 3, DefaultTTL: time.Minute})
	ctx := context.Background()

	c.Set(ctx, "k1", []byte("v1"), 0)
	time.Sleep(5 * time.Millisecond)
	c.Set(ctx, "k2", []byte("v2"), 0)
	time.Sleep(5 * time.Millisecond)
	c.Set(ctx, "k3", []byte("v3"), 0)
	time.Sleep(5 * time.Millisecond)

	// Обращение делает k1 свежим, жертвой становится k2
	c.Get(ctx, "k1")

	c.Set(ctx, "k4", []byte("v4"), 0)

	if _, err := c.Get(ctx, "k2"); !errors.Is(err, ErrKeyNotFound) {
		t.Error("k2 should have been evicted")
	}
	if _, err := c.Get(ctx, "k1"); err != nil {
		t.Error("k1 should survive eviction")
	}
}

func TestMemoryCache_MemoryBudgetEviction(t *testing.T) {
	c := newMemoryCache(t, &Options{
		MaxEntries:     100,
		MaxMemoryBytes: 10,
		DefaultTTL:     time.Minute,
	})
	ctx := context.Background()

	c.Set(ctx, "k1", []byte("12345"), 0)
	time.Sleep(5 * time.Millisecond)
	c.Set(ctx, "k2", []byte("12345"), 0)
	time.Sleep(5 * time.Millisecond)

	// Третья запись не помещается в бюджет - вытесняется самая старая
	c.Set(ctx, "k3", []byte("12345"), 0)

	if _, err := c.Get(ctx, "k1"); !errors.Is(err, ErrKeyNotFound) {
		t.Error("k1 should have been evicted by the memory budget")
	}

	stats, _ := c.Stats(ctx)
	if stats.MemoryBytes > 10 {
		t.Errorf("MemoryBytes = %d, budget is 10", stats.MemoryBytes)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	c := NewMemoryCache(nil)
	ctx := context.Background()

	c.Set(ctx, "key", []byte("value"), 0)

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get() after close = %v, want ErrCacheClosed", err)
	}

	if err := c.Close(); err != nil {
		t.Errorf("double close error = %v", err)
	}
}

func TestGlobMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		key     string
		want    bool
	}{
		{"star_matches_anything", "*", "anything", true},
		{"prefix_match", "solve:*", "solve:abc", true},
		{"prefix_mismatch", "solve:*", "report:abc", false},
		{"suffix_match", "*:done", "solve:done", true},
		{"suffix_mismatch", "*:done", "solve:pending", false},
		{"exact_match", "exact", "exact", true},
		{"exact_mismatch", "exact", "other", false},
		{"middle_star", "solve:*:hash", "solve:edmonds_karp:hash", true},
		{"middle_star_empty", "solve:*:hash", "solve::hash", true},
		{"middle_star_wrong_suffix", "solve:*:hash", "solve:edmonds_karp:other", false},
		{"key_shorter_than_pattern", "prefix*suffix", "presuf", false},
		{"zero_width_star", "a*b", "ab", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := globMatch(tt.pattern, tt.key); got != tt.want {
				t.Errorf("globMatch(%q, %q) = %v, want %v", tt.pattern, tt.key, got, tt.want)
			}
		})
	}
}

func TestKeyPrefix(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"solve:key", "solve"},
		{"bare", "other"},
		{"a:b:c", "a"},
		{":empty", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := keyPrefix(tt.key); got != tt.want {
				t.Errorf("keyPrefix(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
