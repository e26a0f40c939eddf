package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// memoryEntry хранимое значение с метаданными для LRU и TTL
type memoryEntry struct {
	value      []byte
	expiresAt  time.Time // нулевое время - бессрочно
	lastAccess time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (e *memoryEntry) remainingTTL(now time.Time) time.Duration {
	if e.expiresAt.IsZero() {
		return -1
	}
	ttl := e.expiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// MemoryCache потокобезопасный in-process кэш с LRU вытеснением.
//
// Вытеснение срабатывает по двум лимитам: числу записей (MaxEntries)
// и суммарному размеру значений (MaxMemoryBytes). Просроченные записи
// удаляются фоновой очисткой; CleanupInterval <= 0 её отключает, тогда
// просроченные записи удаляются лениво при обращении.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry

	defaultTTL time.Duration
	maxEntries int
	maxBytes   int64
	usedBytes  int64

	hits   atomic.Int64
	misses atomic.Int64

	closed atomic.Bool
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewMemoryCache создаёт in-memory кэш по опциям
func NewMemoryCache(opts *Options) *MemoryCache {
	if opts == nil {
		opts = DefaultOptions()
	}

	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 100000
	}

	c := &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		defaultTTL: opts.DefaultTTL,
		maxEntries: maxEntries,
		maxBytes:   opts.MaxMemoryBytes,
		stopCh:     make(chan struct{}),
	}

	if opts.CleanupInterval > 0 {
		c.wg.Add(1)
		go c.cleanupLoop(opts.CleanupInterval)
	}

	return c
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, _, err := c.GetWithTTL(ctx, key)
	return value, err
}

func (c *MemoryCache) GetWithTTL(_ context.Context, key string) ([]byte, time.Duration, error) {
	if c.closed.Load() {
		return nil, 0, ErrCacheClosed
	}

	now := time.Now()

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && entry.expired(now) {
		c.removeLocked(key, entry)
		ok = false
	}
	if !ok {
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, 0, ErrKeyNotFound
	}
	entry.lastAccess = now
	value := append([]byte(nil), entry.value...)
	ttl := entry.remainingTTL(now)
	c.mu.Unlock()

	c.hits.Add(1)
	return value, ttl, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value, ttl, time.Now())
	return nil
}

// setLocked вставляет запись, вытесняя старые при превышении лимитов
func (c *MemoryCache) setLocked(key string, value []byte, ttl time.Duration, now time.Time) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if old, ok := c.entries[key]; ok {
		c.removeLocked(key, old)
	}

	size := int64(len(value))
	for len(c.entries) >= c.maxEntries || (c.maxBytes > 0 && c.usedBytes+size > c.maxBytes && len(c.entries) > 0) {
		if !c.evictOldestLocked() {
			break
		}
	}

	c.entries[key] = &memoryEntry{
		value:      append([]byte(nil), value...),
		expiresAt:  expiresAt,
		lastAccess: now,
	}
	c.usedBytes += size
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.removeLocked(key, entry)
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	return ok && !entry.expired(time.Now()), nil
}

func (c *MemoryCache) MGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		value, err := c.Get(ctx, key)
		if err == nil {
			result[key] = value
		}
	}
	return result, nil
}

func (c *MemoryCache) MSet(_ context.Context, entries map[string][]byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range entries {
		c.setLocked(key, value, ttl, now)
	}
	return nil
}

func (c *MemoryCache) MDelete(_ context.Context, keys []string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var deleted int64
	for _, key := range keys {
		if entry, ok := c.entries[key]; ok {
			c.removeLocked(key, entry)
			deleted++
		}
	}
	return deleted, nil
}

func (c *MemoryCache) Keys(_ context.Context, pattern string) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	var keys []string
	for key, entry := range c.entries {
		if !entry.expired(now) && globMatch(pattern, key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (c *MemoryCache) DeleteByPattern(_ context.Context, pattern string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var deleted int64
	for key, entry := range c.entries {
		if globMatch(pattern, key) {
			c.removeLocked(key, entry)
			deleted++
		}
	}
	return deleted, nil
}

func (c *MemoryCache) Stats(_ context.Context) (*Stats, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := &Stats{
		TotalKeys:    int64(len(c.entries)),
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		MemoryBytes:  c.usedBytes,
		KeysByPrefix: make(map[string]int64),
		Backend:      BackendMemory,
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}

	for key, entry := range c.entries {
		if !entry.expired(now) {
			stats.KeysByPrefix[keyPrefix(key)]++
		}
	}
	return stats, nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	c.entries = make(map[string]*memoryEntry)
	c.usedBytes = 0
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	close(c.stopCh)
	c.wg.Wait()

	c.mu.Lock()
	c.entries = nil
	c.usedBytes = 0
	c.mu.Unlock()
	return nil
}

// removeLocked удаляет запись и корректирует счётчик памяти
func (c *MemoryCache) removeLocked(key string, entry *memoryEntry) {
	delete(c.entries, key)
	c.usedBytes -= int64(len(entry.value))
}

// evictOldestLocked вытесняет наименее недавно использованную запись
func (c *MemoryCache) evictOldestLocked() bool {
	var victim string
	var victimEntry *memoryEntry

	for key, entry := range c.entries {
		if victimEntry == nil || entry.lastAccess.Before(victimEntry.lastAccess) {
			victim = key
			victimEntry = entry
		}
	}
	if victimEntry == nil {
		return false
	}
	c.removeLocked(victim, victimEntry)
	return true
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.expired(now) {
			c.removeLocked(key, entry)
		}
	}
}

// globMatch сопоставляет ключ с шаблоном вида "prefix*suffix".
// Поддерживается не более одной звёздочки; без неё сравнение точное.
func globMatch(pattern, key string) bool {
	prefix, suffix, found := strings.Cut(pattern, "*")
	if !found {
		return pattern == key
	}
	if len(key) < len(prefix)+len(suffix) {
		return false
	}
	return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix)
}

// keyPrefix возвращает сегмент ключа до первого ':' для группировки статистики
func keyPrefix(key string) string {
	if prefix, _, found := strings.Cut(key, ":"); found && prefix != "" {
		return prefix
	}
	return "other"
}
