// Package cache реализует кэширование результатов расчётов:
// in-memory бэкенд с LRU вытеснением и бэкенд на Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"netflow/pkg/config"
)

// Поддерживаемые бэкенды
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var (
	// ErrKeyNotFound ключ отсутствует в кэше
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed операция над закрытым кэшем
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache общий контракт для всех бэкендов кэша.
//
// Значения хранятся как байтовые срезы, сериализация на стороне
// вызывающего. ttl <= 0 означает TTL по умолчанию из опций.
// Шаблоны в Keys и DeleteByPattern поддерживают одну звёздочку
// ("solve:*", "*:hash").
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// GetWithTTL возвращает значение и оставшееся время жизни
	GetWithTTL(ctx context.Context, key string) (value []byte, ttl time.Duration, err error)

	// Пакетные операции; отсутствующие ключи в MGet молча пропускаются
	MGet(ctx context.Context, keys []string) (map[string][]byte, error)
	MSet(ctx context.Context, entries map[string][]byte, ttl time.Duration) error
	MDelete(ctx context.Context, keys []string) (int64, error)

	// Операции по шаблону обходят все ключи, на больших кэшах дорого
	Keys(ctx context.Context, pattern string) ([]string, error)
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)

	Stats(ctx context.Context) (*Stats, error)
	Clear(ctx context.Context) error
	Close() error
}

// Stats срез состояния кэша
type Stats struct {
	TotalKeys    int64
	Hits         int64
	Misses       int64
	HitRate      float64
	MemoryBytes  int64
	KeysByPrefix map[string]int64 // ключи, сгруппированные по сегменту до ':'
	Backend      string
}

// Options параметры создания кэша
type Options struct {
	Backend    string
	DefaultTTL time.Duration

	// Только для memory
	MaxEntries      int
	MaxMemoryBytes  int64
	CleanupInterval time.Duration // <= 0 отключает фоновую очистку

	// Только для redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// DefaultOptions опции по умолчанию: memory, TTL 5 минут
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		DefaultTTL:      5 * time.Minute,
		MaxEntries:      100000,
		MaxMemoryBytes:  256 * 1024 * 1024,
		CleanupInterval: 1 * time.Minute,
		RedisAddr:       "localhost:6379",
		RedisDB:         0,
		RedisPoolSize:   10,
	}
}

// FromConfig создаёт опции из конфигурации приложения
func FromConfig(cfg *config.CacheConfig) *Options {
	return &Options{
		Backend:       cfg.Driver,
		DefaultTTL:    cfg.DefaultTTL,
		MaxEntries:    cfg.MaxEntries,
		RedisAddr:     cfg.Address(),
		RedisPassword: cfg.Password,
		RedisDB:       cfg.DB,
		RedisPoolSize: 10,
	}
}

// New создаёт кэш по опциям; неизвестный бэкенд откатывается на memory
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if opts.Backend == BackendRedis {
		return NewRedisCache(opts)
	}
	return NewMemoryCache(opts), nil
}

// MustNew создаёт кэш или паникует
func MustNew(opts *Options) Cache {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}
