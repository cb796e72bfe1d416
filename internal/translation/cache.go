package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"codeberg.org/snonux/geet/internal/logger"
	"codeberg.org/snonux/geet/internal/song"
)

const cacheKeyPrefix = "geet:translation:"

// Cache stores translated lines keyed by CacheKey
type Cache interface {
	Get(ctx context.Context, key string) ([]song.Line, bool, error)
	Set(ctx context.Context, key string, lines []song.Line) error
}

// CacheKey returns the cache key for a lyrics text. Surrounding whitespace
// does not change the key.
func CacheKey(lyrics string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(lyrics)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// MemoryCache keeps translations in memory for the lifetime of the process
type MemoryCache struct {
	mu    sync.RWMutex
	lines map[string][]song.Line
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		lines: make(map[string][]song.Line),
	}
}

// Get returns a copy of the cached lines
func (c *MemoryCache) Get(_ context.Context, key string) ([]song.Line, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lines, ok := c.lines[key]
	if !ok {
		return nil, false, nil
	}
	return append([]song.Line(nil), lines...), true, nil
}

// Set stores a copy of lines under key
func (c *MemoryCache) Set(_ context.Context, key string, lines []song.Line) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines[key] = append([]song.Line(nil), lines...)
	return nil
}

// Len returns the number of cached translations
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

// RedisCache shares translations between processes through Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get reads and decodes cached lines
func (c *RedisCache) Get(ctx context.Context, key string) ([]song.Line, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var lines []song.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return lines, true, nil
}

// Set encodes lines and stores them with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, lines []song.Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedTranslator consults a cache before calling the wrapped translator.
// Cache failures are logged and never fail a translation.
type CachedTranslator struct {
	next  Translator
	cache Cache
}

// NewCachedTranslator wraps next with cache
func NewCachedTranslator(next Translator, cache Cache) *CachedTranslator {
	return &CachedTranslator{next: next, cache: cache}
}

// Name returns the wrapped provider name
func (t *CachedTranslator) Name() string {
	return t.next.Name()
}

// Translate returns cached lines when present, otherwise translates and stores
func (t *CachedTranslator) Translate(ctx context.Context, lyrics string) ([]song.Line, error) {
	if err := ValidateLyrics(lyrics); err != nil {
		return nil, err
	}

	key := CacheKey(lyrics)
	lines, ok, err := t.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("translation cache read failed", logger.String("key", key), logger.Err(err))
	}
	if ok {
		logger.Debug("translation cache hit", logger.String("key", key))
		return lines, nil
	}

	lines, err = t.next.Translate(ctx, lyrics)
	if err != nil {
		return nil, err
	}

	if err := t.cache.Set(ctx, key, lines); err != nil {
		logger.Warn("translation cache write failed", logger.String("key", key), logger.Err(err))
	}
	return lines, nil
}
