package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"lifeclock/internal/lifespan/metrics"
	"lifeclock/internal/lifespan/models"
)

const (
	cacheKeyPrefix = "lifespan:stat:"
	// notFoundMarker caches a miss so unknown sex codes do not reach the database.
	notFoundMarker = "-"
)

// Reader is the lookup surface wrapped by RedisCache.
type Reader interface {
	FindLatest(ctx context.Context, sex models.Sex, notAfterYear int) (*models.Statistic, error)
	FindByYear(ctx context.Context, sex models.Sex, year int) (*models.Statistic, error)
}

// RedisCache is a read-through cache in front of a statistics Reader. Redis
// failures fall through to the underlying reader.
type RedisCache struct {
	next    Reader
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewRedisCache(next Reader, client *redis.Client, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{next: next, client: client, ttl: ttl, metrics: m, logger: logger}
}

func (c *RedisCache) FindLatest(ctx context.Context, sex models.Sex, notAfterYear int) (*models.Statistic, error) {
	key := cacheKeyPrefix + "latest:" + string(sex) + ":" + strconv.Itoa(notAfterYear)
	return c.lookup(ctx, key, func() (*models.Statistic, error) {
		return c.next.FindLatest(ctx, sex, notAfterYear)
	})
}

func (c *RedisCache) FindByYear(ctx context.Context, sex models.Sex, year int) (*models.Statistic, error) {
	key := cacheKeyPrefix + "year:" + string(sex) + ":" + strconv.Itoa(year)
	return c.lookup(ctx, key, func() (*models.Statistic, error) {
		return c.next.FindByYear(ctx, sex, year)
	})
}

// Invalidate drops every cached lookup. Called after seeding.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan statistic cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) lookup(ctx context.Context, key string, load func() (*models.Statistic, error)) (*models.Statistic, error) {
	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.metrics.RecordCacheHit()
		if raw == notFoundMarker {
			return nil, ErrNotFound
		}
		var st models.Statistic
		if jsonErr := json.Unmarshal([]byte(raw), &st); jsonErr == nil {
			return &st, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt statistic cache entry", "key", key)
	case errors.Is(err, redis.Nil):
		c.metrics.RecordCacheMiss()
	default:
		c.metrics.RecordCacheError()
		c.logger.WarnContext(ctx, "statistic cache unavailable", "key", key, "error", err)
		return load()
	}

	st, err := load()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	value, encErr := encodeEntry(st)
	if encErr != nil {
		c.logger.WarnContext(ctx, "not caching unencodable statistic", "key", key, "error", encErr)
		return st, err
	}
	if setErr := c.client.Set(ctx, key, value, c.ttl).Err(); setErr != nil {
		c.logger.WarnContext(ctx, "failed to populate statistic cache", "key", key, "error", setErr)
	}
	return st, err
}

// encodeEntry renders a lookup result as a cache value. A nil statistic is
// cached as the not-found marker.
func encodeEntry(st *models.Statistic) (string, error) {
	if st == nil {
		return notFoundMarker, nil
	}
	encoded, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("encode statistic: %w", err)
	}
	return string(encoded), nil
}
