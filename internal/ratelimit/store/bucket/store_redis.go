package bucket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lifeclock/internal/ratelimit/models"
)

// slidingWindowScript trims, counts and conditionally records in one round
// trip. Scores are unix milliseconds. Returns {allowed, count, oldest}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  redis.call('PEXPIRE', key, window)
  count = count + 1
  allowed = 1
end
local oldest = now
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
  oldest = tonumber(first[2])
end
return {allowed, count, oldest}
`)

// RedisBucketStore shares sliding windows across server instances.
type RedisBucketStore struct {
	client *redis.Client
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (*models.Result, error) {
	nowMs := now.UnixMilli()
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()

	raw, err := slidingWindowScript.Run(ctx, s.client, []string{key},
		nowMs, window.Milliseconds(), limit, member).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(raw) != 3 {
		return nil, fmt.Errorf("rate limit script: unexpected reply %v", raw)
	}

	resetAt := time.UnixMilli(raw[2]).Add(window)
	return newResult(raw[0] == 1, limit, int(raw[1]), resetAt, now), nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("reset rate limit: %w", err)
	}
	return nil
}
