package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	isRevokedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lifeclock_is_token_revoked_duration_ms",
		Help:    "Latency of token revocation checks in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
)

const revokedTokenKeyPrefix = "trl:jti:"

// RedisTRL shares revocation state between server instances. Keys expire
// with the token so the list never outgrows the set of live tokens.
type RedisTRL struct {
	client redis.Cmdable
}

func NewRedisTRL(client redis.Cmdable) *RedisTRL {
	return &RedisTRL{client: client}
}

func (t *RedisTRL) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	return t.client.Set(ctx, revokedTokenKeyPrefix+jti, "1", ttl).Err()
}

func (t *RedisTRL) IsRevoked(ctx context.Context, jti string) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if jti == "" {
		return false, nil
	}
	err := t.client.Get(ctx, revokedTokenKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
