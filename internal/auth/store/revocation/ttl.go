package revocation

import (
	"errors"
	"time"
)

// ErrInvalidTTL is returned when a revocation would expire immediately.
var ErrInvalidTTL = errors.New("revocation ttl must be positive")

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	return nil
}
