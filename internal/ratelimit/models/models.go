package models

import (
	"fmt"
	"time"
)

// EndpointClass groups routes that share a request budget.
type EndpointClass string

const (
	// ClassAuth covers signup and token creation.
	ClassAuth EndpointClass = "auth"
	// ClassRead covers the public lifespan lookup.
	ClassRead EndpointClass = "read"
)

func (c EndpointClass) IsValid() bool {
	return c == ClassAuth || c == ClassRead
}

// Limit is a request budget over a sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is in whole seconds and only set when not allowed.
	RetryAfter int
}

// IPKey is the bucket key for a client IP within a class.
func IPKey(class EndpointClass, ip string) string {
	return fmt.Sprintf("ratelimit:ip:%s:%s", class, ip)
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
}
