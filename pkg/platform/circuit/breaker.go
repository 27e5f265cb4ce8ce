// Package circuit implements a consecutive-failure circuit breaker.
package circuit

import "sync"

type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// StateChange reports a transition caused by a Record call.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker opens after FailureThreshold consecutive failures and closes again
// after SuccessThreshold consecutive successes.
type Breaker struct {
	name             string
	failureThreshold int
	successThreshold int

	mu           sync.Mutex
	state        State
	failureCount int
	successCount int
}

type Option func(*Breaker)

func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// New returns a closed breaker. Defaults: open after 5 failures, close after
// 3 successes.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{name: name, failureThreshold: 5, successThreshold: 3}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

// RecordFailure counts a failed primary call. useFallback is true while the
// breaker is open.
func (b *Breaker) RecordFailure() (useFallback bool, change StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	b.successCount = 0
	if b.state == StateOpen {
		return true, StateChange{}
	}
	if b.failureCount >= b.failureThreshold {
		b.state = StateOpen
		return true, StateChange{Opened: true}
	}
	return false, StateChange{}
}

// RecordSuccess counts a successful primary call. usePrimary is false while
// the breaker is still open.
func (b *Breaker) RecordSuccess() (usePrimary bool, change StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateClosed {
		b.failureCount = 0
		return true, StateChange{}
	}
	b.successCount++
	if b.successCount >= b.successThreshold {
		b.state = StateClosed
		b.failureCount = 0
		b.successCount = 0
		return true, StateChange{Closed: true}
	}
	return false, StateChange{}
}

// Reset closes the breaker and clears both counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
}
