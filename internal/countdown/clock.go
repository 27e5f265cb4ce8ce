package countdown

import "time"

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// RealClock is backed by time.Ticker.
type RealClock struct{}

func (RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }
