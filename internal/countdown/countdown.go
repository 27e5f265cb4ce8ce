package countdown

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Phase is the lifecycle stage of a countdown.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseCounting
	PhaseExceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseCounting:
		return "counting"
	case PhaseExceeded:
		return "exceeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is one published frame.
type State struct {
	Phase     Phase
	Breakdown Breakdown
	// Remaining is the working value the breakdown was computed from.
	Remaining int64
}

// Display receives every published state, always from one goroutine at a
// time. Render must not call Start or Cancel on the same Countdown.
type Display interface {
	Render(State)
}

// SeedFetcher retrieves the initial remaining seconds. Any error is shown as
// "no data".
type SeedFetcher func(ctx context.Context) (int64, error)

// Countdown owns at most one ticking goroutine.
type Countdown struct {
	display  Display
	clock    Clock
	interval time.Duration
	logger   *slog.Logger

	// lifecycle serializes Start and Cancel so only one goroutine is ever owned.
	lifecycle sync.Mutex

	mu    sync.Mutex
	state State
	stop  chan struct{}
	done  chan struct{}
}

type Option func(*Countdown)

// WithClock replaces the real clock.
func WithClock(clock Clock) Option {
	return func(c *Countdown) {
		c.clock = clock
	}
}

func WithInterval(d time.Duration) Option {
	return func(c *Countdown) {
		c.interval = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Countdown) {
		c.logger = logger
	}
}

// New constructs a countdown in the loading phase. Nothing is rendered until
// Mount or Start.
func New(display Display, opts ...Option) *Countdown {
	c := &Countdown{
		display:  display,
		clock:    RealClock{},
		interval: time.Second,
		logger:   slog.Default(),
		state:    State{Phase: PhaseLoading},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount shows the loading state, fetches the seed and starts counting. A fetch
// error moves the countdown to PhaseFailed and is returned; no ticking occurs.
func (c *Countdown) Mount(ctx context.Context, fetch SeedFetcher) error {
	c.Cancel()
	c.publish(State{Phase: PhaseLoading})

	seed, err := fetch(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "countdown seed unavailable", "error", err)
		c.publish(State{Phase: PhaseFailed})
		return err
	}
	c.Start(seed)
	return nil
}

// Start cancels any running countdown and begins a new one from seed. A
// negative seed is terminal (PhaseExceeded). The first frame is published
// before Start returns; a zero seed publishes all-zero fields and schedules
// nothing.
func (c *Countdown) Start(seed int64) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	c.cancel()

	if seed < 0 {
		c.publish(State{Phase: PhaseExceeded, Remaining: seed})
		return
	}

	c.publish(State{Phase: PhaseCounting, Breakdown: Decompose(seed), Remaining: seed})
	if seed == 0 {
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	ticker := c.clock.NewTicker(c.interval)

	c.mu.Lock()
	c.stop, c.done = stop, done
	c.mu.Unlock()

	go c.run(seed-1, ticker, stop, done)
}

func (c *Countdown) run(value int64, ticker Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
		}
		select {
		case <-stop:
			return
		default:
		}

		c.publish(State{Phase: PhaseCounting, Breakdown: Decompose(value), Remaining: value})
		if value == 0 {
			return
		}
		value--
	}
}

// Cancel stops the ticking goroutine and waits for it to exit. Safe to call
// any number of times.
func (c *Countdown) Cancel() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	c.cancel()
}

func (c *Countdown) cancel() {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether a ticking goroutine is alive.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Done is closed once the current countdown has stopped ticking, either at
// zero or on Cancel. It is already closed when nothing is running.
func (c *Countdown) Done() <-chan struct{} {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return done
}

// State returns the last published state.
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Countdown) publish(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if c.display != nil {
		c.display.Render(s)
	}
}
