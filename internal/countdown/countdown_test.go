package countdown

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.stopped.Store(true) }

type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (c *manualClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *manualClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *manualClock) last() *manualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[len(c.tickers)-1]
}

type recordingDisplay struct {
	frames chan State
}

func newRecordingDisplay() *recordingDisplay {
	return &recordingDisplay{frames: make(chan State, 64)}
}

func (d *recordingDisplay) Render(s State) { d.frames <- s }

type CountdownSuite struct {
	suite.Suite
	clock   *manualClock
	display *recordingDisplay
	cd      *Countdown
}

func TestCountdownSuite(t *testing.T) {
	suite.Run(t, new(CountdownSuite))
}

func (s *CountdownSuite) SetupTest() {
	s.clock = &manualClock{}
	s.display = newRecordingDisplay()
	s.cd = New(s.display,
		WithClock(s.clock),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *CountdownSuite) TearDownTest() {
	s.cd.Cancel()
}

func (s *CountdownSuite) next() State {
	select {
	case st := <-s.display.frames:
		return st
	case <-time.After(2 * time.Second):
		s.FailNow("no frame published")
		return State{}
	}
}

func (s *CountdownSuite) tick() {
	select {
	case s.clock.last().ch <- time.Time{}:
	case <-time.After(2 * time.Second):
		s.FailNow("ticker not consumed")
	}
}

func (s *CountdownSuite) waitDone() {
	select {
	case <-s.cd.Done():
	case <-time.After(2 * time.Second):
		s.FailNow("countdown did not stop")
	}
}

func (s *CountdownSuite) TestZeroSeedFreezesAtZero() {
	s.cd.Start(0)

	st := s.next()
	s.Equal(PhaseCounting, st.Phase)
	s.Equal(Breakdown{}, st.Breakdown)
	s.Equal([6]string{"00", "00", "00", "00", "00", "00"}, st.Breakdown.Fields())
	s.Zero(s.clock.count(), "no ticker for a zero seed")
	s.False(s.cd.Running())
}

func (s *CountdownSuite) TestNegativeSeedIsExceeded() {
	s.cd.Start(-100)

	st := s.next()
	s.Equal(PhaseExceeded, st.Phase)
	s.Equal(Breakdown{}, st.Breakdown)
	s.Zero(s.clock.count())
	s.False(s.cd.Running())
}

func (s *CountdownSuite) TestInitialBreakdown() {
	s.cd.Start(90061)

	st := s.next()
	s.Equal(Breakdown{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}, st.Breakdown)
	s.True(s.cd.Running())
}

func (s *CountdownSuite) TestTicksDownToZeroThenStops() {
	s.cd.Start(3)
	s.Equal(int64(3), s.next().Remaining)

	for _, want := range []int64{2, 1, 0} {
		s.tick()
		st := s.next()
		s.Equal(want, st.Remaining)
		s.Equal(PhaseCounting, st.Phase)
	}

	s.waitDone()
	s.True(s.clock.last().stopped.Load())
	s.Equal(PhaseCounting, s.cd.State().Phase, "zero never transitions to exceeded")
	s.Empty(s.display.frames)
}

func (s *CountdownSuite) TestCancelIsIdempotent() {
	s.cd.Start(1000)
	s.next()

	s.cd.Cancel()
	s.cd.Cancel()

	s.False(s.cd.Running())
	s.True(s.clock.last().stopped.Load())
	s.Empty(s.display.frames)
}

func (s *CountdownSuite) TestCancelWithoutStart() {
	s.NotPanics(func() { s.cd.Cancel() })
	s.Equal(PhaseLoading, s.cd.State().Phase)
}

func (s *CountdownSuite) TestReseedDisposesPreviousTicker() {
	s.cd.Start(1000)
	s.next()
	first := s.clock.last()

	s.cd.Start(50)
	s.Equal(int64(50), s.next().Remaining)

	s.True(first.stopped.Load())
	s.Equal(2, s.clock.count())
	s.tick()
	s.Equal(int64(49), s.next().Remaining)
}

func (s *CountdownSuite) TestConcurrentStartsKeepOneTicker() {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			s.cd.Start(seed)
		}(int64(100 + i))
	}
	wg.Wait()
	s.True(s.cd.Running())

	s.cd.Cancel()
	s.False(s.cd.Running())
	s.Equal(16, s.clock.count())
	s.clock.mu.Lock()
	defer s.clock.mu.Unlock()
	for i, t := range s.clock.tickers {
		s.True(t.stopped.Load(), "ticker %d still running", i)
	}
}

func (s *CountdownSuite) TestMount() {
	s.Run("successful fetch starts counting", func() {
		err := s.cd.Mount(context.Background(), func(context.Context) (int64, error) {
			return 61, nil
		})
		s.Require().NoError(err)
		s.Equal(PhaseLoading, s.next().Phase)
		st := s.next()
		s.Equal(PhaseCounting, st.Phase)
		s.Equal(Breakdown{Minutes: 1, Seconds: 1}, st.Breakdown)
	})

	s.Run("failed fetch shows failure and never ticks", func() {
		s.cd.Cancel()
		before := s.clock.count()
		err := s.cd.Mount(context.Background(), func(context.Context) (int64, error) {
			return 0, errors.New("connection refused")
		})
		s.Require().Error(err)
		s.Equal(PhaseLoading, s.next().Phase)
		s.Equal(PhaseFailed, s.next().Phase)
		s.Equal(before, s.clock.count())
		s.False(s.cd.Running())
	})
}

func TestRealClockCountdown(t *testing.T) {
	if testing.Short() {
		t.Skip("uses the real clock")
	}
	display := newRecordingDisplay()
	cd := New(display, WithInterval(10*time.Millisecond))
	cd.Start(2)

	var got []int64
	for range 3 {
		select {
		case st := <-display.frames:
			got = append(got, st.Remaining)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for frame")
		}
	}
	<-cd.Done()
	if len(got) != 3 || got[0] != 2 || got[2] != 0 {
		t.Fatalf("unexpected frames %v", got)
	}
}
