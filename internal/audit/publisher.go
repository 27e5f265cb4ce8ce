package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"lifeclock/pkg/requestcontext"
)

// DefaultBufferSize bounds the number of events waiting for the worker.
const DefaultBufferSize = 256

// Publisher queues events for a Worker. Emit never blocks the request path:
// when the buffer is full the event is logged and dropped.
type Publisher struct {
	mu      sync.RWMutex
	inbox   chan Event
	closed  bool
	dropped atomic.Int64
	logger  *slog.Logger
}

func NewPublisher(bufferSize int, logger *slog.Logger) *Publisher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		inbox:  make(chan Event, bufferSize),
		logger: logger,
	}
}

// Emit fills in timestamp and request id from ctx and enqueues the event.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.drop(ctx, event, "publisher closed")
		return
	}
	select {
	case p.inbox <- event:
	default:
		p.drop(ctx, event, "buffer full")
	}
}

func (p *Publisher) drop(ctx context.Context, event Event, reason string) {
	p.dropped.Add(1)
	p.logger.WarnContext(ctx, "audit event dropped",
		"reason", reason,
		"event", string(event.Type),
		"user_id", event.UserID,
		"request_id", event.RequestID,
	)
}

// Events is the channel a Worker drains.
func (p *Publisher) Events() <-chan Event {
	return p.inbox
}

// Dropped reports how many events were discarded.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close stops accepting events. The worker drains what is queued and exits.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}
