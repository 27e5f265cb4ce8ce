package audit

import (
	"context"
	"log/slog"
)

// Sink persists or forwards a single event.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// Worker consumes audit events from a channel and hands them to a Sink.
// Sink failures are logged; they never reach the request that emitted the event.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run returns nil once the inbox is closed and drained, or ctx.Err() when
// cancelled first. Cancelling ctx also aborts a Write in flight, so a stuck
// sink cannot hold Run past its deadline.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.sink.Write(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to write audit event",
					"event", string(event.Type),
					"user_id", event.UserID,
					"request_id", event.RequestID,
					"error", err,
				)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}
