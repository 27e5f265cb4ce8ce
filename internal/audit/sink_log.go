package audit

import (
	"context"
	"log/slog"
)

// LogSink writes events to the structured log. Used when no broker is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Write(ctx context.Context, event Event) error {
	attrs := []any{
		"event", string(event.Type),
		"user_id", event.UserID,
		"timestamp", event.Timestamp,
	}
	if event.Subject != "" {
		attrs = append(attrs, "subject", event.Subject)
	}
	if event.RequestID != "" {
		attrs = append(attrs, "request_id", event.RequestID)
	}
	for k, v := range event.Attributes {
		attrs = append(attrs, k, v)
	}
	s.logger.InfoContext(ctx, "audit", attrs...)
	return nil
}
