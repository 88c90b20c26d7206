package notification

import (
	"context"
	"log/slog"
)

// LogSender implements Sender by logging the message instead of delivering it.
// Used as the fallback when no mail transport is configured, so a missing mail
// account never blocks the training loop.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{logger: log}
}

// Send logs the message at info level.
func (l *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	l.logger.InfoContext(ctx, "notification (no mail transport configured)",
		slog.String("subject", msg.Subject),
		slog.String("tag", msg.Tag))

	return nil
}
