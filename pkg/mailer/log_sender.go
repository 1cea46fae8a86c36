package mailer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogSender writes emails to a logger instead of delivering them.
// Use it in development and tests where no provider account is available.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(l *slog.Logger) *LogSender {
	return &LogSender{logger: l}
}

// Send logs the email and reports it as delivered.
func (s *LogSender) Send(ctx context.Context, email *Email) (*Result, error) {
	id := uuid.NewString()

	s.logger.InfoContext(ctx, "email",
		slog.String("message_id", id),
		slog.String("from", email.From),
		slog.Any("to", email.To),
		slog.String("reply_to", email.ReplyTo),
		slog.String("subject", email.Subject),
		slog.String("text", email.Text),
	)

	return &Result{ID: id, Status: StatusDelivered}, nil
}
