package notification

import (
	"context"

	"go.uber.org/zap"
)

// Message is an outgoing email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages to users
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the application log instead of sending
// them. Used in development and tests where no SMTP relay is available.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that logs instead of sending
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message at info level
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("outgoing email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}

var _ Mailer = (*LogMailer)(nil)
