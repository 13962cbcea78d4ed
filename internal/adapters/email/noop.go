package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// NoopSender logs messages instead of delivering them. It is used when no
// provider key is configured.
type NoopSender struct{}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the message.
// POST: Returns a synthetic receipt; nothing is delivered
func (s *NoopSender) Send(_ context.Context, msg Message) (Receipt, error) {
	slog.Info("email_event", "event", "noop_send", "to", msg.To, "subject", msg.Subject)
	now := time.Now()
	return Receipt{MessageID: fmt.Sprintf("noop-%d", now.UnixNano()), SentAt: now}, nil
}
