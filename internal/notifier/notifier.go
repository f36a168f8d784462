package notifier

import "context"

// Notifier delivers pipeline reports to an external channel.
type Notifier interface {
	Send(text string) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Noop discards every message. Used when no channel is configured.
type Noop struct{}

func (Noop) Send(string) error                                { return nil }
func (Noop) SendWithRetry(context.Context, string, int) error { return nil }
