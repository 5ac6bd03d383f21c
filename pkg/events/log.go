package events

import (
	"context"

	"support-bot-demo/backend/pkg/logger"
)

// LogPublisher writes events to the structured log. It is the default
// backend in development, where no agent console is connected.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher creates a publisher backed by the given logger
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.WithComponent("events")}
}

func (p *LogPublisher) Publish(_ context.Context, event string, payload any) {
	p.log.Info("event published", "event", event, "payload", payload)
}
