package events

import (
	"context"

	"support-bot-demo/backend/pkg/logger"
)

// Event names published by the turn engine and consumed by the agent console.
const (
	EventMessageReceived  = "chat.message.received"
	EventMessageSent      = "chat.message.sent"
	EventSessionEscalated = "chat.session.escalated"
)

// Publisher is the notification channel contract: fire-and-forget delivery
// of message events to live listeners. Implementations must never block the
// caller, never return an error, and absorb their own failures. Delivery is
// best-effort.
type Publisher interface {
	Publish(ctx context.Context, event string, payload any)
}

// Multi fans an event out to several publishers
type Multi struct {
	publishers []Publisher
}

// NewMulti combines publishers into one fan-out publisher
func NewMulti(publishers ...Publisher) *Multi {
	return &Multi{publishers: publishers}
}

// Publish delivers the event to every backend. A panicking backend is
// logged and skipped, it cannot take down the turn or its sibling backends.
func (m *Multi) Publish(ctx context.Context, event string, payload any) {
	for _, p := range m.publishers {
		func(p Publisher) {
			defer func() {
				if r := recover(); r != nil {
					logger.GetGlobal().Error("publisher panicked",
						"event", event,
						"panic", r,
					)
				}
			}()
			p.Publish(ctx, event, payload)
		}(p)
	}
}

// NopPublisher drops every event. Useful for tests and the standalone
// knowledge service, which has no live listeners.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) {}
