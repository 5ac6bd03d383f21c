package events

import (
	"context"
	"encoding/json"
	"time"

	"support-bot-demo/backend/pkg/logger"
)

// Envelope is the wire format delivered to live listeners
type Envelope struct {
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcaster delivers a raw frame to all connected listeners.
// The websocket hub implements this.
type Broadcaster interface {
	Broadcast(data []byte)
}

// BroadcastPublisher pushes events onto a Broadcaster (the agent-console
// websocket hub). Marshal failures are logged and dropped.
type BroadcastPublisher struct {
	b   Broadcaster
	log *logger.Logger
}

// NewBroadcastPublisher creates a publisher on top of a Broadcaster
func NewBroadcastPublisher(b Broadcaster, log *logger.Logger) *BroadcastPublisher {
	return &BroadcastPublisher{b: b, log: log.WithComponent("events")}
}

func (p *BroadcastPublisher) Publish(_ context.Context, event string, payload any) {
	data, err := json.Marshal(Envelope{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		p.log.Warn("dropping unmarshalable event", "event", event, "error", err.Error())
		return
	}
	p.b.Broadcast(data)
}
