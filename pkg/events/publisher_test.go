package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-bot-demo/backend/pkg/logger"
)

type recording struct {
	events []string
}

func (r *recording) Publish(ctx context.Context, event string, payload any) {
	r.events = append(r.events, event)
}

type exploding struct{}

func (exploding) Publish(ctx context.Context, event string, payload any) {
	panic("connection lost")
}

func TestMultiDeliversToAllBackends(t *testing.T) {
	a := &recording{}
	b := &recording{}
	m := NewMulti(a, b)

	m.Publish(context.Background(), EventMessageSent, nil)

	assert.Equal(t, []string{EventMessageSent}, a.events)
	assert.Equal(t, []string{EventMessageSent}, b.events)
}

func TestMultiSkipsPanickingBackend(t *testing.T) {
	healthy := &recording{}
	m := NewMulti(exploding{}, healthy)

	assert.NotPanics(t, func() {
		m.Publish(context.Background(), EventMessageReceived, nil)
	})
	assert.Equal(t, []string{EventMessageReceived}, healthy.events)
}

type captureBroadcaster struct {
	frames [][]byte
}

func (c *captureBroadcaster) Broadcast(data []byte) {
	c.frames = append(c.frames, data)
}

func TestBroadcastPublisherWrapsEnvelope(t *testing.T) {
	cb := &captureBroadcaster{}
	log := logger.New(logger.Config{Level: "error", JSON: false})
	p := NewBroadcastPublisher(cb, log)

	p.Publish(context.Background(), EventMessageSent, map[string]string{"content": "hi"})

	require.Len(t, cb.frames, 1)

	var env Envelope
	require.NoError(t, json.Unmarshal(cb.frames[0], &env))
	assert.Equal(t, EventMessageSent, env.Event)
	assert.False(t, env.Timestamp.IsZero())

	payload, ok := env.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hi", payload["content"])
}

func TestBroadcastPublisherDropsUnmarshalable(t *testing.T) {
	cb := &captureBroadcaster{}
	log := logger.New(logger.Config{Level: "error", JSON: false})
	p := NewBroadcastPublisher(cb, log)

	p.Publish(context.Background(), EventMessageSent, func() {})

	assert.Empty(t, cb.frames)
}
