package events

import (
	"context"
	"encoding/json"
	"time"

	"support-bot-demo/backend/pkg/logger"
	"support-bot-demo/backend/pkg/resilience"
	"support-bot-demo/backend/shared/redis"
)

// Channel carrying all support-bot message events on the broker
const redisChannel = "support-bot:events"

// RedisPublisher forwards events to a Redis pub/sub channel so listeners on
// other instances see them too. Calls go through a circuit breaker: when the
// broker is down the breaker opens and turns stop paying the dial cost.
type RedisPublisher struct {
	client  *redis.RedisClient
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
	timeout time.Duration
}

// NewRedisPublisher creates a broker-backed publisher
func NewRedisPublisher(client *redis.RedisClient, log *logger.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("redis-events"), log),
		log:     log.WithComponent("events"),
		timeout: 2 * time.Second,
	}
}

// Publish marshals and sends the event in a goroutine. The caller never
// waits on the broker; failures are counted by the breaker and logged.
func (p *RedisPublisher) Publish(_ context.Context, event string, payload any) {
	data, err := json.Marshal(Envelope{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		p.log.Warn("dropping unmarshalable event", "event", event, "error", err.Error())
		return
	}

	go func() {
		err := p.breaker.Execute(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
			defer cancel()
			return p.client.Publish(ctx, redisChannel, data)
		})
		if err != nil && err != resilience.ErrCircuitOpen {
			p.log.Warn("event publish failed", "event", event, "error", err.Error())
		}
	}()
}
