package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBridge fans events out across API instances: Publish sends the event
// to a Redis channel, and Run forwards everything received on that channel
// into the local hub. With a single instance the hub alone is enough; the
// bridge only changes where the fan-out starts.
type RedisBridge struct {
	client  *redis.Client
	hub     *Hub
	channel string
	logger  *zap.Logger
}

// NewRedisBridge creates a bridge over the given pub/sub channel.
func NewRedisBridge(client *redis.Client, hub *Hub, channel string, logger *zap.Logger) *RedisBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBridge{client: client, hub: hub, channel: channel, logger: logger}
}

// Publish sends the event to the Redis channel. Failures are logged and
// swallowed; the event is still delivered to the local hub so a Redis outage
// degrades to single-instance behavior instead of losing local delivery.
func (b *RedisBridge) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("failed to encode event", zap.Error(err))
		return
	}
	if err := b.client.Publish(context.Background(), b.channel, payload).Err(); err != nil {
		b.logger.Warn("redis publish failed, delivering locally only", zap.Error(err))
		b.hub.Publish(event)
	}
}

// Run subscribes to the Redis channel and forwards incoming events to the
// local hub until the context is cancelled.
func (b *RedisBridge) Run(ctx context.Context) {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("discarding malformed event payload", zap.Error(err))
				continue
			}
			b.hub.Publish(event)
		}
	}
}
