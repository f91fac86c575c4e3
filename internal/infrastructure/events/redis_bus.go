// Package events relays change notifications over redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

const channelPrefix = "billing:"

// RedisBus publishes and subscribes to events on billing:<topic> channels.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, event entity.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event failed: %w", err)
	}
	if err := b.client.Publish(ctx, channel(event.Topic), data).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, topic entity.EventTopic) (<-chan entity.Event, error) {
	ps := b.client.Subscribe(ctx, channel(topic))
	// Wait for the confirmation so no event published after return is lost.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("redis subscribe failed: %w", err)
	}

	out := make(chan entity.Event, 16)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event entity.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Warning: dropping malformed event on %s: %v", msg.Channel, err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func channel(topic entity.EventTopic) string {
	return channelPrefix + string(topic)
}

// NopPublisher discards events. It is used when redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, entity.Event) error { return nil }
