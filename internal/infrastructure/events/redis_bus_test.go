package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestBus(t *testing.T) (*RedisBus, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisBus(client), mr
}

func TestPublishSubscribe_RoundTrip(t *testing.T) {
	bus, _ := setupTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx, entity.TopicInvoices)
	require.NoError(t, err)

	sent := entity.NewEvent(entity.TopicInvoices, entity.ActionCreated, "42")
	require.NoError(t, bus.Publish(ctx, sent))

	select {
	case got := <-events:
		assert.Equal(t, entity.TopicInvoices, got.Topic)
		assert.Equal(t, entity.ActionCreated, got.Action)
		assert.Equal(t, "42", got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSubscribe_IgnoresOtherTopics(t *testing.T) {
	bus, _ := setupTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx, entity.TopicProducts)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, entity.NewEvent(entity.TopicCustomers, entity.ActionUpdated, "c1")))
	require.NoError(t, bus.Publish(ctx, entity.NewEvent(entity.TopicProducts, entity.ActionDeleted, "p1")))

	select {
	case got := <-events:
		assert.Equal(t, "p1", got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSubscribe_SkipsMalformedPayload(t *testing.T) {
	bus, mr := setupTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx, entity.TopicSettings)
	require.NoError(t, err)

	mr.Publish(channel(entity.TopicSettings), "{not json")
	require.NoError(t, bus.Publish(ctx, entity.NewEvent(entity.TopicSettings, entity.ActionUpdated, "1")))

	select {
	case got := <-events:
		assert.Equal(t, entity.ActionUpdated, got.Action)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSubscribe_ClosesOnCancel(t *testing.T) {
	bus, _ := setupTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	events, err := bus.Subscribe(ctx, entity.TopicCart)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), entity.Event{}))
}
