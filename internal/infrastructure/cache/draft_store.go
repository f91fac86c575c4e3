// Package cache keeps the in-progress cart in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/gstbill-api/internal/domain/billing"
)

const draftTTL = 7 * 24 * time.Hour

// RedisDraftStore stores one cart draft per operator under cart:<operator>.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{client: client, ttl: draftTTL}
}

func (r *RedisDraftStore) Load(ctx context.Context, operator string) (*billing.Draft, error) {
	data, err := r.client.Get(ctx, draftKey(operator)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var draft billing.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft failed: %w", err)
	}
	return &draft, nil
}

func (r *RedisDraftStore) Save(ctx context.Context, operator string, draft billing.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft failed: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(operator), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisDraftStore) Delete(ctx context.Context, operator string) error {
	if err := r.client.Del(ctx, draftKey(operator)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func draftKey(operator string) string {
	return fmt.Sprintf("cart:%s", operator)
}
