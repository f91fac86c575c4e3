package repository

import (
	"context"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

// IdempotencyRepository keeps the responses of processed writes, scoped to
// the operator who sent them.
type IdempotencyRepository interface {
	// GetByKey returns the live entry for key, or nil, nil when there is none
	// or it has expired.
	GetByKey(ctx context.Context, key, operator string) (*entity.IdempotencyKey, error)
	// Create stores an entry, replacing an expired one with the same key.
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired entries and reports how many went.
	DeleteExpired(ctx context.Context) (int64, error)
}
