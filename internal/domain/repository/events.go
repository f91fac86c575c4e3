package repository

import (
	"context"

	"github.com/sangkips/gstbill-api/internal/domain/billing"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

// EventPublisher announces changes after a successful write.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}

// EventSubscriber streams the events of one topic until ctx is done.
// The returned channel is closed when the subscription ends.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic entity.EventTopic) (<-chan entity.Event, error)
}

// DraftStore keeps the operator's cart across restarts.
type DraftStore interface {
	// Load returns nil, nil when no draft is stored.
	Load(ctx context.Context, operator string) (*billing.Draft, error)
	Save(ctx context.Context, operator string, draft billing.Draft) error
	Delete(ctx context.Context, operator string) error
}
