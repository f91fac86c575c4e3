package repository

import (
	"context"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

// SettingsRepository defines the interface for business settings access
type SettingsRepository interface {
	// Get returns the stored settings, or nil when none exist yet.
	Get(ctx context.Context) (*entity.BusinessSettings, error)
	// Save writes settings read at settings.Version and bumps the version.
	// A concurrent write yields ErrVersionConflict.
	Save(ctx context.Context, settings *entity.BusinessSettings) error
	// AdvanceCounter moves the next bill number from one value to the next.
	// If the stored value differs from from, it returns ErrCounterMoved.
	AdvanceCounter(ctx context.Context, from int64) error
	// SetCounter overwrites the next bill number.
	SetCounter(ctx context.Context, next int64) error
}
