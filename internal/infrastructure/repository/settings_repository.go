package repository

import (
	"context"
	"errors"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the settings row
func (r *settingsRepository) Get(ctx context.Context) (*entity.BusinessSettings, error) {
	var settings entity.BusinessSettings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", entity.SettingsID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Save writes settings if nobody else wrote since they were read.
func (r *settingsRepository) Save(ctx context.Context, settings *entity.BusinessSettings) error {
	settings.ID = entity.SettingsID
	read := settings.Version
	settings.Version = read + 1

	if read == 0 {
		err := r.db.WithContext(ctx).Create(settings).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			settings.Version = read
			return repository.ErrVersionConflict
		}
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&entity.BusinessSettings{}).
		Where("id = ? AND version = ?", entity.SettingsID, read).
		Select("*").
		Omit("id").
		Updates(settings)
	if result.Error != nil {
		settings.Version = read
		return result.Error
	}
	if result.RowsAffected == 0 {
		settings.Version = read
		return repository.ErrVersionConflict
	}
	return nil
}

// AdvanceCounter increments next_invoice_number only if it still equals from.
func (r *settingsRepository) AdvanceCounter(ctx context.Context, from int64) error {
	return advanceCounter(r.db.WithContext(ctx), from)
}

// SetCounter overwrites next_invoice_number.
func (r *settingsRepository) SetCounter(ctx context.Context, next int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.BusinessSettings{}).
		Where("id = ?", entity.SettingsID).
		Updates(map[string]interface{}{
			"next_invoice_number": next,
			"version":             gorm.Expr("version + 1"),
		}).Error
}

// advanceCounter runs UPDATE ... SET next = next + 1 WHERE next = from.
func advanceCounter(db *gorm.DB, from int64) error {
	result := db.Model(&entity.BusinessSettings{}).
		Where("id = ? AND next_invoice_number = ?", entity.SettingsID, from).
		Updates(map[string]interface{}{
			"next_invoice_number": gorm.Expr("next_invoice_number + 1"),
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrCounterMoved
	}
	return nil
}
