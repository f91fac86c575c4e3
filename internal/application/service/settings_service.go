package service

import (
	"context"
	"errors"
	"log"
	"regexp"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	hexColor   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	maxTaxRate = decimal.NewFromInt(100)
)

// SettingsService handles business settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	events       repository.EventPublisher
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, events repository.EventPublisher) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		events:       events,
	}
}

// GetSettings returns the stored settings, or the defaults when none are
// stored yet.
func (s *SettingsService) GetSettings(ctx context.Context) (entity.BusinessSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return entity.BusinessSettings{}, err
	}
	if settings == nil {
		return entity.DefaultBusinessSettings(), nil
	}
	return settings.WithDefaults(), nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	// Version is the version the caller edited. Zero skips the check.
	Version int64
	Patch   entity.BusinessSettingsPatch
}

// UpdateSettings merges the patch over the stored settings and saves the
// result as a new version.
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (entity.BusinessSettings, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return entity.BusinessSettings{}, err
	}
	base := entity.DefaultBusinessSettings()
	base.Version = 0
	if current != nil {
		base = *current
	}

	if input.Version != 0 && input.Version != base.Version {
		return entity.BusinessSettings{}, apperror.NewConflictError("Settings were changed elsewhere; reload and try again")
	}

	// Apply fills defaults, so numeric ranges are checked on the raw patch.
	fieldErrs := validatePatch(input.Patch)
	next := base.Apply(input.Patch)
	next.Version = base.Version
	fieldErrs = append(fieldErrs, validateSettings(next)...)
	if len(fieldErrs) > 0 {
		return entity.BusinessSettings{}, apperror.NewValidationError(fieldErrs)
	}

	if err := s.settingsRepo.Save(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return entity.BusinessSettings{}, apperror.NewConflictError("Settings were changed elsewhere; reload and try again")
		}
		return entity.BusinessSettings{}, err
	}

	s.publish(ctx, entity.NewEvent(entity.TopicSettings, entity.ActionUpdated, ""))
	return next, nil
}

func (s *SettingsService) publish(ctx context.Context, event entity.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event.Topic, err)
	}
}

func validatePatch(p entity.BusinessSettingsPatch) []apperror.FieldError {
	var errs []apperror.FieldError
	if p.TaxRate != nil && (p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(maxTaxRate)) {
		errs = append(errs, apperror.FieldError{Field: "tax_rate", Message: "must be between 0 and 100"})
	}
	if p.NextInvoiceNumber != nil && *p.NextInvoiceNumber < 1 {
		errs = append(errs, apperror.FieldError{Field: "next_invoice_number", Message: "must be at least 1"})
	}
	return errs
}

func validateSettings(s entity.BusinessSettings) []apperror.FieldError {
	var errs []apperror.FieldError
	if !hexColor.MatchString(s.ThemeColor) {
		errs = append(errs, apperror.FieldError{Field: "theme_color", Message: "must be a hex color such as #1e3a8a"})
	}
	if s.GSTIN != "" && len(s.GSTIN) != 15 {
		errs = append(errs, apperror.FieldError{Field: "gstin", Message: "must be 15 characters"})
	}
	if s.AccountNumber != "" && s.BankName == "" {
		errs = append(errs, apperror.FieldError{Field: "bank_name", Message: "is required with an account number"})
	}
	return errs
}
