package request

import "github.com/sangkips/gstbill-api/internal/domain/entity"

// UpdateSettingsRequest carries the settings version being edited and the
// fields to change.
type UpdateSettingsRequest struct {
	Version int64 `json:"version"`
	entity.BusinessSettingsPatch
}
