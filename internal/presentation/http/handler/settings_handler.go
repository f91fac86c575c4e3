package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsService  *service.SettingsService
	reconcileService *service.ReconcileService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService, reconcileService *service.ReconcileService) *SettingsHandler {
	return &SettingsHandler{
		settingsService:  settingsService,
		reconcileService: reconcileService,
	}
}

// GetSettings retrieves the business settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings applies a partial update to the business settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		Version: req.Version,
		Patch:   req.BusinessSettingsPatch,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}

// GetSequence reports whether the bill counter is behind the saved bills
func (h *SettingsHandler) GetSequence(c *gin.Context) {
	status, err := h.reconcileService.Check(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Bill counter checked", status)
}

// Reconcile moves a stale bill counter past the highest saved bill
func (h *SettingsHandler) Reconcile(c *gin.Context) {
	status, err := h.reconcileService.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Bill counter is up to date"
	if status.Corrected {
		message = "Bill counter corrected"
	}
	response.OK(c, message, status)
}
