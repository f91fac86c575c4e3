package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
)

// AnalyticsHandler handles sales figures and AI insights
type AnalyticsHandler struct {
	insightsService *service.InsightsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(insightsService *service.InsightsService) *AnalyticsHandler {
	return &AnalyticsHandler{insightsService: insightsService}
}

// Summary returns revenue, top products, top customers and daily totals
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	var filter request.AnalyticsFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	summary, err := h.insightsService.Summary(c.Request.Context(), filter.From, filter.To, filter.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Analytics retrieved successfully", summary)
}

// InsightsRequest returns the payload that would be sent to the AI provider
func (h *AnalyticsHandler) InsightsRequest(c *gin.Context) {
	req, err := h.insightsService.BuildRequest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Insights request prepared", req)
}

// Insights asks the AI provider for a narrative over all saved bills
func (h *AnalyticsHandler) Insights(c *gin.Context) {
	insights, err := h.insightsService.Generate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Insights generated successfully", insights)
}
