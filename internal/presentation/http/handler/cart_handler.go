package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/domain/billing"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
)

// CartHandler handles the bill being composed
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart with its totals and state
func (h *CartHandler) Get(c *gin.Context) {
	snap, err := h.cartService.View(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", snap)
}

// Preview returns the printable layout of the cart
func (h *CartHandler) Preview(c *gin.Context) {
	layout, err := h.cartService.Preview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Cart preview generated", layout)
}

// SetHeader edits the bill date and customer
func (h *CartHandler) SetHeader(c *gin.Context) {
	var req request.CartHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	snap, err := h.cartService.SetHeader(c.Request.Context(), billing.HeaderPatch{
		Date:         req.Date,
		CustomerName: req.CustomerName,
		CustomerCity: req.CustomerCity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Cart updated", snap)
}

// AddItem adds a catalog product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	snap, err := h.cartService.AddItem(c.Request.Context(), req.ProductID, req.Qty())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Item added", snap)
}

// AdjustQuantity changes a line quantity by a delta
func (h *CartHandler) AdjustQuantity(c *gin.Context) {
	lineID, ok := parseID(c, "lineId")
	if !ok {
		return
	}

	var req request.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	snap, err := h.cartService.AdjustQuantity(c.Request.Context(), lineID, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Quantity updated", snap)
}

// RemoveItem removes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lineID, ok := parseID(c, "lineId")
	if !ok {
		return
	}

	snap, err := h.cartService.RemoveItem(c.Request.Context(), lineID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Item removed", snap)
}

// Reset starts a new bill
func (h *CartHandler) Reset(c *gin.Context) {
	snap, err := h.cartService.Reset(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "New bill started", snap)
}

// Save stores the cart as a bill
func (h *CartHandler) Save(c *gin.Context) {
	result, err := h.cartService.Save(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Bill saved successfully"
	if result.Drifted {
		message = "Bill saved; " + result.Warning
	}
	response.Created(c, message, result)
}
