package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a catalog product to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  *decimal.Decimal `json:"quantity"`
}

// Qty is the requested quantity. An omitted quantity adds one unit.
func (r AddItemRequest) Qty() decimal.Decimal {
	if r.Quantity == nil {
		return decimal.NewFromInt(1)
	}
	return *r.Quantity
}

// AdjustQuantityRequest moves a line quantity up or down.
type AdjustQuantityRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

// CartHeaderRequest edits the bill header. Omitted fields are kept.
type CartHeaderRequest struct {
	Date         *string `json:"date" binding:"omitempty,max=32"`
	CustomerName *string `json:"customer_name" binding:"omitempty,max=255"`
	CustomerCity *string `json:"customer_city" binding:"omitempty,max=120"`
}
