package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name    string          `json:"name" binding:"required,min=1,max=255"`
	Price   decimal.Decimal `json:"price"`
	Unit    string          `json:"unit" binding:"required,max=50"`
	Packing string          `json:"packing" binding:"omitempty,max=100"`
	HSNCode string          `json:"hsn_code" binding:"omitempty,max=20"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name    *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Price   *decimal.Decimal `json:"price"`
	Unit    *string          `json:"unit" binding:"omitempty,min=1,max=50"`
	Packing *string          `json:"packing" binding:"omitempty,max=100"`
	HSNCode *string          `json:"hsn_code" binding:"omitempty,max=20"`
}

// ListFilterRequest represents catalog search parameters
type ListFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
