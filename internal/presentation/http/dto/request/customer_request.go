package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name  string  `json:"name" binding:"required,min=1,max=255"`
	City  string  `json:"city" binding:"omitempty,max=120"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
	GSTIN *string `json:"gstin" binding:"omitempty,len=15"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
	City  *string `json:"city" binding:"omitempty,max=120"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
	GSTIN *string `json:"gstin" binding:"omitempty,len=15"`
}
