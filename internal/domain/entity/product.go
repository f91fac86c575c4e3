package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. Invoices never reference it live; lines copy
// its name, price, unit and packing when added to a cart.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name      string          `gorm:"size:255;not null;index" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"price"`
	Unit      string          `gorm:"size:50;not null" json:"unit"`
	Packing   string          `gorm:"size:100" json:"packing,omitempty"`
	HSNCode   string          `gorm:"size:20;column:hsn_code" json:"hsn_code,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
