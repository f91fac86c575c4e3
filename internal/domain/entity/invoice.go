package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateLayout is the day-first layout used for bill dates.
const DateLayout = "02/01/2006"

// Totals is the financial breakdown of a bill.
type Totals struct {
	Subtotal   decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"subtotal"`
	CGST       decimal.Decimal `gorm:"type:numeric;not null;default:0;column:cgst" json:"cgst"`
	SGST       decimal.Decimal `gorm:"type:numeric;not null;default:0;column:sgst" json:"sgst"`
	GrandTotal decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"grand_total"`
}

// LineItem is one product entry of a cart or a saved bill. Name, unit, rate
// and packing are copied from the product when the line is created.
type LineItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID string          `gorm:"size:32;index" json:"-"`
	Position  int             `gorm:"not null;default:0" json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;index" json:"product_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Unit      string          `gorm:"size:50" json:"unit"`
	Packing   string          `gorm:"size:100" json:"packing,omitempty"`
	Rate      decimal.Decimal `gorm:"type:numeric;not null" json:"rate"`
	Quantity  decimal.Decimal `gorm:"type:numeric;not null" json:"quantity"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
}

// NewLineItem snapshots p into a fresh line.
func NewLineItem(p Product, qty decimal.Decimal) LineItem {
	li := LineItem{
		ID:        uuid.New(),
		ProductID: p.ID,
		Name:      p.Name,
		Unit:      p.Unit,
		Packing:   p.Packing,
		Rate:      p.Price,
		Quantity:  qty,
	}
	li.Recompute()
	return li
}

// Recompute sets Amount to Quantity * Rate.
func (li *LineItem) Recompute() {
	li.Amount = li.Quantity.Mul(li.Rate)
}

// PackingText returns the packing descriptor used for weight totals.
func (li LineItem) PackingText() string { return li.Packing }

// Qty returns the line quantity.
func (li LineItem) Qty() decimal.Decimal { return li.Quantity }

// BeforeCreate generates a UUID for lines created outside a cart
func (li *LineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LineItem model
func (LineItem) TableName() string {
	return "invoice_items"
}

// Invoice is a saved bill. It is written once and never updated.
type Invoice struct {
	ID              string          `gorm:"size:32;primaryKey" json:"id"`
	Sequence        int64           `gorm:"not null;uniqueIndex" json:"-"`
	Date            string          `gorm:"size:32;not null" json:"date"`
	CustomerName    string          `gorm:"size:255;not null;index" json:"customer_name"`
	CustomerCity    string          `gorm:"size:120" json:"customer_city"`
	TaxEnabled      bool            `gorm:"not null" json:"tax_enabled"`
	TaxRate         decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"tax_rate"`
	Totals          `gorm:"embedded"`
	SettingsVersion int64      `gorm:"not null;default:0" json:"settings_version"`
	Items           []LineItem `gorm:"foreignKey:InvoiceID;references:ID" json:"items"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// BillNumber parses the bill id. ok is false for non-numeric ids.
func (inv Invoice) BillNumber() (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(inv.ID), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Tax returns the tax snapshot the bill was computed with.
func (inv Invoice) Tax() TaxConfiguration {
	return TaxConfiguration{Enabled: inv.TaxEnabled, Rate: inv.TaxRate}
}

// FormatBillNo renders a sequence number as a bill id.
func FormatBillNo(n int64) string {
	return strconv.FormatInt(n, 10)
}
