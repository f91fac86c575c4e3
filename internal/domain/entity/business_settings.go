package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the primary key of the single settings row.
const SettingsID uint = 1

// Defaults applied to a fresh install and to blank stored values.
const (
	DefaultBusinessName = "My Business"
	DefaultThemeColor   = "#1e3a8a"
	DefaultTaxRate      = "5"
)

// TaxConfiguration is the tax snapshot used to compute one bill. When
// enabled the rate is split evenly into CGST and SGST.
type TaxConfiguration struct {
	Enabled bool            `json:"enabled"`
	Rate    decimal.Decimal `json:"rate"`
}

// HalfRate returns the rate applied to each of the two components.
func (t TaxConfiguration) HalfRate() decimal.Decimal {
	return t.Rate.Div(decimal.NewFromInt(2))
}

// BusinessSettings holds the business identity printed on bills, the tax
// defaults and the next bill number. Version increases on every write.
type BusinessSettings struct {
	ID      uint  `gorm:"primaryKey" json:"-"`
	Version int64 `gorm:"not null;default:1" json:"version"`

	// Identity
	BusinessName string `gorm:"size:255;not null" json:"business_name"`
	Subtitle     string `gorm:"size:255" json:"subtitle"`
	Address      string `gorm:"type:text" json:"address"`
	Phone        string `gorm:"size:50" json:"phone"`
	Email        string `gorm:"size:255" json:"email"`
	GSTIN        string `gorm:"size:15;column:gstin" json:"gstin"`
	LogoURL      string `gorm:"size:500" json:"logo_url"`
	SignatureURL string `gorm:"size:500" json:"signature_url"`
	ThemeColor   string `gorm:"size:20" json:"theme_color"`
	Terms        string `gorm:"type:text" json:"terms"`

	// Bank
	BankName      string `gorm:"size:255" json:"bank_name"`
	AccountName   string `gorm:"size:255" json:"account_name"`
	AccountNumber string `gorm:"size:50" json:"account_number"`
	IFSC          string `gorm:"size:20;column:ifsc" json:"ifsc"`
	Branch        string `gorm:"size:255" json:"branch"`

	// UPI
	UPIID        string `gorm:"size:255;column:upi_id" json:"upi_id"`
	UPIPayeeName string `gorm:"size:255;column:upi_payee_name" json:"upi_payee_name"`

	// Tax
	TaxEnabled bool            `gorm:"not null" json:"tax_enabled"`
	TaxRate    decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"tax_rate"`

	NextInvoiceNumber int64     `gorm:"not null;default:1" json:"next_invoice_number"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName returns the table name for the BusinessSettings model
func (BusinessSettings) TableName() string {
	return "business_settings"
}

// DefaultBusinessSettings returns the settings of a fresh install.
func DefaultBusinessSettings() BusinessSettings {
	return BusinessSettings{
		ID:                SettingsID,
		Version:           1,
		BusinessName:      DefaultBusinessName,
		ThemeColor:        DefaultThemeColor,
		TaxEnabled:        true,
		TaxRate:           decimal.RequireFromString(DefaultTaxRate),
		NextInvoiceNumber: 1,
	}
}

// WithDefaults fills blank identity fields and an invalid counter from
// DefaultBusinessSettings. Text fields are trimmed.
func (s BusinessSettings) WithDefaults() BusinessSettings {
	def := DefaultBusinessSettings()
	out := s
	out.ID = SettingsID
	for _, f := range []*string{
		&out.BusinessName, &out.Subtitle, &out.Address, &out.Phone, &out.Email,
		&out.GSTIN, &out.LogoURL, &out.SignatureURL, &out.ThemeColor, &out.Terms,
		&out.BankName, &out.AccountName, &out.AccountNumber, &out.IFSC, &out.Branch,
		&out.UPIID, &out.UPIPayeeName,
	} {
		*f = strings.TrimSpace(*f)
	}
	if out.BusinessName == "" {
		out.BusinessName = def.BusinessName
	}
	if out.ThemeColor == "" {
		out.ThemeColor = def.ThemeColor
	}
	if out.TaxRate.IsNegative() {
		out.TaxRate = def.TaxRate
	}
	if out.NextInvoiceNumber < 1 {
		out.NextInvoiceNumber = def.NextInvoiceNumber
	}
	if out.Version < 1 {
		out.Version = def.Version
	}
	return out
}

// BusinessSettingsPatch is a partial settings update. Nil fields are left
// unchanged.
type BusinessSettingsPatch struct {
	BusinessName      *string          `json:"business_name"`
	Subtitle          *string          `json:"subtitle"`
	Address           *string          `json:"address"`
	Phone             *string          `json:"phone"`
	Email             *string          `json:"email"`
	GSTIN             *string          `json:"gstin"`
	LogoURL           *string          `json:"logo_url"`
	SignatureURL      *string          `json:"signature_url"`
	ThemeColor        *string          `json:"theme_color"`
	Terms             *string          `json:"terms"`
	BankName          *string          `json:"bank_name"`
	AccountName       *string          `json:"account_name"`
	AccountNumber     *string          `json:"account_number"`
	IFSC              *string          `json:"ifsc"`
	Branch            *string          `json:"branch"`
	UPIID             *string          `json:"upi_id"`
	UPIPayeeName      *string          `json:"upi_payee_name"`
	TaxEnabled        *bool            `json:"tax_enabled"`
	TaxRate           *decimal.Decimal `json:"tax_rate"`
	NextInvoiceNumber *int64           `json:"next_invoice_number"`
}

// Apply merges p over s and normalises the result with WithDefaults.
// It is the only place stored and submitted settings are combined.
func (s BusinessSettings) Apply(p BusinessSettingsPatch) BusinessSettings {
	out := s
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&out.BusinessName, p.BusinessName)
	set(&out.Subtitle, p.Subtitle)
	set(&out.Address, p.Address)
	set(&out.Phone, p.Phone)
	set(&out.Email, p.Email)
	set(&out.GSTIN, p.GSTIN)
	set(&out.LogoURL, p.LogoURL)
	set(&out.SignatureURL, p.SignatureURL)
	set(&out.ThemeColor, p.ThemeColor)
	set(&out.Terms, p.Terms)
	set(&out.BankName, p.BankName)
	set(&out.AccountName, p.AccountName)
	set(&out.AccountNumber, p.AccountNumber)
	set(&out.IFSC, p.IFSC)
	set(&out.Branch, p.Branch)
	set(&out.UPIID, p.UPIID)
	set(&out.UPIPayeeName, p.UPIPayeeName)
	if p.TaxEnabled != nil {
		out.TaxEnabled = *p.TaxEnabled
	}
	if p.TaxRate != nil {
		out.TaxRate = *p.TaxRate
	}
	if p.NextInvoiceNumber != nil {
		out.NextInvoiceNumber = *p.NextInvoiceNumber
	}
	return out.WithDefaults()
}

// TaxConfiguration returns the current tax snapshot.
func (s BusinessSettings) TaxConfiguration() TaxConfiguration {
	return TaxConfiguration{Enabled: s.TaxEnabled, Rate: s.TaxRate}
}

// HasLogo reports whether a logo image is configured.
func (s BusinessSettings) HasLogo() bool { return s.LogoURL != "" }

// HasBankDetails reports whether enough bank data exists to print the block.
func (s BusinessSettings) HasBankDetails() bool {
	return s.BankName != "" && s.AccountNumber != ""
}

// HasUPI reports whether a UPI payment identity is configured.
func (s BusinessSettings) HasUPI() bool { return s.UPIID != "" }

// Initial returns the first letter of the business name for the logo badge.
func (s BusinessSettings) Initial() string {
	for _, r := range strings.TrimSpace(s.BusinessName) {
		return strings.ToUpper(string(r))
	}
	return "?"
}
