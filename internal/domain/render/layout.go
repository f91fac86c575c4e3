// Package render lays out a bill on a fixed A4 page. Build produces the
// Layout once; the screen preview, the PDF and the thermal receipt all draw
// from it and never format figures themselves.
package render

import (
	"fmt"
	"net/url"

	"github.com/sangkips/gstbill-api/internal/domain/billing"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/pkg/money"
	"github.com/shopspring/decimal"
)

// A4 at 96 dpi.
const (
	PageWidthPx  = 794
	PageHeightPx = 1123
)

// Columns of the item table, in print order.
var Columns = []string{"S.No", "Item", "Packing", "Qty", "Unit", "Rate", "Amount"}

// Options controls layout policy.
type Options struct {
	// Minimum table rows when tax lines are printed.
	MinRowsTaxed int
	// Minimum table rows when only the grand total is printed.
	MinRowsUntaxed int
}

// DefaultOptions returns the standard padding policy.
func DefaultOptions() Options {
	return Options{MinRowsTaxed: 12, MinRowsUntaxed: 15}
}

// MinRows returns the padding target for a bill.
func (o Options) MinRows(taxEnabled bool) int {
	if taxEnabled {
		return o.MinRowsTaxed
	}
	return o.MinRowsUntaxed
}

type Page struct {
	WidthPx  int `json:"width_px"`
	HeightPx int `json:"height_px"`
}

// Logo is either an image or, when none is configured, an initial badge.
type Logo struct {
	ImageURL string `json:"image_url,omitempty"`
	Initial  string `json:"initial,omitempty"`
}

type Header struct {
	BusinessName string `json:"business_name"`
	Subtitle     string `json:"subtitle,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	GSTIN        string `json:"gstin,omitempty"`
	Logo         Logo   `json:"logo"`
}

type Meta struct {
	BillNo       string `json:"bill_no"`
	Date         string `json:"date"`
	CustomerName string `json:"customer_name"`
	CustomerCity string `json:"customer_city"`
}

// Row is one table row. Filler rows pad the table and carry no data.
type Row struct {
	SerialNo string `json:"serial_no"`
	Name     string `json:"name"`
	Packing  string `json:"packing"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Rate     string `json:"rate"`
	Amount   string `json:"amount"`
	Filler   bool   `json:"filler,omitempty"`
}

// TotalLine is one row of the totals block. Weight is set on exactly one
// line per layout.
type TotalLine struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Weight string `json:"weight,omitempty"`
	Grand  bool   `json:"grand,omitempty"`
}

type BankBlock struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// UPIBlock carries the payment URI shown as a QR placeholder.
type UPIBlock struct {
	VPA    string `json:"vpa"`
	Payee  string `json:"payee"`
	Amount string `json:"amount"`
	URI    string `json:"uri"`
}

type Signature struct {
	ImageURL string `json:"image_url,omitempty"`
	For      string `json:"for"`
	Caption  string `json:"caption"`
}

// Layout is the complete, target-independent content of a printed bill.
type Layout struct {
	Page          Page        `json:"page"`
	ThemeColor    string      `json:"theme_color"`
	Title         string      `json:"title"`
	Header        Header      `json:"header"`
	Meta          Meta        `json:"meta"`
	Columns       []string    `json:"columns"`
	Rows          []Row       `json:"rows"`
	Totals        []TotalLine `json:"totals"`
	AmountInWords string      `json:"amount_in_words"`
	Bank          *BankBlock  `json:"bank,omitempty"`
	UPI           *UPIBlock   `json:"upi,omitempty"`
	Signature     Signature   `json:"signature"`
	Terms         string      `json:"terms,omitempty"`
}

// Build lays out inv with the identity and decorations from s.
func Build(inv entity.Invoice, s entity.BusinessSettings, opts Options) Layout {
	s = s.WithDefaults()
	l := Layout{
		Page:       Page{WidthPx: PageWidthPx, HeightPx: PageHeightPx},
		ThemeColor: s.ThemeColor,
		Title:      title(inv),
		Header: Header{
			BusinessName: s.BusinessName,
			Subtitle:     s.Subtitle,
			Address:      s.Address,
			Phone:        s.Phone,
			Email:        s.Email,
			GSTIN:        s.GSTIN,
			Logo:         logo(s),
		},
		Meta: Meta{
			BillNo:       inv.ID,
			Date:         inv.Date,
			CustomerName: inv.CustomerName,
			CustomerCity: inv.CustomerCity,
		},
		Columns:       Columns,
		Rows:          rows(inv.Items, opts.MinRows(inv.TaxEnabled)),
		Totals:        totals(inv),
		AmountInWords: billing.AmountInWords(inv.Totals),
		Signature: Signature{
			ImageURL: s.SignatureURL,
			For:      "For " + s.BusinessName,
			Caption:  "Authorised Signatory",
		},
		Terms: s.Terms,
	}
	if s.HasBankDetails() {
		l.Bank = &BankBlock{
			BankName:      s.BankName,
			AccountName:   s.AccountName,
			AccountNumber: s.AccountNumber,
			IFSC:          s.IFSC,
			Branch:        s.Branch,
		}
	}
	if s.HasUPI() {
		l.UPI = upi(s, inv)
	}
	return l
}

// BuildPreview lays out the bill currently being composed.
func BuildPreview(snap billing.Snapshot, s entity.BusinessSettings, opts Options) Layout {
	return Build(snap.Invoice(), s, opts)
}

// Sample lays out a two line test bill with the identity from s.
func Sample(s entity.BusinessSettings) Layout {
	s = s.WithDefaults()
	items := []entity.LineItem{
		entity.NewLineItem(entity.Product{Name: "Test Item 1", Unit: "pcs", Price: decimal.NewFromInt(10)}, decimal.NewFromInt(1)),
		entity.NewLineItem(entity.Product{Name: "Test Item 2", Unit: "kg", Packing: "1 kg", Price: decimal.NewFromInt(5)}, decimal.NewFromInt(2)),
	}
	inv := entity.Invoice{
		ID:           "TEST",
		Date:         "Printer test",
		CustomerName: "Walk-in",
		TaxEnabled:   s.TaxEnabled,
		TaxRate:      s.TaxRate,
		Items:        items,
	}
	inv.Totals = billing.Calculate(items, s.TaxConfiguration())
	return Build(inv, s, Options{})
}

func title(inv entity.Invoice) string {
	if inv.TaxEnabled {
		return "TAX INVOICE"
	}
	return "BILL OF SUPPLY"
}

func logo(s entity.BusinessSettings) Logo {
	if s.HasLogo() {
		return Logo{ImageURL: s.LogoURL}
	}
	return Logo{Initial: s.Initial()}
}

func rows(items []entity.LineItem, minRows int) []Row {
	n := len(items)
	if n < minRows {
		n = minRows
	}
	out := make([]Row, 0, n)
	for i, it := range items {
		out = append(out, Row{
			SerialNo: fmt.Sprintf("%d", i+1),
			Name:     it.Name,
			Packing:  it.Packing,
			Quantity: money.FormatQuantity(it.Quantity),
			Unit:     it.Unit,
			Rate:     money.FormatINR(it.Rate),
			Amount:   money.FormatINR(it.Quantity.Mul(it.Rate)),
		})
	}
	for len(out) < n {
		out = append(out, Row{Filler: true})
	}
	return out
}

func totals(inv entity.Invoice) []TotalLine {
	weight := billing.Weight(inv.Items)
	grand := TotalLine{Label: "Grand Total", Value: money.FormatINR(inv.GrandTotal), Grand: true}
	if !inv.TaxEnabled {
		grand.Weight = weight
		return []TotalLine{grand}
	}
	half := inv.Tax().HalfRate().String()
	return []TotalLine{
		{Label: "Sub Total", Value: money.FormatINR(inv.Subtotal), Weight: weight},
		{Label: "CGST @ " + half + "%", Value: money.FormatINR(inv.CGST)},
		{Label: "SGST @ " + half + "%", Value: money.FormatINR(inv.SGST)},
		grand,
	}
}

func upi(s entity.BusinessSettings, inv entity.Invoice) *UPIBlock {
	payee := s.UPIPayeeName
	if payee == "" {
		payee = s.BusinessName
	}
	amount := inv.GrandTotal.StringFixed(2)
	q := url.Values{}
	q.Set("pa", s.UPIID)
	q.Set("pn", payee)
	q.Set("am", amount)
	q.Set("cu", "INR")
	q.Set("tn", "Bill "+inv.ID)
	return &UPIBlock{
		VPA:    s.UPIID,
		Payee:  payee,
		Amount: amount,
		URI:    "upi://pay?" + q.Encode(),
	}
}
