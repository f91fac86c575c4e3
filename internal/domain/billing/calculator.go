package billing

import (
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Calculate derives the totals of a bill. It expects validated lines
// (positive quantity, non-negative rate) and never fails.
//
// Each tax half is rounded to a whole unit on its own; the grand total is
// the unrounded subtotal plus both rounded halves.
func Calculate(items []entity.LineItem, tax entity.TaxConfiguration) entity.Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Quantity.Mul(it.Rate))
	}

	t := entity.Totals{
		Subtotal:   subtotal,
		CGST:       decimal.Zero,
		SGST:       decimal.Zero,
		GrandTotal: subtotal,
	}
	if !tax.Enabled {
		return t
	}

	half := tax.HalfRate()
	t.CGST = money.Round(money.Percent(subtotal, half))
	t.SGST = money.Round(money.Percent(subtotal, half))
	t.GrandTotal = subtotal.Add(t.CGST).Add(t.SGST)
	return t
}

// AmountInWords spells out the rounded grand total.
func AmountInWords(t entity.Totals) string {
	return money.Words(t.GrandTotal)
}

// Weight formats the total packed weight of items.
func Weight(items []entity.LineItem) string {
	return money.FormatWeight(money.TotalWeight(items))
}
