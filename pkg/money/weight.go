package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// NoWeight is shown when no line carries a recognisable packing weight.
const NoWeight = "-"

var (
	packingPattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(kg|gm|g|ltr|ml|l)`)
	thousand       = decimal.NewFromInt(1000)
)

// Packed is anything with a packing descriptor and a quantity.
type Packed interface {
	PackingText() string
	Qty() decimal.Decimal
}

// ParseWeight reads the "<number> <unit>" group that opens a packing text and
// returns it in base units (grams or millilitres). kg, ltr and l scale by
// 1000. ok is false when the text has no such group.
func ParseWeight(packing string) (base decimal.Decimal, ok bool) {
	m := packingPattern.FindStringSubmatch(packing)
	if m == nil {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero, false
	}
	switch strings.ToLower(m[2]) {
	case "kg", "ltr", "l":
		v = v.Mul(thousand)
	}
	return v, true
}

// TotalWeight sums parsed packing weight times quantity over items.
// Items whose packing does not parse contribute nothing.
func TotalWeight[P Packed](items []P) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		w, ok := ParseWeight(it.PackingText())
		if !ok {
			continue
		}
		total = total.Add(w.Mul(it.Qty()))
	}
	return total
}

// FormatWeight renders base units as "N Kg M Gm", dropping a zero part.
// Totals that are not positive render as NoWeight.
func FormatWeight(base decimal.Decimal) string {
	if !base.IsPositive() {
		return NoWeight
	}
	kg := base.Div(thousand).Floor()
	gm := Round(base.Sub(kg.Mul(thousand)))
	if gm.Equal(thousand) {
		kg, gm = kg.Add(decimal.NewFromInt(1)), decimal.Zero
	}
	// A positive total never prints as zero.
	if kg.IsZero() && gm.IsZero() {
		gm = decimal.NewFromInt(1)
	}

	var parts []string
	if kg.IsPositive() {
		parts = append(parts, kg.String()+" Kg")
	}
	if gm.IsPositive() || len(parts) == 0 {
		parts = append(parts, gm.String()+" Gm")
	}
	return strings.Join(parts, " ")
}
