package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OverflowMarker is returned by Words for amounts it cannot spell out.
const OverflowMarker = "Overflow"

var wordsLimit = decimal.NewFromInt(1_000_000_000)

var ones = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// Words spells out the rounded amount using the Indian numbering system
// (crore, lakh, thousand, hundred). Zero is "Zero"; every other result ends
// with "Only". Negative amounts and amounts of 10^9 or more yield
// OverflowMarker.
func Words(amount decimal.Decimal) string {
	n := Round(amount)
	if n.IsNegative() || n.GreaterThanOrEqual(wordsLimit) {
		return OverflowMarker
	}
	v := n.IntPart()
	if v == 0 {
		return "Zero"
	}

	groups := []struct {
		value int64
		label string
	}{
		{v / 10_000_000, "Crore"},
		{v / 100_000 % 100, "Lakh"},
		{v / 1_000 % 100, "Thousand"},
		{v / 100 % 10, "Hundred"},
	}

	var parts []string
	for _, g := range groups {
		if g.value == 0 {
			continue
		}
		parts = append(parts, twoDigitWords(g.value), g.label)
	}
	if rest := v % 100; rest != 0 {
		if len(parts) > 0 {
			parts = append(parts, "and")
		}
		parts = append(parts, twoDigitWords(rest))
	}
	parts = append(parts, "Only")
	return strings.Join(parts, " ")
}

func twoDigitWords(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
