package history

import (
	"sort"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

// SortByBillNo returns a copy of invoices ordered by numeric bill id,
// highest first. Ids that are not numbers go last. Equal keys keep their
// input order.
func SortByBillNo(invoices []entity.Invoice) []entity.Invoice {
	out := make([]entity.Invoice, len(invoices))
	copy(out, invoices)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := out[i].BillNumber()
		b, bok := out[j].BillNumber()
		switch {
		case aok && bok:
			return a > b
		case aok != bok:
			return aok
		}
		return false
	})
	return out
}

// MaxBillNo returns the highest numeric bill id, or 0 when there is none.
func MaxBillNo(invoices []entity.Invoice) int64 {
	var highest int64
	for _, inv := range invoices {
		if n, ok := inv.BillNumber(); ok && n > highest {
			highest = n
		}
	}
	return highest
}
