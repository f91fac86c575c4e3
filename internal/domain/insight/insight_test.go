package insight

import (
	"fmt"
	"testing"
	"time"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/history"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bill(id, date, customer, total string, items ...entity.LineItem) entity.Invoice {
	return entity.Invoice{
		ID:           id,
		Date:         date,
		CustomerName: customer,
		Totals:       entity.Totals{Subtotal: dec(total), CGST: decimal.Zero, SGST: decimal.Zero, GrandTotal: dec(total)},
		Items:        items,
	}
}

func line(name, qty, rate string) entity.LineItem {
	return entity.LineItem{Name: name, Quantity: dec(qty), Rate: dec(rate), Amount: dec(qty).Mul(dec(rate)), Unit: "Kg"}
}

func TestBuildRequest_Metrics(t *testing.T) {
	invoices := []entity.Invoice{
		bill("1", "01/03/2026", "Ravi", "300", line("Dal", "3", "100")),
		bill("2", "02/03/2026", "Asha", "500", line("rice", "2", "250")),
		bill("3", "02/03/2026", "Ravi", "100", line("Rice", "1", "100")),
	}

	req := BuildRequest(invoices)

	assert.True(t, req.Metrics.TotalRevenue.Equal(dec("900")))
	assert.Equal(t, 3, req.Metrics.BillCount)
	assert.True(t, req.Metrics.AverageBillValue.Equal(dec("300")))
	assert.Equal(t, "Rice", req.Metrics.TopProduct)
	require.Len(t, req.Transactions, 3)
	assert.Equal(t, "3", req.Transactions[0].BillNo)
	assert.Equal(t, "1", req.Transactions[2].BillNo)
	assert.Equal(t, "Dal x 3 Kg", req.Transactions[2].Items)
}

func TestBuildRequest_Deterministic(t *testing.T) {
	a := bill("1", "01/03/2026", "Ravi", "300", line("Dal", "1", "300"))
	b := bill("2", "02/03/2026", "Asha", "300", line("Atta", "1", "300"))

	first := BuildRequest([]entity.Invoice{a, b})
	second := BuildRequest([]entity.Invoice{b, a})

	assert.Equal(t, first, second)
	// Equal revenue ties break by name.
	assert.Equal(t, "Atta", first.Metrics.TopProduct)
}

func TestBuildRequest_CapsTransactions(t *testing.T) {
	var invoices []entity.Invoice
	for i := 1; i <= MaxTransactions+10; i++ {
		invoices = append(invoices, bill(fmt.Sprint(i), "01/03/2026", "Ravi", "10"))
	}

	req := BuildRequest(invoices)

	assert.Equal(t, MaxTransactions+10, req.Metrics.BillCount)
	require.Len(t, req.Transactions, MaxTransactions)
	assert.Equal(t, fmt.Sprint(MaxTransactions+10), req.Transactions[0].BillNo)
	assert.True(t, req.Metrics.TotalRevenue.Equal(dec("600")))
}

func TestBuildRequest_Empty(t *testing.T) {
	req := BuildRequest(nil)

	assert.Equal(t, 0, req.Metrics.BillCount)
	assert.True(t, req.Metrics.AverageBillValue.IsZero())
	assert.Empty(t, req.Metrics.TopProduct)
	assert.NotNil(t, req.Transactions)
}

func TestResponse_Valid(t *testing.T) {
	assert.False(t, Response{}.Valid())
	assert.True(t, Response{HealthSummary: "Sales are steady"}.Valid())
}

func TestSummarize(t *testing.T) {
	invoices := []entity.Invoice{
		bill("1", "01/03/2026", "Ravi", "300", line("Dal", "3", "100")),
		bill("2", "02/03/2026", "Asha", "500", line("Rice", "2", "250")),
		bill("3", "02/03/2026", " ravi ", "100", line("Rice", "1", "100")),
		bill("4", "not a date", "Meena", "50", line("Salt", "1", "50")),
	}

	s := Summarize(invoices, history.DateRange{}, 2)

	assert.Equal(t, 4, s.BillCount)
	assert.True(t, s.TotalRevenue.Equal(dec("950")))
	assert.True(t, s.AverageBillValue.Equal(dec("237.5")))
	assert.Equal(t, 1, s.UndatedBills)

	require.Len(t, s.TopProducts, 2)
	assert.Equal(t, "Rice", s.TopProducts[0].Name)
	assert.True(t, s.TopProducts[0].Quantity.Equal(dec("3")))

	require.Len(t, s.TopCustomers, 2)
	assert.Equal(t, "Asha", s.TopCustomers[0].Name)
	assert.Equal(t, "Ravi", s.TopCustomers[1].Name)
	assert.Equal(t, 2, s.TopCustomers[1].Bills)

	require.Len(t, s.Daily, 2)
	assert.Equal(t, "01/03/2026", s.Daily[0].Date)
	assert.Equal(t, 2, s.Daily[1].Bills)
	assert.True(t, s.Daily[1].Revenue.Equal(dec("600")))
}

func TestSummarize_RangeKeepsUndated(t *testing.T) {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	invoices := []entity.Invoice{
		bill("1", "01/03/2026", "Ravi", "300"),
		bill("2", "02/03/2026", "Asha", "500"),
		bill("3", "??", "Meena", "50"),
	}

	s := Summarize(invoices, history.DateRange{From: &from}, 0)

	assert.Equal(t, 2, s.BillCount)
	assert.True(t, s.TotalRevenue.Equal(dec("550")))
	assert.Equal(t, 1, s.UndatedBills)
}
