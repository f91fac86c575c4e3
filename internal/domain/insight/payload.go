// Package insight prepares sales figures for the analytics screen and the
// request sent to the narrative provider.
package insight

import (
	"errors"
	"sort"
	"strings"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/history"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured is returned when no narrative provider is set up.
	ErrNotConfigured = errors.New("insights provider is not configured")
	// ErrUnavailable is returned while the provider is considered down.
	ErrUnavailable = errors.New("insights provider is temporarily unavailable")
)

// MaxTransactions caps the bills sent with a request, most recent first.
const MaxTransactions = 50

// Metrics are the headline figures of a request.
type Metrics struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	BillCount        int             `json:"billCount"`
	AverageBillValue decimal.Decimal `json:"averageBillValue"`
	TopProduct       string          `json:"topProduct"`
}

// Transaction is the compact form of one bill.
type Transaction struct {
	BillNo   string          `json:"billNo"`
	Date     string          `json:"date"`
	Customer string          `json:"customer"`
	City     string          `json:"city,omitempty"`
	Total    decimal.Decimal `json:"total"`
	Items    string          `json:"items"`
}

// Request is the payload posted to the narrative provider.
type Request struct {
	Metrics      Metrics       `json:"metrics"`
	Transactions []Transaction `json:"transactions"`
}

// Response is the structured narrative returned by the provider.
type Response struct {
	HealthSummary   string   `json:"healthSummary"`
	ProductInsight  string   `json:"productInsight"`
	CustomerInsight string   `json:"customerInsight"`
	Tips            []string `json:"tips"`
}

// Valid reports whether the provider filled the mandatory fields.
func (r Response) Valid() bool {
	return strings.TrimSpace(r.HealthSummary) != ""
}

// BuildRequest derives the payload from saved bills. The same bills always
// produce the same request regardless of input order.
func BuildRequest(invoices []entity.Invoice) Request {
	sorted := history.SortByBillNo(invoices)

	revenue := decimal.Zero
	for _, inv := range sorted {
		revenue = revenue.Add(inv.GrandTotal)
	}

	n := len(sorted)
	if n > MaxTransactions {
		n = MaxTransactions
	}
	txs := make([]Transaction, 0, n)
	for _, inv := range sorted[:n] {
		txs = append(txs, Transaction{
			BillNo:   inv.ID,
			Date:     inv.Date,
			Customer: inv.CustomerName,
			City:     inv.CustomerCity,
			Total:    inv.GrandTotal,
			Items:    history.ItemsSummary(inv),
		})
	}

	top := ""
	if products := rankProducts(sorted); len(products) > 0 {
		top = products[0].Name
	}

	return Request{
		Metrics: Metrics{
			TotalRevenue:     revenue,
			BillCount:        len(sorted),
			AverageBillValue: average(revenue, len(sorted)),
			TopProduct:       top,
		},
		Transactions: txs,
	}
}

func average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(count)), 2)
}

// ProductStat aggregates the lines sold under one product name.
type ProductStat struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// rankProducts orders products by revenue, then by name.
func rankProducts(invoices []entity.Invoice) []ProductStat {
	byKey := map[string]*ProductStat{}
	var order []string
	for _, inv := range invoices {
		for _, it := range inv.Items {
			key := normalise(it.Name)
			if key == "" {
				continue
			}
			st, ok := byKey[key]
			if !ok {
				st = &ProductStat{Name: strings.TrimSpace(it.Name), Quantity: decimal.Zero, Revenue: decimal.Zero}
				byKey[key] = st
				order = append(order, key)
			}
			st.Quantity = st.Quantity.Add(it.Quantity)
			st.Revenue = st.Revenue.Add(it.Quantity.Mul(it.Rate))
		}
	}

	out := make([]ProductStat, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
