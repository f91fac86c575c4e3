package insight

import (
	"sort"
	"strings"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/history"
	"github.com/shopspring/decimal"
)

// CustomerStat aggregates the bills of one customer name.
type CustomerStat struct {
	Name    string          `json:"name"`
	Bills   int             `json:"bills"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DailyRevenue is the billed total of one calendar day.
type DailyRevenue struct {
	Date    string          `json:"date"`
	Bills   int             `json:"bills"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary holds the figures of the analytics screen.
type Summary struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalTax         decimal.Decimal `json:"total_tax"`
	BillCount        int             `json:"bill_count"`
	AverageBillValue decimal.Decimal `json:"average_bill_value"`
	TopProducts      []ProductStat   `json:"top_products"`
	TopCustomers     []CustomerStat  `json:"top_customers"`
	Daily            []DailyRevenue  `json:"daily"`
	// UndatedBills counts bills in the totals whose date could not be read.
	UndatedBills int `json:"undated_bills"`
}

// Summarize computes the analytics figures for the bills in r. Bills with
// an unreadable date are kept in every total but left out of Daily.
func Summarize(invoices []entity.Invoice, r history.DateRange, limit int) Summary {
	selected := history.Apply(invoices, history.Filter{Range: r})

	s := Summary{TotalRevenue: decimal.Zero, TotalTax: decimal.Zero}
	days := map[string]*DailyRevenue{}
	dayKeys := map[string]int64{}
	customers := map[string]*CustomerStat{}
	var customerOrder []string

	for _, inv := range selected {
		s.BillCount++
		s.TotalRevenue = s.TotalRevenue.Add(inv.GrandTotal)
		s.TotalTax = s.TotalTax.Add(inv.CGST).Add(inv.SGST)

		if day, ok := history.ParseDate(inv.Date); ok {
			label := day.Format(entity.DateLayout)
			d, seen := days[label]
			if !seen {
				d = &DailyRevenue{Date: label, Revenue: decimal.Zero}
				days[label] = d
				dayKeys[label] = day.Unix()
			}
			d.Bills++
			d.Revenue = d.Revenue.Add(inv.GrandTotal)
		} else {
			s.UndatedBills++
		}

		if key := normalise(inv.CustomerName); key != "" {
			c, seen := customers[key]
			if !seen {
				c = &CustomerStat{Name: strings.TrimSpace(inv.CustomerName), Revenue: decimal.Zero}
				customers[key] = c
				customerOrder = append(customerOrder, key)
			}
			c.Bills++
			c.Revenue = c.Revenue.Add(inv.GrandTotal)
		}
	}
	s.AverageBillValue = average(s.TotalRevenue, s.BillCount)

	s.TopProducts = head(rankProducts(selected), limit)

	ranked := make([]CustomerStat, 0, len(customerOrder))
	for _, k := range customerOrder {
		ranked = append(ranked, *customers[k])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if c := ranked[i].Revenue.Cmp(ranked[j].Revenue); c != 0 {
			return c > 0
		}
		return ranked[i].Name < ranked[j].Name
	})
	s.TopCustomers = head(ranked, limit)

	s.Daily = make([]DailyRevenue, 0, len(days))
	for _, d := range days {
		s.Daily = append(s.Daily, *d)
	}
	sort.Slice(s.Daily, func(i, j int) bool {
		return dayKeys[s.Daily[i].Date] < dayKeys[s.Daily[j].Date]
	})
	return s
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
