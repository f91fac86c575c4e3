package history

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

var dayFirst = regexp.MustCompile(`^\s*(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})`)

// ParseDate reads a day-first date such as "07/03/2026", "7-3-2026" or
// "07.03.2026, 10:15 am". Anything after the year is ignored.
func ParseDate(s string) (time.Time, bool) {
	m := dayFirst.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// DateRange is an inclusive day range. Either end may be open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether the range has no bounds.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether the calendar day of t lies in r.
func (r DateRange) Contains(t time.Time) bool {
	day := truncateDay(t)
	if r.From != nil && day.Before(truncateDay(*r.From)) {
		return false
	}
	if r.To != nil && day.After(truncateDay(*r.To)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Filter selects bills for history views and exports.
type Filter struct {
	Search string
	Range  DateRange
}

// Matches applies f to one bill. The search term is matched without case
// against the customer name or the bill id. Bills whose date does not parse
// always pass the date range.
func (f Filter) Matches(inv entity.Invoice) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(inv.CustomerName), term) &&
			!strings.Contains(strings.ToLower(inv.ID), term) {
			return false
		}
	}
	if f.Range.IsZero() {
		return true
	}
	day, ok := ParseDate(inv.Date)
	if !ok {
		return true
	}
	return f.Range.Contains(day)
}

// Apply returns the bills matching f in their original order. The input is
// not modified.
func Apply(invoices []entity.Invoice, f Filter) []entity.Invoice {
	out := make([]entity.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if f.Matches(inv) {
			out = append(out, inv)
		}
	}
	return out
}
