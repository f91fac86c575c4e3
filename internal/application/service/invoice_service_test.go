package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/render"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/sangkips/gstbill-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savedBill(seq int64, date, customer, total string) entity.Invoice {
	return entity.Invoice{
		ID:           entity.FormatBillNo(seq),
		Sequence:     seq,
		Date:         date,
		CustomerName: customer,
		Totals:       entity.Totals{GrandTotal: decimal.RequireFromString(total)},
		Items: []entity.LineItem{{
			Name:     "Rice",
			Unit:     "Bag",
			Rate:     decimal.RequireFromString(total),
			Quantity: decimal.NewFromInt(1),
			Amount:   decimal.RequireFromString(total),
		}},
	}
}

type stubImages struct {
	calls []string
	err   error
}

func (s *stubImages) Fetch(_ context.Context, ref string) ([]byte, error) {
	s.calls = append(s.calls, ref)
	return nil, s.err
}

func newInvoiceFixture(images ImageFetcher) (*InvoiceService, *fakeSettings) {
	settings := newFakeSettings(4)
	invoices := newFakeInvoices(settings,
		savedBill(1, "01/03/2026", "Ramesh Traders", "100"),
		savedBill(2, "05/03/2026", "Sita Stores", "250"),
		savedBill(10, "garbled", "Ramesh Traders", "40"),
	)
	return NewInvoiceService(invoices, NewSettingsService(settings, &fakePublisher{}), images, render.DefaultOptions()), settings
}

func TestInvoiceService_ListSortsAndFilters(t *testing.T) {
	svc, _ := newInvoiceFixture(nil)
	ctx := context.Background()

	page, err := svc.ListInvoices(ctx, HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "10", page.Items[0].ID)
	assert.Equal(t, "1", page.Items[2].ID)

	page, err = svc.ListInvoices(ctx, HistoryQuery{Search: "ramesh"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	// The undated bill passes any range.
	page, err = svc.ListInvoices(ctx, HistoryQuery{From: "04/03/2026", To: "31/03/2026"})
	require.NoError(t, err)
	ids := []string{}
	for _, inv := range page.Items {
		ids = append(ids, inv.ID)
	}
	assert.Equal(t, []string{"10", "2"}, ids)

	page, err = svc.ListInvoices(ctx, HistoryQuery{Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Pagination.Total)
}

func TestInvoiceService_InvalidRange(t *testing.T) {
	svc, _ := newInvoiceFixture(nil)

	_, err := svc.ListInvoices(context.Background(), HistoryQuery{From: "2026-13-45"})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = svc.ListInvoices(context.Background(), HistoryQuery{From: "10/03/2026", To: "01/03/2026"})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestInvoiceService_ExportCSV(t *testing.T) {
	svc, _ := newInvoiceFixture(nil)
	var buf bytes.Buffer

	require.NoError(t, svc.ExportCSV(context.Background(), HistoryQuery{Search: "sita"}, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Sita Stores")
}

func TestInvoiceService_GetInvoice(t *testing.T) {
	svc, _ := newInvoiceFixture(nil)

	inv, err := svc.GetInvoice(context.Background(), " 2 ")
	require.NoError(t, err)
	assert.Equal(t, "Sita Stores", inv.CustomerName)

	_, err = svc.GetInvoice(context.Background(), "99")
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestInvoiceService_WritePDFFallsBackOnImageErrors(t *testing.T) {
	images := &stubImages{err: errors.New("unreachable")}
	svc, settings := newInvoiceFixture(images)
	settings.stored.LogoURL = "https://example.com/logo.png"

	var buf bytes.Buffer
	require.NoError(t, svc.WritePDF(context.Background(), "1", &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Equal(t, []string{"https://example.com/logo.png"}, images.calls)
}
