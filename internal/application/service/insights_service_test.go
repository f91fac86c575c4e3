package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sangkips/gstbill-api/internal/domain/insight"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	enabled bool
	resp    *insight.Response
	err     error
	got     *insight.Request
}

func (s *stubGenerator) Enabled() bool { return s.enabled }

func (s *stubGenerator) Generate(_ context.Context, req insight.Request) (*insight.Response, error) {
	s.got = &req
	return s.resp, s.err
}

func newInsightsFixture(gen InsightGenerator) *InsightsService {
	settings := newFakeSettings(4)
	invoices := newFakeInvoices(settings,
		savedBill(1, "01/03/2026", "Ramesh Traders", "100"),
		savedBill(2, "05/03/2026", "Sita Stores", "250"),
		savedBill(3, "??", "Ramesh Traders", "50"),
	)
	return NewInsightsService(invoices, gen)
}

func TestInsightsService_Summary(t *testing.T) {
	svc := newInsightsFixture(nil)

	summary, err := svc.Summary(context.Background(), "02/03/2026", "", 5)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.BillCount)
	assert.Equal(t, "300", summary.TotalRevenue.String())
	assert.Equal(t, 1, summary.UndatedBills)
	require.Len(t, summary.Daily, 1)
	assert.Equal(t, "05/03/2026", summary.Daily[0].Date)

	_, err = svc.Summary(context.Background(), "yesterday", "", 5)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestInsightsService_Generate(t *testing.T) {
	gen := &stubGenerator{enabled: true, resp: &insight.Response{HealthSummary: "Steady", Tips: []string{}}}
	svc := newInsightsFixture(gen)

	resp, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Steady", resp.HealthSummary)
	require.NotNil(t, gen.got)
	assert.Equal(t, 3, gen.got.Metrics.BillCount)
	assert.Equal(t, "3", gen.got.Transactions[0].BillNo)
}

func TestInsightsService_GenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		gen  InsightGenerator
		code int
	}{
		{"no generator", nil, http.StatusServiceUnavailable},
		{"disabled", &stubGenerator{}, http.StatusServiceUnavailable},
		{"breaker open", &stubGenerator{enabled: true, err: fmt.Errorf("%w: open", insight.ErrUnavailable)}, http.StatusServiceUnavailable},
		{"provider failure", &stubGenerator{enabled: true, err: errors.New("boom")}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newInsightsFixture(tt.gen).Generate(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.code, apperror.GetAppError(err).Code)
		})
	}
}

func TestInsightsService_GenerateWithoutBills(t *testing.T) {
	settings := newFakeSettings(1)
	svc := NewInsightsService(newFakeInvoices(settings), &stubGenerator{enabled: true})

	_, err := svc.Generate(context.Background())
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}
