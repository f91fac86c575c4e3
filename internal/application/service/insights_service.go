package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/sangkips/gstbill-api/internal/domain/insight"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/pkg/apperror"
)

// InsightGenerator turns a sales payload into narrative advice.
type InsightGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, req insight.Request) (*insight.Response, error)
}

// InsightsService computes analytics figures and asks the provider for
// narrative insights.
type InsightsService struct {
	invoiceRepo repository.InvoiceRepository
	generator   InsightGenerator
}

// NewInsightsService creates a new insights service
func NewInsightsService(invoiceRepo repository.InvoiceRepository, generator InsightGenerator) *InsightsService {
	return &InsightsService{
		invoiceRepo: invoiceRepo,
		generator:   generator,
	}
}

// Summary returns the analytics figures for bills between from and to.
func (s *InsightsService) Summary(ctx context.Context, from, to string, limit int) (*insight.Summary, error) {
	f, err := HistoryQuery{From: from, To: to}.filter()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	summary := insight.Summarize(invoices, f.Range, limit)
	return &summary, nil
}

// BuildRequest returns the payload that would be sent to the provider.
func (s *InsightsService) BuildRequest(ctx context.Context) (*insight.Request, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	req := insight.BuildRequest(invoices)
	return &req, nil
}

// Generate asks the provider to analyse every saved bill.
func (s *InsightsService) Generate(ctx context.Context) (*insight.Response, error) {
	if s.generator == nil || !s.generator.Enabled() {
		return nil, apperror.NewUnavailableError("AI insights are not configured")
	}
	req, err := s.BuildRequest(ctx)
	if err != nil {
		return nil, err
	}
	if req.Metrics.BillCount == 0 {
		return nil, apperror.NewUnprocessableError("No bills saved yet; save a bill before requesting insights")
	}

	resp, err := s.generator.Generate(ctx, *req)
	switch {
	case err == nil:
		return resp, nil
	case errors.Is(err, insight.ErrNotConfigured):
		return nil, apperror.NewUnavailableError("AI insights are not configured")
	case errors.Is(err, insight.ErrUnavailable):
		return nil, apperror.NewUnavailableError("AI insights are temporarily unavailable, try again shortly")
	case errors.Is(err, context.Canceled):
		return nil, err
	}
	return nil, apperror.Wrap(http.StatusBadGateway, "AI insights provider failed", err)
}
