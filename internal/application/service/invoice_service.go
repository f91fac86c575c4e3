package service

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/history"
	"github.com/sangkips/gstbill-api/internal/domain/render"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/sangkips/gstbill-api/pkg/pagination"
)

// ImageFetcher loads decoration images referenced by settings.
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// InvoiceService serves saved bills: history, exports and printouts.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	settings    *SettingsService
	images      ImageFetcher
	layout      render.Options
}

// NewInvoiceService creates a new invoice service. images may be nil, in
// which case PDFs use the fallback decorations.
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	settings *SettingsService,
	images ImageFetcher,
	layout render.Options,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		settings:    settings,
		images:      images,
		layout:      layout,
	}
}

// HistoryQuery selects bills for the history screen and exports. From and
// To are day-first dates and may be empty.
type HistoryQuery struct {
	Search     string
	From       string
	To         string
	Pagination *pagination.PaginationParams
}

func (q HistoryQuery) filter() (history.Filter, error) {
	f := history.Filter{Search: q.Search}
	var errs []apperror.FieldError
	if v := strings.TrimSpace(q.From); v != "" {
		t, ok := history.ParseDate(v)
		if !ok {
			errs = append(errs, apperror.FieldError{Field: "from", Message: "must be a date like 31/12/2025"})
		}
		f.Range.From = &t
	}
	if v := strings.TrimSpace(q.To); v != "" {
		t, ok := history.ParseDate(v)
		if !ok {
			errs = append(errs, apperror.FieldError{Field: "to", Message: "must be a date like 31/12/2025"})
		}
		f.Range.To = &t
	}
	if len(errs) > 0 {
		return history.Filter{}, apperror.NewValidationError(errs)
	}
	if f.Range.From != nil && f.Range.To != nil && f.Range.To.Before(*f.Range.From) {
		return history.Filter{}, apperror.NewValidationError([]apperror.FieldError{{Field: "to", Message: "must not be before from"}})
	}
	return f, nil
}

// Matching returns every bill selected by q, highest bill number first.
func (s *InvoiceService) Matching(ctx context.Context, q HistoryQuery) ([]entity.Invoice, error) {
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	all, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return history.SortByBillNo(history.Apply(all, f)), nil
}

// ListInvoices returns one page of the bills selected by q.
func (s *InvoiceService) ListInvoices(ctx context.Context, q HistoryQuery) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, err := s.Matching(ctx, q)
	if err != nil {
		return nil, err
	}
	return pagination.Slice(invoices, q.Pagination), nil
}

// ExportCSV writes the bills selected by q as CSV.
func (s *InvoiceService) ExportCSV(ctx context.Context, q HistoryQuery, w io.Writer) error {
	invoices, err := s.Matching(ctx, q)
	if err != nil {
		return err
	}
	return history.WriteCSV(w, invoices)
}

// ExportXLSX writes the bills selected by q as a workbook.
func (s *InvoiceService) ExportXLSX(ctx context.Context, q HistoryQuery, w io.Writer) error {
	invoices, err := s.Matching(ctx, q)
	if err != nil {
		return err
	}
	return history.WriteXLSX(w, invoices)
}

// GetInvoice retrieves a saved bill by its bill number
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// Layout returns the printable layout of a saved bill with the current
// business identity.
func (s *InvoiceService) Layout(ctx context.Context, id string) (render.Layout, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return render.Layout{}, err
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return render.Layout{}, err
	}
	return render.Build(*invoice, settings, s.layout), nil
}

// WritePDF renders a saved bill as an A4 PDF.
func (s *InvoiceService) WritePDF(ctx context.Context, id string, w io.Writer) error {
	l, err := s.Layout(ctx, id)
	if err != nil {
		return err
	}
	return render.WritePDF(w, l, s.loadImages(ctx, l))
}

// loadImages fetches the logo and signature. Failures fall back to the
// badge and a blank signature area.
func (s *InvoiceService) loadImages(ctx context.Context, l render.Layout) render.Images {
	images := render.Images{}
	if s.images == nil {
		return images
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, ref := range []string{l.Header.Logo.ImageURL, l.Signature.ImageURL} {
		if ref == "" {
			continue
		}
		if _, done := images[ref]; done {
			continue
		}
		data, err := s.images.Fetch(ctx, ref)
		if err != nil {
			log.Printf("Warning: image %.60s not loaded: %v", ref, err)
			continue
		}
		images[ref] = data
	}
	return images
}
