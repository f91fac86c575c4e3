package repository

import (
	"context"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

// InvoiceRepository stores saved bills. Bills are never updated.
type InvoiceRepository interface {
	// Create stores a bill with its lines. A taken id yields ErrDuplicateBillNo.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// List returns every bill with its lines.
	List(ctx context.Context) ([]entity.Invoice, error)
	// MaxBillNo returns the highest stored sequence, or 0.
	MaxBillNo(ctx context.Context) (int64, error)
}

// InvoiceCommitter stores a bill and advances the next bill number from
// expectedNext as one unit of work.
type InvoiceCommitter interface {
	CommitInvoice(ctx context.Context, invoice *entity.Invoice, expectedNext int64) error
}
