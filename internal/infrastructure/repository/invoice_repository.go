package repository

import (
	"context"
	"errors"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gstbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// InvoiceStore is the gorm implementation of both the bill repository and
// the atomic bill committer.
type InvoiceStore interface {
	domainRepo.InvoiceRepository
	domainRepo.InvoiceCommitter
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceStore {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return translate(r.db.WithContext(ctx).Create(invoice).Error)
}

// CommitInvoice inserts the bill and advances the counter in one
// transaction. Either both happen or neither does.
func (r *invoiceRepository) CommitInvoice(ctx context.Context, invoice *entity.Invoice, expectedNext int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := translate(tx.Create(invoice).Error); err != nil {
			return err
		}
		return advanceCounter(tx, expectedNext)
	})
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) List(ctx context.Context) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("sequence DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) MaxBillNo(ctx context.Context) (int64, error) {
	var highest int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&highest).Error
	return highest, err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateBillNo
	}
	return err
}
