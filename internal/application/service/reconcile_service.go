package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
)

// SequenceStatus compares the bill counter with the stored bills.
type SequenceStatus struct {
	MaxBillNo         int64 `json:"max_bill_no"`
	NextInvoiceNumber int64 `json:"next_invoice_number"`
	Drifted           bool  `json:"drifted"`
	Corrected         bool  `json:"corrected"`
}

// ReconcileService keeps the next bill number ahead of every stored bill.
// It also sweeps expired idempotency keys on the same schedule.
type ReconcileService struct {
	invoiceRepo     repository.InvoiceRepository
	settingsRepo    repository.SettingsRepository
	idempotencyRepo repository.IdempotencyRepository
	events          repository.EventPublisher
	cron            *cron.Cron
}

// NewReconcileService creates a new reconcile service. idempotencyRepo may
// be nil.
func NewReconcileService(
	invoiceRepo repository.InvoiceRepository,
	settingsRepo repository.SettingsRepository,
	idempotencyRepo repository.IdempotencyRepository,
	events repository.EventPublisher,
) *ReconcileService {
	return &ReconcileService{
		invoiceRepo:     invoiceRepo,
		settingsRepo:    settingsRepo,
		idempotencyRepo: idempotencyRepo,
		events:          events,
	}
}

// Check reports whether the counter has fallen behind the stored bills.
func (s *ReconcileService) Check(ctx context.Context) (*SequenceStatus, error) {
	highest, err := s.invoiceRepo.MaxBillNo(ctx)
	if err != nil {
		return nil, fmt.Errorf("read highest bill number: %w", err)
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read bill counter: %w", err)
	}
	next := int64(1)
	if settings != nil && settings.NextInvoiceNumber > 0 {
		next = settings.NextInvoiceNumber
	}
	return &SequenceStatus{
		MaxBillNo:         highest,
		NextInvoiceNumber: next,
		Drifted:           next <= highest,
	}, nil
}

// Reconcile moves the counter to one past the highest stored bill when it
// has drifted. A counter already ahead is left alone.
func (s *ReconcileService) Reconcile(ctx context.Context) (*SequenceStatus, error) {
	status, err := s.Check(ctx)
	if err != nil {
		return nil, err
	}
	if !status.Drifted {
		return status, nil
	}

	next := status.MaxBillNo + 1
	if err := s.settingsRepo.SetCounter(ctx, next); err != nil {
		return nil, fmt.Errorf("correct bill counter: %w", err)
	}
	log.Printf("WARNING: sequence drift corrected, next bill number %d -> %d", status.NextInvoiceNumber, next)

	status.NextInvoiceNumber = next
	status.Drifted = false
	status.Corrected = true
	if err := s.events.Publish(ctx, entity.NewEvent(entity.TopicSettings, entity.ActionReconciled, "")); err != nil {
		log.Printf("Warning: failed to publish reconcile event: %v", err)
	}
	return status, nil
}

// StartScheduler runs maintenance on spec until Stop is called. An empty
// spec disables the schedule.
func (s *ReconcileService) StartScheduler(spec string) error {
	if spec == "" {
		log.Println("Bill counter reconcile schedule disabled")
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, s.runMaintenance); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	log.Printf("Bill counter reconcile scheduled (%s)", spec)
	return nil
}

// Stop halts the scheduler and waits for a running job.
func (s *ReconcileService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *ReconcileService) runMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.Reconcile(ctx); err != nil {
		log.Printf("Bill counter reconcile failed: %v", err)
	}
	if s.idempotencyRepo != nil {
		n, err := s.idempotencyRepo.DeleteExpired(ctx)
		if err != nil {
			log.Printf("Failed to delete expired idempotency keys: %v", err)
		} else if n > 0 {
			log.Printf("Deleted %d expired idempotency keys", n)
		}
	}
}
