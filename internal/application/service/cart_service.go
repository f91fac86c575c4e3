package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/billing"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/enum"
	"github.com/sangkips/gstbill-api/internal/domain/render"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CartDependencies are the collaborators of a CartService. Committer and
// Drafts are optional.
type CartDependencies struct {
	Operator     string
	Products     repository.ProductRepository
	Invoices     repository.InvoiceRepository
	Committer    repository.InvoiceCommitter
	SettingsRepo repository.SettingsRepository
	Settings     *SettingsService
	Drafts       repository.DraftStore
	Events       repository.EventPublisher
	Layout       render.Options
	Now          func() time.Time
}

// CartService drives the bill being composed by the operator.
type CartService struct {
	deps CartDependencies
	cart *billing.Cart
}

// NewCartService creates a cart service with an empty cart. Call Load to
// pick up stored settings and any saved draft.
func NewCartService(deps CartDependencies) *CartService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &CartService{
		deps: deps,
		cart: billing.NewCart(entity.DefaultBusinessSettings(), deps.Now),
	}
}

// Load restores the operator's draft, if any, and applies current settings.
func (s *CartService) Load(ctx context.Context) error {
	if s.deps.Drafts != nil {
		draft, err := s.deps.Drafts.Load(ctx, s.deps.Operator)
		if err != nil {
			log.Printf("Warning: failed to load cart draft: %v", err)
		} else if draft != nil {
			s.cart.Restore(*draft)
			log.Printf("Restored cart draft for %s (bill %s, %d lines)", s.deps.Operator, draft.Header.BillNo, len(draft.Items))
		}
	}
	_, err := s.refresh(ctx)
	return err
}

// SaveResult is the outcome of a successful save.
type SaveResult struct {
	Invoice *entity.Invoice  `json:"invoice"`
	Cart    billing.Snapshot `json:"cart"`
	Mode    string           `json:"mode"`
	Drifted bool             `json:"sequence_drift"`
	Warning string           `json:"warning,omitempty"`
}

// View returns the current cart.
func (s *CartService) View(ctx context.Context) (billing.Snapshot, error) {
	if _, err := s.refresh(ctx); err != nil {
		return billing.Snapshot{}, err
	}
	return s.cart.Snapshot(), nil
}

// Preview lays out the current cart exactly as it will print.
func (s *CartService) Preview(ctx context.Context) (render.Layout, error) {
	settings, err := s.refresh(ctx)
	if err != nil {
		return render.Layout{}, err
	}
	return render.BuildPreview(s.cart.Snapshot(), settings, s.deps.Layout), nil
}

// AddItem adds qty of a catalog product to the cart.
func (s *CartService) AddItem(ctx context.Context, productID uuid.UUID, qty decimal.Decimal) (billing.Snapshot, error) {
	if _, err := s.refresh(ctx); err != nil {
		return billing.Snapshot{}, err
	}
	product, err := s.deps.Products.GetByID(ctx, productID)
	if err != nil {
		return billing.Snapshot{}, err
	}
	if product == nil {
		return billing.Snapshot{}, apperror.NewNotFoundError("Product")
	}
	if _, err := s.cart.AddItem(*product, qty); err != nil {
		return billing.Snapshot{}, err
	}
	return s.changed(ctx), nil
}

// AdjustQuantity moves a line's quantity by delta.
func (s *CartService) AdjustQuantity(ctx context.Context, lineID uuid.UUID, delta decimal.Decimal) (billing.Snapshot, error) {
	if _, err := s.cart.AdjustQuantity(lineID, delta); err != nil {
		return billing.Snapshot{}, err
	}
	return s.changed(ctx), nil
}

// RemoveItem drops a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, lineID uuid.UUID) (billing.Snapshot, error) {
	if err := s.cart.RemoveItem(lineID); err != nil {
		return billing.Snapshot{}, err
	}
	return s.changed(ctx), nil
}

// SetHeader edits the date and customer of the cart.
func (s *CartService) SetHeader(ctx context.Context, patch billing.HeaderPatch) (billing.Snapshot, error) {
	if err := s.cart.SetHeader(patch); err != nil {
		return billing.Snapshot{}, err
	}
	return s.changed(ctx), nil
}

// Reset starts a new bill with the next bill number.
func (s *CartService) Reset(ctx context.Context) (billing.Snapshot, error) {
	if err := s.cart.Reset(); err != nil {
		return billing.Snapshot{}, err
	}
	if _, err := s.refresh(ctx); err != nil {
		log.Printf("Warning: cart reset with stale settings: %v", err)
	}
	s.publish(ctx, entity.NewEvent(entity.TopicCart, entity.ActionReset, ""))
	return s.changed(ctx), nil
}

// Save stores the cart as a bill and advances the bill counter. The cart
// stops accepting edits before any I/O starts. A failed save leaves the
// cart editable with its contents intact.
//
// When the bill is stored but the counter could not be advanced the save
// still succeeds; the result carries a warning and Drifted is set.
func (s *CartService) Save(ctx context.Context) (*SaveResult, error) {
	if _, err := s.refresh(ctx); err != nil {
		return nil, err
	}
	doc, err := s.cart.BeginSave()
	if err != nil {
		return nil, err
	}

	mode, err := s.persist(ctx, doc)
	if state := s.cart.FinishSave(err); state != enum.CartLocked {
		if _, rerr := s.refresh(ctx); rerr != nil {
			log.Printf("Warning: failed to reload settings after save error: %v", rerr)
		}
		s.changed(ctx)
		return nil, saveError(err)
	}

	result := &SaveResult{
		Invoice: doc,
		Cart:    s.changed(ctx),
		Mode:    mode,
	}
	var drift *billing.SequenceDriftError
	if errors.As(err, &drift) {
		log.Printf("WARNING: sequence drift after bill %s: %v", drift.BillNo, drift.Err)
		result.Drifted = true
		result.Warning = drift.Error() + "; run settings reconcile before the next bill"
	}
	s.publish(ctx, entity.NewEvent(entity.TopicInvoices, entity.ActionCreated, doc.ID))
	return result, nil
}

func (s *CartService) persist(ctx context.Context, doc *entity.Invoice) (string, error) {
	if s.deps.Committer != nil {
		return "atomic", s.deps.Committer.CommitInvoice(ctx, doc, doc.Sequence)
	}

	if err := s.deps.Invoices.Create(ctx, doc); err != nil {
		return "two-phase", err
	}
	if err := s.deps.SettingsRepo.AdvanceCounter(ctx, doc.Sequence); err != nil {
		return "two-phase", &billing.SequenceDriftError{BillNo: doc.ID, Err: err}
	}
	return "two-phase", nil
}

func saveError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateBillNo):
		return apperror.NewConflictError("Bill number already used; reconcile the bill counter and save again")
	case errors.Is(err, repository.ErrCounterMoved):
		return apperror.NewConflictError("Bill number changed while saving; the next number has been loaded, save again")
	}
	return fmt.Errorf("save bill: %w", err)
}

// refresh loads settings and applies them to an editable cart.
func (s *CartService) refresh(ctx context.Context) (entity.BusinessSettings, error) {
	settings, err := s.deps.Settings.GetSettings(ctx)
	if err != nil {
		return entity.BusinessSettings{}, err
	}
	s.cart.ApplySettings(settings)
	return settings, nil
}

// changed stores the draft and returns the new snapshot.
func (s *CartService) changed(ctx context.Context) billing.Snapshot {
	if s.deps.Drafts != nil {
		if err := s.deps.Drafts.Save(ctx, s.deps.Operator, s.cart.Draft()); err != nil {
			log.Printf("Warning: failed to store cart draft: %v", err)
		}
	}
	return s.cart.Snapshot()
}

func (s *CartService) publish(ctx context.Context, event entity.Event) {
	if err := s.deps.Events.Publish(ctx, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event.Topic, err)
	}
}
