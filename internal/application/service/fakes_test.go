package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/billing"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/pkg/pagination"
)

type fakeProducts struct {
	mu    sync.Mutex
	items map[uuid.UUID]entity.Product
}

func newFakeProducts(products ...entity.Product) *fakeProducts {
	f := &fakeProducts{items: map[uuid.UUID]entity.Product{}}
	for _, p := range products {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.ID] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) List(_ context.Context, params *pagination.PaginationParams, search string) ([]entity.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Product
	for _, p := range f.items {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

type fakeSettings struct {
	mu         sync.Mutex
	stored     *entity.BusinessSettings
	advanceErr error
}

func newFakeSettings(next int64) *fakeSettings {
	s := entity.DefaultBusinessSettings()
	s.NextInvoiceNumber = next
	return &fakeSettings{stored: &s}
}

func (f *fakeSettings) Get(context.Context) (*entity.BusinessSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		return nil, nil
	}
	s := *f.stored
	return &s, nil
}

func (f *fakeSettings) Save(_ context.Context, s *entity.BusinessSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current := int64(0)
	if f.stored != nil {
		current = f.stored.Version
	}
	if s.Version != current {
		return repository.ErrVersionConflict
	}
	s.Version++
	saved := *s
	if f.stored != nil {
		saved.NextInvoiceNumber = f.stored.NextInvoiceNumber
	}
	f.stored = &saved
	return nil
}

func (f *fakeSettings) AdvanceCounter(_ context.Context, from int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.advance(from)
}

func (f *fakeSettings) advance(from int64) error {
	if f.advanceErr != nil {
		return f.advanceErr
	}
	if f.stored.NextInvoiceNumber != from {
		return repository.ErrCounterMoved
	}
	f.stored.NextInvoiceNumber++
	f.stored.Version++
	return nil
}

func (f *fakeSettings) SetCounter(_ context.Context, next int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored.NextInvoiceNumber = next
	return nil
}

func (f *fakeSettings) next() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored.NextInvoiceNumber
}

type fakeInvoices struct {
	mu        sync.Mutex
	items     map[string]entity.Invoice
	createErr error
	settings  *fakeSettings
}

func newFakeInvoices(settings *fakeSettings, invoices ...entity.Invoice) *fakeInvoices {
	f := &fakeInvoices{items: map[string]entity.Invoice{}, settings: settings}
	for _, inv := range invoices {
		f.items[inv.ID] = inv
	}
	return f
}

func (f *fakeInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.create(inv)
}

func (f *fakeInvoices) create(inv *entity.Invoice) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, taken := f.items[inv.ID]; taken {
		return repository.ErrDuplicateBillNo
	}
	f.items[inv.ID] = *inv
	return nil
}

// CommitInvoice stores the bill and advances the counter, or does neither.
func (f *fakeInvoices) CommitInvoice(_ context.Context, inv *entity.Invoice, expectedNext int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings.mu.Lock()
	defer f.settings.mu.Unlock()
	if err := f.create(inv); err != nil {
		return err
	}
	if err := f.settings.advance(expectedNext); err != nil {
		delete(f.items, inv.ID)
		return err
	}
	return nil
}

func (f *fakeInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (f *fakeInvoices) List(context.Context) ([]entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Invoice, 0, len(f.items))
	for _, inv := range f.items {
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeInvoices) MaxBillNo(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var highest int64
	for _, inv := range f.items {
		if inv.Sequence > highest {
			highest = inv.Sequence
		}
	}
	return highest, nil
}

func (f *fakeInvoices) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id]
	return ok
}

type fakePublisher struct {
	mu     sync.Mutex
	events []entity.Event
}

func (f *fakePublisher) Publish(_ context.Context, e entity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) actions(topic entity.EventTopic) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.events {
		if e.Topic == topic {
			out = append(out, e.Action)
		}
	}
	return out
}

type fakeDrafts struct {
	mu     sync.Mutex
	drafts map[string]billing.Draft
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{drafts: map[string]billing.Draft{}}
}

func (f *fakeDrafts) Load(_ context.Context, operator string) (*billing.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[operator]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeDrafts) Save(_ context.Context, operator string, d billing.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[operator] = d
	return nil
}

func (f *fakeDrafts) Delete(_ context.Context, operator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, operator)
	return nil
}
