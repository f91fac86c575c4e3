package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/billing"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/enum"
	"github.com/sangkips/gstbill-api/internal/domain/render"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	svc      *CartService
	products *fakeProducts
	settings *fakeSettings
	invoices *fakeInvoices
	events   *fakePublisher
	drafts   *fakeDrafts
	rice     entity.Product
}

func newCartFixture(t *testing.T, atomic bool) *cartFixture {
	t.Helper()
	rice := entity.Product{ID: uuid.New(), Name: "Rice", Price: decimal.NewFromInt(60), Unit: "Bag", Packing: "25 kg"}
	f := &cartFixture{
		products: newFakeProducts(rice),
		settings: newFakeSettings(7),
		events:   &fakePublisher{},
		drafts:   newFakeDrafts(),
		rice:     rice,
	}
	f.invoices = newFakeInvoices(f.settings)
	f.svc = f.newService(atomic)
	require.NoError(t, f.svc.Load(context.Background()))
	return f
}

func (f *cartFixture) newService(atomic bool) *CartService {
	deps := CartDependencies{
		Operator:     "admin",
		Products:     f.products,
		Invoices:     f.invoices,
		SettingsRepo: f.settings,
		Settings:     NewSettingsService(f.settings, f.events),
		Drafts:       f.drafts,
		Events:       f.events,
		Layout:       render.DefaultOptions(),
		Now:          func() time.Time { return time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC) },
	}
	if atomic {
		deps.Committer = f.invoices
	}
	return NewCartService(deps)
}

func (f *cartFixture) fill(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.AddItem(ctx, f.rice.ID, decimal.NewFromInt(2))
	require.NoError(t, err)
	name := "Ramesh Traders"
	_, err = f.svc.SetHeader(ctx, billing.HeaderPatch{CustomerName: &name})
	require.NoError(t, err)
}

func TestCartService_AtomicSave(t *testing.T) {
	f := newCartFixture(t, true)
	ctx := context.Background()
	f.fill(t)

	result, err := f.svc.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, "atomic", result.Mode)
	assert.False(t, result.Drifted)
	assert.Equal(t, "7", result.Invoice.ID)
	assert.Equal(t, enum.CartLocked, result.Cart.State)
	assert.True(t, f.invoices.has("7"))
	assert.Equal(t, int64(8), f.settings.next())
	assert.Equal(t, []string{entity.ActionCreated}, f.events.actions(entity.TopicInvoices))

	_, err = f.svc.AddItem(ctx, f.rice.ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, billing.ErrCartLocked)

	snap, err := f.svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "8", snap.Header.BillNo)
	assert.Equal(t, enum.CartEditable, snap.State)
	assert.Empty(t, snap.Items)
}

func TestCartService_TwoPhaseDrift(t *testing.T) {
	f := newCartFixture(t, false)
	f.fill(t)
	f.settings.advanceErr = errors.New("connection reset")

	result, err := f.svc.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "two-phase", result.Mode)
	assert.True(t, result.Drifted)
	assert.NotEmpty(t, result.Warning)
	assert.Equal(t, enum.CartLocked, result.Cart.State)
	assert.True(t, f.invoices.has("7"))
	assert.Equal(t, int64(7), f.settings.next())
}

func TestCartService_FailedSaveUnlocks(t *testing.T) {
	f := newCartFixture(t, false)
	f.fill(t)
	f.invoices.createErr = errors.New("disk full")

	_, err := f.svc.Save(context.Background())
	require.Error(t, err)

	snap, err := f.svc.View(context.Background())
	require.NoError(t, err)
	assert.Equal(t, enum.CartEditable, snap.State)
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, "Ramesh Traders", snap.Header.CustomerName)
	assert.Empty(t, f.events.actions(entity.TopicInvoices))
}

func TestCartService_DuplicateBillNo(t *testing.T) {
	f := newCartFixture(t, true)
	f.invoices.items["7"] = entity.Invoice{ID: "7", Sequence: 7}
	f.fill(t)

	_, err := f.svc.Save(context.Background())
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	snap, err := f.svc.View(context.Background())
	require.NoError(t, err)
	assert.Equal(t, enum.CartEditable, snap.State)
	assert.Equal(t, int64(7), f.settings.next())
}

func TestCartService_SaveValidation(t *testing.T) {
	f := newCartFixture(t, true)

	_, err := f.svc.Save(context.Background())
	assert.ErrorIs(t, err, billing.ErrEmptyCart)

	_, err = f.svc.AddItem(context.Background(), uuid.New(), decimal.NewFromInt(1))
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestCartService_DraftSurvivesRestart(t *testing.T) {
	f := newCartFixture(t, true)
	f.fill(t)

	restarted := f.newService(true)
	require.NoError(t, restarted.Load(context.Background()))

	snap, err := restarted.View(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Rice", snap.Items[0].Name)
	assert.Equal(t, "Ramesh Traders", snap.Header.CustomerName)
}

func TestCartService_PreviewUsesSettings(t *testing.T) {
	f := newCartFixture(t, true)
	f.fill(t)

	l, err := f.svc.Preview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "7", l.Meta.BillNo)
	assert.Equal(t, entity.DefaultBusinessName, l.Header.BusinessName)
	assert.GreaterOrEqual(t, len(l.Rows), 12)
}
