package service

import (
	"context"
	"testing"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileService_CorrectsDrift(t *testing.T) {
	settings := newFakeSettings(2)
	invoices := newFakeInvoices(settings, savedBill(1, "01/03/2026", "A", "1"), savedBill(5, "02/03/2026", "B", "1"))
	events := &fakePublisher{}
	svc := NewReconcileService(invoices, settings, nil, events)

	status, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Drifted)
	assert.Equal(t, int64(5), status.MaxBillNo)

	status, err = svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Corrected)
	assert.False(t, status.Drifted)
	assert.Equal(t, int64(6), status.NextInvoiceNumber)
	assert.Equal(t, int64(6), settings.next())
	assert.Equal(t, []string{entity.ActionReconciled}, events.actions(entity.TopicSettings))
}

func TestReconcileService_LeavesCounterAhead(t *testing.T) {
	settings := newFakeSettings(20)
	invoices := newFakeInvoices(settings, savedBill(5, "02/03/2026", "B", "1"))
	events := &fakePublisher{}
	svc := NewReconcileService(invoices, settings, nil, events)

	status, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Corrected)
	assert.Equal(t, int64(20), settings.next())
	assert.Empty(t, events.actions(entity.TopicSettings))
}

func TestReconcileService_Scheduler(t *testing.T) {
	settings := newFakeSettings(1)
	svc := NewReconcileService(newFakeInvoices(settings), settings, nil, &fakePublisher{})

	assert.Error(t, svc.StartScheduler("every now and then"))
	require.NoError(t, svc.StartScheduler(""))
	require.NoError(t, svc.StartScheduler("@every 1h"))
	svc.Stop()
}

type fakeIdempotency struct {
	swept int
}

func (f *fakeIdempotency) GetByKey(context.Context, string, string) (*entity.IdempotencyKey, error) {
	return nil, nil
}

func (f *fakeIdempotency) Create(context.Context, *entity.IdempotencyKey) error { return nil }

func (f *fakeIdempotency) DeleteExpired(context.Context) (int64, error) {
	f.swept++
	return 3, nil
}

func TestReconcileService_MaintenanceSweepsKeys(t *testing.T) {
	settings := newFakeSettings(1)
	invoices := newFakeInvoices(settings, savedBill(4, "02/03/2026", "B", "1"))
	keys := &fakeIdempotency{}
	svc := NewReconcileService(invoices, settings, keys, &fakePublisher{})

	svc.runMaintenance()

	assert.Equal(t, 1, keys.swept)
	assert.Equal(t, int64(5), settings.next())
}
