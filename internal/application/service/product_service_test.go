package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/sangkips/gstbill-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_Lifecycle(t *testing.T) {
	events := &fakePublisher{}
	svc := NewProductService(newFakeProducts(), events)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, &CreateProductInput{Name: " Rice ", Price: decimal.NewFromInt(60), Unit: "Bag"})
	require.NoError(t, err)
	assert.Equal(t, "Rice", created.Name)

	price := decimal.NewFromInt(65)
	updated, err := svc.UpdateProduct(ctx, &UpdateProductInput{ID: created.ID, Price: &price})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))

	page, err := svc.ListProducts(ctx, pagination.DefaultPagination(), "ric")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	_, err = svc.GetProduct(ctx, created.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	assert.Equal(t, []string{entity.ActionCreated, entity.ActionUpdated, entity.ActionDeleted}, events.actions(entity.TopicProducts))
}

func TestProductService_RejectsNegativePrice(t *testing.T) {
	svc := NewProductService(newFakeProducts(), &fakePublisher{})

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{Name: "Oil", Price: decimal.NewFromInt(-1)})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}
