package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sangkips/gstbill-api/internal/config"
	"github.com/sangkips/gstbill-api/internal/domain/insight"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() insight.Request {
	return insight.Request{
		Metrics: insight.Metrics{
			TotalRevenue:     decimal.NewFromInt(900),
			BillCount:        3,
			AverageBillValue: decimal.NewFromInt(300),
			TopProduct:       "Rice",
		},
		Transactions: []insight.Transaction{{BillNo: "3", Date: "02/03/2026", Customer: "Ravi", Total: decimal.NewFromInt(100)}},
	}
}

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var got insight.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, 3, got.Metrics.BillCount)
		assert.Equal(t, "Rice", got.Metrics.TopProduct)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"healthSummary":"Healthy","productInsight":"Rice leads","customerInsight":"Ravi returns","tips":["Stock rice"]}`))
	}))
	defer server.Close()

	client := NewClient(config.InsightsConfig{Endpoint: server.URL, APIKey: "secret"})
	resp, err := client.Generate(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "Healthy", resp.HealthSummary)
	assert.Equal(t, []string{"Stock rice"}, resp.Tips)
}

func TestGenerate_NotConfigured(t *testing.T) {
	client := NewClient(config.InsightsConfig{})

	assert.False(t, client.Enabled())
	_, err := client.Generate(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerate_IncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tips":[]}`))
	}))
	defer server.Close()

	client := NewClient(config.InsightsConfig{Endpoint: server.URL})
	_, err := client.Generate(context.Background(), sampleRequest())

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGenerate_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(config.InsightsConfig{Endpoint: server.URL})
	_, err := client.Generate(context.Background(), sampleRequest())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "bad key", se.Body)
}

func TestGenerate_BreakerOpensAfterFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(config.InsightsConfig{Endpoint: server.URL})
	for i := 0; i < 3; i++ {
		_, err := client.Generate(context.Background(), sampleRequest())
		require.Error(t, err)
	}

	_, err := client.Generate(context.Background(), sampleRequest())

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGenerate_ClientErrorsDoNotTrip(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(config.InsightsConfig{Endpoint: server.URL})
	for i := 0; i < 5; i++ {
		_, err := client.Generate(context.Background(), sampleRequest())
		assert.NotErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}
