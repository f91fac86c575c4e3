package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/config"
	"github.com/sangkips/gstbill-api/internal/domain/billing"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gstbill-api/internal/presentation/http/middleware"
	"github.com/sangkips/gstbill-api/pkg/apperror"
	"github.com/sangkips/gstbill-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()
	var body response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &billing.ValidationError{Field: "quantity", Err: billing.ErrInvalidQuantity}, http.StatusUnprocessableEntity},
		{"locked", billing.ErrCartLocked, http.StatusConflict},
		{"saving", fmt.Errorf("save: %w", billing.ErrSaveInProgress), http.StatusConflict},
		{"missing line", billing.ErrLineNotFound, http.StatusNotFound},
		{"empty cart", billing.ErrEmptyCart, http.StatusUnprocessableEntity},
		{"app error", apperror.NewNotFoundError("Invoice"), http.StatusNotFound},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, apperror.GetAppError(domainError(tt.err)).Code)
		})
	}
}

func TestDomainError_HidesInternalDetail(t *testing.T) {
	mapped := apperror.GetAppError(domainError(errors.New("pq: password authentication failed")))
	assert.Equal(t, "Internal server error", mapped.Message)
}

func TestDomainError_ValidationField(t *testing.T) {
	mapped := apperror.GetAppError(domainError(&billing.ValidationError{Field: "rate", Err: billing.ErrInvalidRate}))
	require.Len(t, mapped.Errors, 1)
	assert.Equal(t, "rate", mapped.Errors[0].Field)
}

func TestParseID(t *testing.T) {
	router := gin.New()
	router.GET("/products/:id", func(c *gin.Context) {
		if _, ok := parseID(c, "id"); ok {
			c.Status(http.StatusOK)
		}
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/6f1c2a4e-8a4b-4d4f-9b71-3f0cf1f7d2aa", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func newAuthRouter(t *testing.T) (*gin.Engine, *utils.JWTManager) {
	t.Helper()
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	h := NewAuthHandler(service.NewAuthService(config.OperatorConfig{Username: "admin", PasswordHash: hash}, jwtManager))

	router := gin.New()
	router.POST("/auth/login", h.Login)
	router.GET("/auth/me", middleware.AuthMiddleware(jwtManager), h.Me)
	return router, jwtManager
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"username":"admin","password":"s3cret"}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", body))
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := decodeBody(t, rec).Data.(map[string]interface{})
	require.True(t, ok)
	token, _ := data["access_token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	me, _ := decodeBody(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "admin", me["operator"])

	// EventSource clients pass the token in the query.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me?access_token="+token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_Rejects(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"username":"admin","password":"nope"}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", body))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type stubSubscriber struct {
	events chan entity.Event
}

func (s *stubSubscriber) Subscribe(ctx context.Context, _ entity.EventTopic) (<-chan entity.Event, error) {
	return s.events, nil
}

func TestEventsHandler_Availability(t *testing.T) {
	router := gin.New()
	router.GET("/off/:topic", NewEventsHandler(nil).Stream)
	router.GET("/on/:topic", NewEventsHandler(&stubSubscriber{events: make(chan entity.Event)}).Stream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/off/invoices", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/on/orders", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// closeNotifyingRecorder satisfies http.CloseNotifier, which gin's Stream
// requires.
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestEventsHandler_StreamsUntilClosed(t *testing.T) {
	events := make(chan entity.Event, 1)
	events <- entity.NewEvent(entity.TopicInvoices, entity.ActionCreated, "7")
	close(events)

	router := gin.New()
	router.GET("/events/:topic", NewEventsHandler(&stubSubscriber{events: events}).Stream)

	rec := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/invoices", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event:invoices")
	assert.Contains(t, rec.Body.String(), `"id":"7"`)
}
