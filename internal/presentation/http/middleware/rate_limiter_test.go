package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClientRateLimiter_PerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if op := c.GetHeader("X-Operator"); op != "" {
			c.Set(OperatorKey, op)
		}
	})
	router.Use(rl.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(operator string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if operator != "" {
			req.Header.Set("X-Operator", operator)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, hit("admin"))
	assert.Equal(t, http.StatusOK, hit("admin"))
	assert.Equal(t, http.StatusTooManyRequests, hit("admin"))

	// Anonymous callers are keyed by IP and keep their own budget.
	assert.Equal(t, http.StatusOK, hit(""))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		url    string
		want   string
	}{
		{"header", "Bearer abc", "/", "abc"},
		{"lowercase scheme", "bearer abc", "/", "abc"},
		{"wrong scheme", "Basic abc", "/", ""},
		{"query fallback", "", "/?access_token=xyz", "xyz"},
		{"header wins", "Bearer abc", "/?access_token=xyz", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, bearerToken(c))
		})
	}
}
