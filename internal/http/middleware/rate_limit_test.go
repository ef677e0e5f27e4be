package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/mocks"
)

func TestRateLimit_UnderLimitPassesThrough(t *testing.T) {
	limiter := mocks.NewMockRateLimiter()
	auditLogger := mocks.NewMockAuditLogger()

	r := gin.New()
	r.POST("/login", RateLimit(limiter, auditLogger, "login"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := performRequest(r, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.Len(t, limiter.Checked, 1)
	assert.Equal(t, "login", limiter.Checked[0][0])
	assert.Empty(t, auditLogger.EventsOfType(domain.RateLimitTrippedEvent))
}

func TestRateLimit_Rejection(t *testing.T) {
	limiter := mocks.NewMockRateLimiter()
	limiter.CheckFunc = func(ctx context.Context, action, identity string) error {
		return &domain.RateLimitError{Action: action, Limit: 5, RetryAfter: 37 * time.Second}
	}
	auditLogger := mocks.NewMockAuditLogger()

	handlerCalled := false
	r := gin.New()
	r.POST("/login", RateLimit(limiter, auditLogger, "login"), func(c *gin.Context) {
		handlerCalled = true
	})

	w := performRequest(r, http.MethodPost, "/login", nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, handlerCalled)
	assert.Equal(t, "37", w.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["code"])
	assert.Equal(t, float64(37), body["retryAfter"])
	assert.NotEmpty(t, body["error"])

	assert.Len(t, auditLogger.EventsOfType(domain.RateLimitTrippedEvent), 1)
}

func TestRateLimit_BackendFailureFailsOpen(t *testing.T) {
	limiter := mocks.NewMockRateLimiter()
	limiter.CheckFunc = func(ctx context.Context, action, identity string) error {
		return context.DeadlineExceeded
	}
	auditLogger := mocks.NewMockAuditLogger()

	r := gin.New()
	r.POST("/login", RateLimit(limiter, auditLogger, "login"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := performRequest(r, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_KeyedByClientIP(t *testing.T) {
	limiter := mocks.NewMockRateLimiter()
	auditLogger := mocks.NewMockAuditLogger()

	r := gin.New()
	r.POST("/login", RateLimit(limiter, auditLogger, "login"), func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, limiter.Checked, 1)
	assert.Equal(t, "203.0.113.7", limiter.Checked[0][1])
}
