package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// RateLimit keys the limiter by (action, client IP) and rejects over-limit
// callers with the platform's uniform 429 body before the handler runs. The
// trip is audited; limiter backend failures fail open so a redis outage does
// not take authentication down with it.
func RateLimit(limiter domain.RateLimiter, auditLogger domain.AuditLogger, action string) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		identity := ClientIP(c)

		err := limiter.Check(c.Request.Context(), action, identity)
		if err == nil {
			c.Next()
			return
		}

		var rle *domain.RateLimitError
		if errors.As(err, &rle) {
			retryAfter := int(rle.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			auditLogger.LogSecurity(c.Request.Context(), domain.RateLimitTrippedEvent, ClientFrom(c), map[string]any{
				"action": action,
				"limit":  rle.Limit,
			})
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests",
				"code":       "RATE_LIMIT_EXCEEDED",
				"retryAfter": retryAfter,
			})
			c.Abort()
			return
		}

		// Backend failure: admit the request rather than lock everyone out.
		c.Next()
	})
}
