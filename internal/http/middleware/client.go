package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
)

// ClientIP extracts the caller's address: first hop of X-Forwarded-For, then
// X-Real-IP, then the socket address. A proxy misconfiguration yields
// "unknown", which degrades into a single shared rate-limit bucket.
func ClientIP(c *gin.Context) string {
	forwarded := strings.TrimSpace(c.GetHeader("X-Forwarded-For"))
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}

	if c.Request.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
			return host
		}
		return c.Request.RemoteAddr
	}

	return "unknown"
}

// ClientFrom builds the audit client context for a request.
func ClientFrom(c *gin.Context) *domain.ClientContext {
	return &domain.ClientContext{
		IPAddress: ClientIP(c),
		UserAgent: c.Request.UserAgent(),
	}
}
