package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const fallbackClientKey = "127.0.0.1"

// ClientKey derives the throttling identifier for a request. The first
// X-Forwarded-For entry wins so every hop behind the same proxy chain
// maps to one window; X-Real-IP is the fallback for proxies that only
// set that header.
func ClientKey(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first := strings.SplitN(forwarded, ",", 2)[0]
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}

	return fallbackClientKey
}
