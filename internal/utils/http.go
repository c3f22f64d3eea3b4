package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealClientIP resolves the originating client address for audit rows.
// Behind the reverse proxy the connection peer is the proxy itself, so the
// proxy-set headers win over the socket address.
func GetRealClientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	// First hop of the forwarded chain is the original client
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	return c.ClientIP()
}
