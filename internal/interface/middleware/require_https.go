package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func isHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

// RequireHTTPS redirects plain http requests to the https origin when enabled.
// 308 keeps the method and body for POST.
func RequireHTTPS(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || isHTTPS(c) {
			c.Next()
			return
		}
		target := "https://" + c.Request.Host + c.Request.URL.RequestURI()
		c.Redirect(http.StatusPermanentRedirect, target)
		c.Abort()
	}
}
