package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/response"
)

func safeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CSRF requires state-changing requests to echo the session's CSRF token in
// the X-CSRF-Token header. It must run after Auth.
func CSRF(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if safeMethod(c.Request.Method) {
			c.Next()
			return
		}
		sess := Session(c)
		got := c.GetHeader(helpers.CSRFHeader)
		if sess == nil || sess.CSRFToken == "" || got == "" || !helpers.TokensEqual(sess.CSRFToken, got) {
			helpers.LogSecurityEvent(logger, helpers.EventCSRFRejected,
				"csrf token rejected on "+c.Request.Method+" "+c.Request.URL.Path, UserID(c))
			response.Abort(c, http.StatusForbidden, "invalid csrf token", gin.H{"code": "csrf_rejected"})
			return
		}
		c.Next()
	}
}
