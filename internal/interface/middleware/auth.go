package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserIDKey  = "userID"
	CtxSessionKey = "session"
)

// Auth validates the access token and requires that it belongs to the live
// Redis session. It sets userID (int64) and session in the Gin context.
func Auth(sessions repository.SessionStore, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.AccessCookie)
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, "login required", gin.H{"code": "unauthorized"})
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", gin.H{"code": "unauthorized"})
			return
		}

		sess, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil || !helpers.TokensEqual(sess.SessionID, claims.SessionID) {
			response.Abort(c, http.StatusUnauthorized, "session not found", gin.H{"code": "session_expired"})
			return
		}

		c.Set(CtxUserIDKey, sess.UserID)
		c.Set(CtxSessionKey, sess)
		c.Next()
	}
}

// UserID returns the authenticated user id, 0 when Auth did not run.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}

// Session returns the session loaded by Auth.
func Session(c *gin.Context) *entity.Session {
	v, ok := c.Get(CtxSessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*entity.Session)
	return s
}
