package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/storefront/internal/interface/http"
)

// AuthModule wires account routes.
// Public: POST /register, /login, /refresh, /password/reset, GET|POST /password/reset/:token
// Protected: POST /logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   *Guard
}

func NewAuthModule(h *handlers.AuthHandler, g *Guard) *AuthModule {
	return &AuthModule{Handler: h, Guard: g}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := m.Guard
	rg.POST("/register", g.LimitIPPath(10, time.Hour), m.Handler.Register)
	rg.POST("/login", g.LimitIPPath(5, time.Minute), m.Handler.Login)
	rg.POST("/refresh", g.LimitIP(60, time.Minute), m.Handler.Refresh)

	rg.POST("/password/reset", g.LimitIPPath(3, time.Hour), m.Handler.RequestReset)
	rg.GET("/password/reset/:token", g.LimitIPPath(30, time.Minute), m.Handler.CheckReset)
	rg.POST("/password/reset/:token", g.LimitIPPath(10, time.Minute), m.Handler.ConfirmReset)

	rg.POST("/logout", g.Session(), g.CSRF(), m.Handler.Logout)
}
