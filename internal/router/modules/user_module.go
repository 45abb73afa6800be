package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/storefront/internal/interface/http"
)

// UserModule wires the profile routes. All require a session; PUT also
// requires the CSRF header.
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   *Guard
}

func NewUserModule(h *handlers.UserHandler, g *Guard) *UserModule {
	return &UserModule{Handler: h, Guard: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := m.Guard
	auth := rg.Group("/profile")
	auth.Use(g.Session(), g.CSRF(), g.LimitUser(120, time.Minute))
	{
		auth.GET("", m.Handler.GetProfile)
		auth.PUT("", m.Handler.UpdateProfile)
	}
}
