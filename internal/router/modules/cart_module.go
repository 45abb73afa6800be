package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/storefront/internal/interface/http"
)

// CartModule wires the session cart. Writes need the CSRF header.
type CartModule struct {
	Handler *handlers.CartHandler
	Guard   *Guard
}

func NewCartModule(h *handlers.CartHandler, g *Guard) *CartModule {
	return &CartModule{Handler: h, Guard: g}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	g := m.Guard
	cart := rg.Group("/cart")
	cart.Use(g.Session(), g.CSRF(), g.LimitUser(120, time.Minute))
	{
		cart.GET("", m.Handler.Get)
		cart.DELETE("", m.Handler.Clear)
		cart.POST("/items/:id", m.Handler.Add)
		cart.PUT("/items/:id", m.Handler.Update)
		cart.DELETE("/items/:id", m.Handler.Remove)
	}
}
