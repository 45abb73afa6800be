package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/storefront/internal/interface/http"
)

// CheckoutModule wires checkout (https only) and order history.
type CheckoutModule struct {
	Handler *handlers.CheckoutHandler
	Guard   *Guard
}

func NewCheckoutModule(h *handlers.CheckoutHandler, g *Guard) *CheckoutModule {
	return &CheckoutModule{Handler: h, Guard: g}
}

func (m *CheckoutModule) Register(rg *gin.RouterGroup) {
	g := m.Guard
	checkout := rg.Group("/checkout")
	checkout.Use(g.Session(), g.HTTPS(), g.CSRF(), g.LimitUser(20, time.Minute))
	{
		checkout.GET("", m.Handler.Preview)
		checkout.POST("", m.Handler.Submit)
	}

	orders := rg.Group("/orders")
	orders.Use(g.Session(), g.LimitUser(120, time.Minute))
	{
		orders.GET("", m.Handler.ListOrders)
		orders.GET("/:id", m.Handler.GetOrder)
	}
}
