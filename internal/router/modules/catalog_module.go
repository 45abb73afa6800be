package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/storefront/internal/interface/http"
)

// CatalogModule wires the public product routes.
type CatalogModule struct {
	Handler *handlers.CatalogHandler
	Guard   *Guard
}

func NewCatalogModule(h *handlers.CatalogHandler, g *Guard) *CatalogModule {
	return &CatalogModule{Handler: h, Guard: g}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.Use(m.Guard.LimitIP(300, time.Minute))
	{
		products.GET("", m.Handler.List)
		products.GET("/featured", m.Handler.Featured)
		products.GET("/search", m.Handler.Search)
		products.GET("/:id", m.Handler.Get)
	}
}
