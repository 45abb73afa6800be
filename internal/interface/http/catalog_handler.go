package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/pkg/response"
)

type CatalogHandler struct {
	Svc    *app.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *app.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

type listQuery struct {
	Category string `form:"category" binding:"max=60"`
	Limit    int    `form:"limit" binding:"gte=0,lte=100"`
	Offset   int    `form:"offset" binding:"gte=0"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required,max=200"`
	Size int    `form:"size" binding:"gte=0,lte=50"`
}

// Featured GET /api/products/featured
func (h *CatalogHandler) Featured(c *gin.Context) {
	products, err := h.Svc.Featured(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, products, "featured products", nil)
}

// List GET /api/products
func (h *CatalogHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	products, err := h.Svc.List(c.Request.Context(), q.Category, q.Limit, q.Offset)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, products, "products", gin.H{"limit": q.Limit, "offset": q.Offset, "count": len(products)})
}

// Get GET /api/products/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "product", nil)
}

// Search GET /api/products/search?q=
func (h *CatalogHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	products, err := h.Svc.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, products, "search results", gin.H{"count": len(products)})
}
