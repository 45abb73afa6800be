package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/interface/middleware"
	"github.com/oksasatya/storefront/pkg/response"
)

type CartHandler struct {
	Svc    *app.CartService
	Logger *logrus.Logger
}

func NewCartHandler(svc *app.CartService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Svc: svc, Logger: logger}
}

// A missing quantity on add means one unit.
type addItemRequest struct {
	Quantity *int `json:"quantity" binding:"omitempty,qty"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,qty"`
}

func (h *CartHandler) view(c *gin.Context, status int, message string) {
	v, err := h.Svc.GetCartItems(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, status, v, message, nil)
}

// Get GET /api/cart
func (h *CartHandler) Get(c *gin.Context) {
	h.view(c, http.StatusOK, "cart")
}

// Add POST /api/cart/items/:id
func (h *CartHandler) Add(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addItemRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if _, err := h.Svc.AddToCart(c.Request.Context(), middleware.UserID(c), id, qty); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.view(c, http.StatusOK, "product added to cart")
}

// Update PUT /api/cart/items/:id
func (h *CartHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.Svc.UpdateCartItem(c.Request.Context(), middleware.UserID(c), id, *req.Quantity); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.view(c, http.StatusOK, "cart updated")
}

// Remove DELETE /api/cart/items/:id
func (h *CartHandler) Remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	removed, err := h.Svc.RemoveFromCart(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	msg := "item removed from cart"
	if !removed {
		msg = "item was not in cart"
	}
	h.view(c, http.StatusOK, msg)
}

// Clear DELETE /api/cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.Svc.ClearCart(c.Request.Context(), middleware.UserID(c)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.view(c, http.StatusOK, "cart cleared")
}
