package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/interface/middleware"
	"github.com/oksasatya/storefront/pkg/response"
)

type CheckoutHandler struct {
	Checkout *app.CheckoutService
	Orders   *app.OrderService
	Logger   *logrus.Logger
}

func NewCheckoutHandler(checkout *app.CheckoutService, orders *app.OrderService, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{Checkout: checkout, Orders: orders, Logger: logger}
}

// Preview GET /api/checkout
func (h *CheckoutHandler) Preview(c *gin.Context) {
	p, err := h.Checkout.Preview(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "review your order", nil)
}

// Submit POST /api/checkout
func (h *CheckoutHandler) Submit(c *gin.Context) {
	res, err := h.Checkout.Submit(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "order placed successfully", nil)
}

// ListOrders GET /api/orders
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	orders, err := h.Orders.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "orders", gin.H{"count": len(orders)})
}

// GetOrder GET /api/orders/:id
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.Orders.GetForUser(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, o, "order", nil)
}
