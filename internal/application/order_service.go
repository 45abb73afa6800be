package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/helpers"
)

type OrderService struct {
	Orders repository.OrderRepository
	Logger *logrus.Logger
}

func NewOrderService(orders repository.OrderRepository, logger *logrus.Logger) *OrderService {
	return &OrderService{Orders: orders, Logger: logger}
}

func (s *OrderService) ListForUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	orders, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetForUser returns the order only to its owner. Attempts on someone
// else's order are logged as a security event.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID int64) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	if o.UserID != userID {
		helpers.LogSecurityEvent(s.Logger, helpers.EventUnauthorizedAccess,
			fmt.Sprintf("attempted access to order %d", orderID), userID)
		return nil, ErrOrderAccessDenied
	}
	return o, nil
}
