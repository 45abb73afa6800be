package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/config"
	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/mailer"
	tpl "github.com/oksasatya/storefront/pkg/mailer/templates"
)

var (
	ordersPlaced     = expvar.NewInt("orders_placed")
	checkoutFailures = expvar.NewInt("checkout_failures")
)

type CheckoutState string

const (
	CheckoutAwaitingSubmission CheckoutState = "awaiting_submission"
	CheckoutProcessing         CheckoutState = "processing"
	CheckoutConfirmed          CheckoutState = "confirmed"
	CheckoutFailed             CheckoutState = "failed"
)

type CheckoutPreview struct {
	State CheckoutState `json:"state"`
	Cart  *CartView     `json:"cart"`
}

type CheckoutResult struct {
	State CheckoutState `json:"state"`
	Order *entity.Order `json:"order"`
}

// FeaturedCache drops cached listings that carry stock levels.
type FeaturedCache interface {
	InvalidateFeatured(ctx context.Context) error
}

type CheckoutService struct {
	Cart     *CartService
	Tx       repository.Transactor
	Users    repository.UserRepository
	Mail     MailQueue
	Featured FeaturedCache // optional
	Cfg      *config.Config
	Logger   *logrus.Logger
}

func NewCheckoutService(cart *CartService, tx repository.Transactor, users repository.UserRepository, mail MailQueue, cfg *config.Config, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{Cart: cart, Tx: tx, Users: users, Mail: mail, Cfg: cfg, Logger: logger}
}

// Preview prices the cart for review before submission.
func (s *CheckoutService) Preview(ctx context.Context, userID int64) (*CheckoutPreview, error) {
	view, err := s.Cart.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CheckoutPreview{State: CheckoutAwaitingSubmission, Cart: view}, nil
}

// Submit turns the cart into an order. Stock is re-checked under row locks
// and decremented in the same transaction that writes the order. The cart
// is cleared only after commit.
func (s *CheckoutService) Submit(ctx context.Context, userID int64) (*CheckoutResult, error) {
	view, err := s.Cart.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, ErrCartEmpty
	}

	lines := make([]CartItem, len(view.Items))
	copy(lines, view.Items)
	// fixed lock order across concurrent checkouts
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	var order *entity.Order
	err = s.Tx.WithinTx(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		o := &entity.Order{UserID: userID, Status: entity.OrderStatusPending}
		for _, line := range lines {
			p, err := repos.Products.GetByIDForUpdate(ctx, line.ProductID)
			if errors.Is(err, repository.ErrNotFound) {
				return &StockError{ProductID: line.ProductID, Name: line.Name, Requested: line.Quantity}
			}
			if err != nil {
				return fmt.Errorf("lock product %d: %w", line.ProductID, err)
			}
			if !p.CanFulfil(line.Quantity) {
				return &StockError{ProductID: p.ID, Name: p.Name, Requested: line.Quantity, Available: p.Stock}
			}
			if err := repos.Products.DecrementStock(ctx, p.ID, line.Quantity); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return &StockError{ProductID: p.ID, Name: p.Name, Requested: line.Quantity, Available: p.Stock}
				}
				return fmt.Errorf("decrement stock %d: %w", p.ID, err)
			}
			o.AddItem(entity.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    line.Quantity,
				Price:       p.Price,
			})
		}
		if err := repos.Orders.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		order = o
		return nil
	})
	if err != nil {
		checkoutFailures.Add(1)
		var se *StockError
		if errors.As(err, &se) {
			return nil, se
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("checkout failed")
		}
		return nil, ErrCheckoutFailed
	}

	if err := s.Cart.ClearCart(ctx, userID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("order_id", order.ID).Warn("clear cart after checkout failed")
	}
	if s.Featured != nil {
		if err := s.Featured.InvalidateFeatured(ctx); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("order_id", order.ID).Warn("featured cache invalidation failed")
		}
	}
	ordersPlaced.Add(1)
	helpers.LogSecurityEvent(s.Logger, helpers.EventOrderPlaced, fmt.Sprintf("order %d placed", order.ID), userID)
	s.enqueueConfirmation(ctx, order)

	return &CheckoutResult{State: CheckoutConfirmed, Order: order}, nil
}

func (s *CheckoutService) enqueueConfirmation(ctx context.Context, o *entity.Order) {
	if s.Mail == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled || s.Users == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, o.UserID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("order_id", o.ID).Warn("order email skipped")
		}
		return
	}
	items := make([]tpl.ItemLine, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, tpl.ItemLine{
			Name:     it.ProductName,
			Quantity: it.Quantity,
			Price:    it.Price.StringFixed(2),
			Subtotal: it.Subtotal().StringFixed(2),
		})
	}
	data := tpl.NewOrderConfirmationData(s.Cfg, u.Name, u.Email, o.ID, o.Total.StringFixed(2), items, tpl.WithTime(o.CreatedAt))
	job := mailer.EmailJob{To: u.Email, Template: tpl.OrderConfirmation, Data: data}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("order_id", o.ID).Warn("failed to publish order email")
	}
}
