package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/pkg/helpers"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrInsufficientStock  = errors.New("not enough stock")
	ErrCartEmpty          = errors.New("your cart is empty")
	ErrItemNotInCart      = errors.New("item not in cart")
	ErrProductNotFound    = errors.New("product not found")
	ErrMalformedCart      = entity.ErrMalformedCart
	ErrCheckoutFailed     = errors.New("an error occurred during checkout, please try again")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAccessDenied  = errors.New("access denied")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionExpired     = errors.New("session expired")
)

// PasswordPolicyError lists the password rules a candidate broke.
type PasswordPolicyError = helpers.PasswordPolicyError

// StockError reports the product that could not cover a requested quantity.
// It matches ErrInsufficientStock with errors.Is.
type StockError struct {
	ProductID int64
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("not enough stock for product %d", e.ProductID)
	}
	return fmt.Sprintf("not enough stock for %s", e.Name)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// MailQueue accepts email jobs for asynchronous delivery.
type MailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}
