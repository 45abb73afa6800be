package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

// CartItem is a cart entry joined with its live product.
type CartItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartView is the priced cart shown to the user.
type CartView struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type CartService struct {
	Carts    repository.CartStore
	Products repository.ProductRepository
	Logger   *logrus.Logger
}

func NewCartService(carts repository.CartStore, products repository.ProductRepository, logger *logrus.Logger) *CartService {
	return &CartService{Carts: carts, Products: products, Logger: logger}
}

func (s *CartService) save(ctx context.Context, userID int64, c *entity.Cart) error {
	if err := s.Carts.SaveCart(ctx, userID, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionExpired
		}
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartService) product(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := s.Products.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	return p, nil
}

// GetCart returns the stored cart. Malformed session content is rejected.
func (s *CartService) GetCart(ctx context.Context, userID int64) (*entity.Cart, error) {
	return s.Carts.LoadCart(ctx, userID)
}

// AddToCart adds quantity units of productID. The requested quantity alone
// is checked against current stock.
func (s *CartService) AddToCart(ctx context.Context, userID, productID int64, quantity int) (*entity.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	p, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock < quantity {
		return nil, &StockError{ProductID: p.ID, Name: p.Name, Requested: quantity, Available: p.Stock}
	}

	cart, err := s.Carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Add(p.ID, quantity)
	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateCartItem overwrites the quantity for an entry already in the cart.
// A quantity <= 0 removes the entry.
func (s *CartService) UpdateCartItem(ctx context.Context, userID, productID int64, quantity int) (*entity.Cart, error) {
	cart, err := s.Carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cart.Has(productID) {
		return nil, ErrItemNotInCart
	}

	if quantity <= 0 {
		cart.Remove(productID)
	} else {
		p, err := s.product(ctx, productID)
		if err != nil {
			return nil, err
		}
		if p.Stock < quantity {
			return nil, &StockError{ProductID: p.ID, Name: p.Name, Requested: quantity, Available: p.Stock}
		}
		cart.Set(productID, quantity)
	}

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveFromCart deletes the entry and reports whether it was present.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID int64) (bool, error) {
	cart, err := s.Carts.LoadCart(ctx, userID)
	if err != nil {
		return false, err
	}
	if !cart.Remove(productID) {
		return false, nil
	}
	if err := s.save(ctx, userID, cart); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID int64) error {
	return s.save(ctx, userID, entity.NewCart())
}

// GetCartItems prices the cart against live products in one query.
// Entries whose product is gone or out of stock are left out.
func (s *CartService) GetCartItems(ctx context.Context, userID int64) (*CartView, error) {
	cart, err := s.Carts.LoadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, cart)
}

func (s *CartService) price(ctx context.Context, cart *entity.Cart) (*CartView, error) {
	view := &CartView{Items: make([]CartItem, 0, cart.Len()), Total: decimal.Zero}
	if cart.IsEmpty() {
		return view, nil
	}

	products, err := s.Products.ListByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	byID := make(map[int64]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, e := range cart.Entries() {
		p, ok := byID[e.ProductID]
		if !ok || !p.InStock() {
			continue
		}
		sub := p.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
		view.Items = append(view.Items, CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			ImageURL:  p.ImageURL,
			Price:     p.Price,
			Quantity:  e.Quantity,
			Stock:     p.Stock,
			Subtotal:  sub,
		})
		view.Total = view.Total.Add(sub)
		view.Count += e.Quantity
	}
	return view, nil
}
