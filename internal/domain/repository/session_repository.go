package repository

import (
	"context"
	"time"

	"github.com/oksasatya/storefront/internal/domain/entity"
)

// SessionStore keeps the server-side login session.
type SessionStore interface {
	Create(ctx context.Context, s *entity.Session, ttl time.Duration) error
	// Get returns ErrNotFound when the user has no live session.
	Get(ctx context.Context, userID int64) (*entity.Session, error)
	// Rotate replaces the session id and refreshes the lifetime.
	Rotate(ctx context.Context, userID int64, sid string, ttl time.Duration) error
	// SetName updates the cached display name without touching the lifetime.
	SetName(ctx context.Context, userID int64, name string) error
	Delete(ctx context.Context, userID int64) error
}

// CartStore reads and writes the cart held inside a live session.
type CartStore interface {
	// LoadCart returns an empty cart when none is stored and
	// entity.ErrMalformedCart when stored content fails validation.
	LoadCart(ctx context.Context, userID int64) (*entity.Cart, error)
	// SaveCart returns ErrNotFound when the session has expired.
	SaveCart(ctx context.Context, userID int64, c *entity.Cart) error
}
