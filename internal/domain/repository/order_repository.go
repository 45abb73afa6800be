package repository

import (
	"context"

	"github.com/oksasatya/storefront/internal/domain/entity"
)

// OrderRepository persists orders together with their items.
type OrderRepository interface {
	// Create inserts o and all of o.Items, filling generated ids.
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	// ListByUser returns the user's orders newest first, items included.
	ListByUser(ctx context.Context, userID int64) ([]entity.Order, error)
}

// TxRepos are repositories bound to one open transaction.
type TxRepos struct {
	Products ProductRepository
	Orders   OrderRepository
}

// Transactor runs fn inside a database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
