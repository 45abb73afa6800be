package repository

import (
	"context"

	"github.com/oksasatya/storefront/internal/domain/entity"
)

// ProductFilter narrows List. Zero Limit means no limit.
type ProductFilter struct {
	Category string
	Limit    int
	Offset   int
}

// ProductRepository defines product persistence. GetByIDForUpdate and
// DecrementStock are only meaningful inside a transaction.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetByIDForUpdate reads the row and holds a lock on it until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// ListByIDs returns the existing products among ids in a single query.
	ListByIDs(ctx context.Context, ids []int64) ([]entity.Product, error)
	ListFeatured(ctx context.Context, limit int) ([]entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	// DecrementStock subtracts qty only when enough stock remains, otherwise ErrConflict.
	DecrementStock(ctx context.Context, id int64, qty int) error
}

// ProductSearch is a full-text index over the catalog.
type ProductSearch interface {
	Index(ctx context.Context, products ...entity.Product) error
	// Search returns matching product ids, best match first.
	Search(ctx context.Context, query string, size int) ([]int64, error)
}
