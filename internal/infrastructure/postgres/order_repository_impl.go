package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

type OrderRepository struct {
	db querier
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: pool}
}

// Create inserts the order row and queues every item insert in one batch.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	if o.Status == "" {
		o.Status = entity.OrderStatusPending
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total)
		VALUES ($1, $2, $3::numeric)
		RETURNING id, created_at
	`, o.UserID, string(o.Status), o.Total.StringFixed(2))
	if err := row.Scan(&o.ID, &o.CreatedAt); err != nil {
		return mapErr(err)
	}
	if len(o.Items) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, it := range o.Items {
		b.Queue(`
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4::numeric)
			RETURNING id
		`, o.ID, it.ProductID, it.Quantity, it.Price.StringFixed(2))
	}
	br := r.db.SendBatch(ctx, b)
	for i := range o.Items {
		if err := br.QueryRow().Scan(&o.Items[i].ID); err != nil {
			_ = br.Close()
			return mapErr(err)
		}
		o.Items[i].OrderID = o.ID
	}
	return br.Close()
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	var (
		o      entity.Order
		status string
		total  string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, status, total::text, created_at
		FROM orders WHERE id = $1
	`, id).Scan(&o.ID, &o.UserID, &status, &total, &o.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	o.Status = entity.OrderStatus(status)
	if o.Total, err = parseDecimal(total); err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, status, total::text, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]entity.Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var (
			o      entity.Order
			status string
			total  string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &status, &total, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = entity.OrderStatus(status)
		if o.Total, err = parseDecimal(total); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *OrderRepository) itemsFor(ctx context.Context, orderIDs []int64) (map[int64][]entity.OrderItem, error) {
	out := make(map[int64][]entity.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price::text
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it    entity.OrderItem
			price string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &price); err != nil {
			return nil, err
		}
		if it.Price, err = parseDecimal(price); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
