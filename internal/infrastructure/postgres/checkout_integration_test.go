//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
	pginfra "github.com/oksasatya/storefront/internal/infrastructure/postgres"
)

// memCarts keeps carts in process; sessions are covered by the redis store tests.
type memCarts struct {
	mu    sync.Mutex
	carts map[int64]*entity.Cart
}

func (m *memCarts) LoadCart(_ context.Context, userID int64) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := entity.NewCart()
	if stored, ok := m.carts[userID]; ok {
		for _, e := range stored.Entries() {
			c.Set(e.ProductID, e.Quantity)
		}
	}
	return c, nil
}

func (m *memCarts) SaveCart(_ context.Context, userID int64, c *entity.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = c
	return nil
}

var _ repository.CartStore = (*memCarts)(nil)

func newCheckout(t *testing.T) (*application.CheckoutService, *memCarts) {
	t.Helper()
	carts := &memCarts{carts: map[int64]*entity.Cart{}}
	products := pginfra.NewProductRepository(testPool)
	cart := application.NewCartService(carts, products, nullLogger())
	svc := application.NewCheckoutService(cart, pginfra.NewTransactor(testPool), pginfra.NewUserRepository(testPool), nil, nil, nullLogger())
	return svc, carts
}

func putCart(carts *memCarts, userID int64, lines ...[2]int64) {
	c := entity.NewCart()
	for _, l := range lines {
		c.Set(l[0], int(l[1]))
	}
	carts.carts[userID] = c
}

func TestCheckout_ScenarioA(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	u := seedUser(t, "buyer@example.com")
	p := seedProduct(t, "Widget", "10.00", 5)
	svc, carts := newCheckout(t)

	_, err := svc.Cart.AddToCart(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)

	res, err := svc.Submit(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, application.CheckoutConfirmed, res.State)

	assert.Equal(t, 3, stockOf(t, p.ID))
	assert.Equal(t, 1, countRows(t, "orders"))
	assert.Equal(t, 1, countRows(t, "order_items"))

	stored, err := pginfra.NewOrderRepository(testPool).GetByID(ctx, res.Order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, "10.00", stored.Items[0].Price.StringFixed(2))
	assert.Equal(t, "20.00", stored.Total.StringFixed(2))
	assert.True(t, carts.carts[u.ID].IsEmpty())
}

func TestCheckout_ScenarioB(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	u := seedUser(t, "buyer@example.com")
	p := seedProduct(t, "Widget", "10.00", 3)
	svc, carts := newCheckout(t)
	putCart(carts, u.ID, [2]int64{p.ID, 10})

	_, err := svc.Submit(ctx, u.ID)
	require.ErrorIs(t, err, application.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "not enough stock")

	assert.Equal(t, 3, stockOf(t, p.ID))
	assert.Zero(t, countRows(t, "orders"))
	assert.Equal(t, 10, carts.carts[u.ID].Quantity(p.ID))
}

func TestCheckout_RollsBackEveryLine(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	u := seedUser(t, "buyer@example.com")
	a := seedProduct(t, "A", "5.00", 10)
	b := seedProduct(t, "B", "7.00", 10)
	c := seedProduct(t, "C", "1.00", 1)
	svc, carts := newCheckout(t)
	putCart(carts, u.ID, [2]int64{a.ID, 2}, [2]int64{b.ID, 3}, [2]int64{c.ID, 4})

	_, err := svc.Submit(ctx, u.ID)
	var se *application.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, c.ID, se.ProductID)

	// a and b were decremented inside the transaction before c failed
	assert.Equal(t, 10, stockOf(t, a.ID))
	assert.Equal(t, 10, stockOf(t, b.ID))
	assert.Equal(t, 1, stockOf(t, c.ID))
	assert.Zero(t, countRows(t, "orders"))
	assert.Zero(t, countRows(t, "order_items"))
}

func TestCheckout_PriceSnapshot(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	u := seedUser(t, "buyer@example.com")
	p := seedProduct(t, "Widget", "10.00", 5)
	svc, carts := newCheckout(t)
	putCart(carts, u.ID, [2]int64{p.ID, 1})

	res, err := svc.Submit(ctx, u.ID)
	require.NoError(t, err)

	products := pginfra.NewProductRepository(testPool)
	live, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	live.Price = decimal.RequireFromString("99.99")
	require.NoError(t, products.Update(ctx, live))

	stored, err := pginfra.NewOrderRepository(testPool).GetByID(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", stored.Items[0].Price.StringFixed(2))
	assert.Equal(t, "10.00", stored.Total.StringFixed(2))
}

func TestCheckout_ConcurrentBuyersNeverOversell(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	p := seedProduct(t, "Last units", "3.00", 5)
	svc, carts := newCheckout(t)

	const buyers = 8
	ids := make([]int64, buyers)
	for i := range ids {
		u := seedUser(t, "buyer"+string(rune('a'+i))+"@example.com")
		ids[i] = u.ID
		putCart(carts, u.ID, [2]int64{p.ID, 2})
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if _, err := svc.Submit(ctx, id); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, application.ErrInsufficientStock)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, stockOf(t, p.ID))
	assert.Equal(t, 2, countRows(t, "orders"))
}
