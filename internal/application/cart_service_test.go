package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uid int64 = 1

func newTestCartService(products *fakeProducts, sessions *fakeSessions) *CartService {
	logger, _ := test.NewNullLogger()
	return NewCartService(sessions, products, logger)
}

func TestCartService_AddToCart(t *testing.T) {
	tests := []struct {
		name     string
		existing int
		stock    int
		qty      int
		wantQty  int
		wantErr  error
	}{
		{name: "fits stock", stock: 5, qty: 2, wantQty: 2},
		{name: "exact stock", stock: 3, qty: 3, wantQty: 3},
		{name: "adds to existing", existing: 2, stock: 3, qty: 3, wantQty: 5},
		{name: "exceeds stock", existing: 1, stock: 3, qty: 4, wantQty: 1, wantErr: ErrInsufficientStock},
		{name: "zero quantity", stock: 3, qty: 0, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", stock: 3, qty: -1, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			products := newFakeProducts(product(7, "10.00", tt.stock))
			sessions := newFakeSessions(uid)
			svc := newTestCartService(products, sessions)
			if tt.existing > 0 {
				_, err := svc.AddToCart(ctx, uid, 7, tt.existing)
				require.NoError(t, err)
			}

			_, err := svc.AddToCart(ctx, uid, 7, tt.qty)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			cart, err := svc.GetCart(ctx, uid)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, cart.Quantity(7))
		})
	}
}

func TestCartService_AddToCart_StockErrorDetails(t *testing.T) {
	products := newFakeProducts(product(7, "10.00", 3))
	svc := newTestCartService(products, newFakeSessions(uid))

	_, err := svc.AddToCart(context.Background(), uid, 7, 10)

	var se *StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, int64(7), se.ProductID)
	assert.Equal(t, 10, se.Requested)
	assert.Equal(t, 3, se.Available)
}

func TestCartService_AddToCart_UnknownProduct(t *testing.T) {
	svc := newTestCartService(newFakeProducts(), newFakeSessions(uid))
	_, err := svc.AddToCart(context.Background(), uid, 99, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddToCart_ExpiredSession(t *testing.T) {
	svc := newTestCartService(newFakeProducts(product(7, "1.00", 3)), newFakeSessions())
	_, err := svc.AddToCart(context.Background(), uid, 7, 1)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestCartService_UpdateCartItem(t *testing.T) {
	tests := []struct {
		name    string
		qty     int
		wantQty int
		wantErr error
	}{
		{name: "overwrite", qty: 4, wantQty: 4},
		{name: "zero removes", qty: 0, wantQty: 0},
		{name: "negative removes", qty: -3, wantQty: 0},
		{name: "over stock", qty: 6, wantQty: 2, wantErr: ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc := newTestCartService(newFakeProducts(product(7, "10.00", 5)), newFakeSessions(uid))
			_, err := svc.AddToCart(ctx, uid, 7, 2)
			require.NoError(t, err)

			_, err = svc.UpdateCartItem(ctx, uid, 7, tt.qty)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			cart, err := svc.GetCart(ctx, uid)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, cart.Quantity(7))
		})
	}
}

func TestCartService_UpdateCartItem_NotInCart(t *testing.T) {
	svc := newTestCartService(newFakeProducts(product(7, "10.00", 5)), newFakeSessions(uid))
	_, err := svc.UpdateCartItem(context.Background(), uid, 7, 1)
	assert.ErrorIs(t, err, ErrItemNotInCart)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	svc := newTestCartService(newFakeProducts(product(1, "1.00", 5), product(2, "2.00", 5)), newFakeSessions(uid))
	_, err := svc.AddToCart(ctx, uid, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, uid, 2, 1)
	require.NoError(t, err)

	removed, err := svc.RemoveFromCart(ctx, uid, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = svc.RemoveFromCart(ctx, uid, 1)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, svc.ClearCart(ctx, uid))
	cart, err := svc.GetCart(ctx, uid)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_GetCartItems_SkipsMissingAndOutOfStock(t *testing.T) {
	ctx := context.Background()
	sessions := newFakeSessions(uid)
	sessions.carts[uid] = `{"3":1,"1":2,"2":5,"9":4}`
	products := newFakeProducts(
		product(1, "10.00", 5),
		product(2, "3.50", 0),
		product(3, "0.25", 1),
	)
	svc := newTestCartService(products, sessions)

	view, err := svc.GetCartItems(ctx, uid)
	require.NoError(t, err)

	ids := make([]int64, 0, len(view.Items))
	for _, it := range view.Items {
		ids = append(ids, it.ProductID)
		assert.Positive(t, it.Stock)
	}
	assert.Equal(t, []int64{3, 1}, ids)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("20.25")), view.Total.String())
	assert.Equal(t, 3, view.Count)
}

func TestCartService_MalformedSessionCart(t *testing.T) {
	sessions := newFakeSessions(uid)
	sessions.carts[uid] = `{"abc":"x"}`
	svc := newTestCartService(newFakeProducts(product(1, "1.00", 1)), sessions)

	_, err := svc.GetCartItems(context.Background(), uid)
	assert.ErrorIs(t, err, ErrMalformedCart)
	_, err = svc.AddToCart(context.Background(), uid, 1, 1)
	assert.ErrorIs(t, err, ErrMalformedCart)
}
