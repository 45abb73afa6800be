package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/pkg/helpers"
)

func seedOrder(t *testing.T, orders *fakeOrders, userID int64) *entity.Order {
	t.Helper()
	o := &entity.Order{UserID: userID, Status: entity.OrderStatusPending}
	o.AddItem(entity.OrderItem{ProductID: 1, Quantity: 1, Price: decimal.RequireFromString("4.50")})
	require.NoError(t, orders.Create(context.Background(), o))
	return o
}

func TestOrderService_GetForUser(t *testing.T) {
	logger, hook := test.NewNullLogger()
	orders := &fakeOrders{}
	mine := seedOrder(t, orders, 1)
	theirs := seedOrder(t, orders, 2)
	svc := NewOrderService(orders, logger)

	got, err := svc.GetForUser(context.Background(), 1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	_, err = svc.GetForUser(context.Background(), 1, theirs.ID)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, helpers.EventUnauthorizedAccess, hook.LastEntry().Data["event"])
	assert.Equal(t, int64(1), hook.LastEntry().Data["user_id"])

	_, err = svc.GetForUser(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListForUser(t *testing.T) {
	orders := &fakeOrders{}
	first := seedOrder(t, orders, 1)
	seedOrder(t, orders, 2)
	second := seedOrder(t, orders, 1)
	svc := NewOrderService(orders, nil)

	got, err := svc.ListForUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}
