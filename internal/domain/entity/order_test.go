package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrder_AddItemKeepsTotal(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	o.AddItem(OrderItem{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("10.00")})
	o.AddItem(OrderItem{ProductID: 2, Quantity: 3, Price: decimal.RequireFromString("0.10")})

	assert.True(t, o.Total.Equal(decimal.RequireFromString("20.30")))
	assert.Equal(t, 5, o.ItemCount())
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderStatusShipped.Valid())
	assert.False(t, OrderStatus("lost").Valid())
}

func TestProduct_CanFulfil(t *testing.T) {
	p := &Product{Stock: 3}
	assert.True(t, p.CanFulfil(3))
	assert.False(t, p.CanFulfil(4))
	assert.False(t, p.CanFulfil(0))
	assert.True(t, p.InStock())
}
