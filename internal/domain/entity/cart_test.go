package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddSetRemove(t *testing.T) {
	c := NewCart()
	c.Add(7, 2)
	c.Add(3, 1)
	c.Add(7, 3)

	assert.Equal(t, 5, c.Quantity(7))
	assert.Equal(t, 1, c.Quantity(3))
	assert.Equal(t, []int64{7, 3}, c.ProductIDs())

	c.Set(3, 4)
	assert.Equal(t, 4, c.Quantity(3))

	c.Set(7, 0)
	assert.False(t, c.Has(7))
	assert.Equal(t, []int64{3}, c.ProductIDs())

	assert.True(t, c.Remove(3))
	assert.False(t, c.Remove(3))
	assert.True(t, c.IsEmpty())
}

func TestCart_AddIgnoresNonPositive(t *testing.T) {
	var c Cart
	c.Add(1, 0)
	c.Add(1, -4)
	assert.Equal(t, 0, c.Len())
}

func TestCart_RemoveKeepsOrder(t *testing.T) {
	c := NewCart()
	for _, id := range []int64{5, 9, 2, 11} {
		c.Add(id, 1)
	}
	c.Remove(9)
	c.Add(9, 1)
	assert.Equal(t, []int64{5, 2, 11, 9}, c.ProductIDs())
	assert.Equal(t, 1, c.Quantity(11))
}

func TestCart_MarshalJSON(t *testing.T) {
	c := NewCart()
	c.Add(12, 2)
	c.Add(7, 1)

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"12":2,"7":1}`, string(b))

	empty, err := json.Marshal(NewCart())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestDecodeCart(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantIDs []int64
		wantErr bool
	}{
		{name: "empty string", raw: "", wantIDs: []int64{}},
		{name: "empty object", raw: "{}", wantIDs: []int64{}},
		{name: "ordered", raw: `{"12":2,"7":1}`, wantIDs: []int64{12, 7}},
		{name: "whitespace", raw: ` { "1" : 3 } `, wantIDs: []int64{1}},
		{name: "non numeric key", raw: `{"abc":1}`, wantErr: true},
		{name: "zero key", raw: `{"0":1}`, wantErr: true},
		{name: "negative key", raw: `{"-3":1}`, wantErr: true},
		{name: "zero quantity", raw: `{"1":0}`, wantErr: true},
		{name: "negative quantity", raw: `{"1":-2}`, wantErr: true},
		{name: "fractional quantity", raw: `{"1":1.5}`, wantErr: true},
		{name: "string quantity", raw: `{"1":"2"}`, wantErr: true},
		{name: "duplicate key", raw: `{"1":1,"1":2}`, wantErr: true},
		{name: "array", raw: `[1,2]`, wantErr: true},
		{name: "truncated", raw: `{"1":1`, wantErr: true},
		{name: "nested", raw: `{"1":{"q":1}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := DecodeCart(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedCart)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, c.ProductIDs())
		})
	}
}

func TestCart_RoundTripPreservesQuantities(t *testing.T) {
	c := NewCart()
	c.Add(4, 9)
	c.Add(1, 2)

	b, err := c.MarshalJSON()
	require.NoError(t, err)

	got, err := DecodeCart(string(b))
	require.NoError(t, err)
	assert.Equal(t, c.Entries(), got.Entries())
}
