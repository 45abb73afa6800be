package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedCart is returned when session cart content fails validation.
var ErrMalformedCart = errors.New("malformed cart")

// CartEntry is one (product id, quantity) pair. Quantity is always > 0.
type CartEntry struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Cart is an insertion-ordered mapping of product id to quantity.
// The zero value is an empty cart ready to use.
//
// At the session boundary it is encoded as a JSON object keyed by the
// product id as a string: {"12":2,"7":1}.
type Cart struct {
	entries []CartEntry
	index   map[int64]int
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) pos(productID int64) (int, bool) {
	if c.index == nil {
		return 0, false
	}
	i, ok := c.index[productID]
	return i, ok
}

func (c *Cart) reindex() {
	c.index = make(map[int64]int, len(c.entries))
	for i, e := range c.entries {
		c.index[e.ProductID] = i
	}
}

// Len returns the number of distinct products.
func (c *Cart) Len() int { return len(c.entries) }

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool { return len(c.entries) == 0 }

// Quantity returns the stored quantity for productID, 0 when absent.
func (c *Cart) Quantity(productID int64) int {
	if i, ok := c.pos(productID); ok {
		return c.entries[i].Quantity
	}
	return 0
}

// Has reports whether productID is in the cart.
func (c *Cart) Has(productID int64) bool {
	_, ok := c.pos(productID)
	return ok
}

// Add increments the quantity for productID, inserting it at the end when new.
func (c *Cart) Add(productID int64, qty int) {
	if qty <= 0 {
		return
	}
	if i, ok := c.pos(productID); ok {
		c.entries[i].Quantity += qty
		return
	}
	c.Set(productID, qty)
}

// Set overwrites the quantity for productID. qty <= 0 removes the entry.
func (c *Cart) Set(productID int64, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	if i, ok := c.pos(productID); ok {
		c.entries[i].Quantity = qty
		return
	}
	if c.index == nil {
		c.index = map[int64]int{}
	}
	c.entries = append(c.entries, CartEntry{ProductID: productID, Quantity: qty})
	c.index[productID] = len(c.entries) - 1
}

// Remove deletes productID and reports whether it was present.
func (c *Cart) Remove(productID int64) bool {
	i, ok := c.pos(productID)
	if !ok {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	c.reindex()
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.entries = nil
	c.index = nil
}

// Entries returns a copy of the entries in insertion order.
func (c *Cart) Entries() []CartEntry {
	out := make([]CartEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ProductIDs returns product ids in insertion order.
func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.ProductID
	}
	return ids
}

// MarshalJSON encodes the cart as an ordered JSON object.
func (c *Cart) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.FormatInt(e.ProductID, 10)))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(e.Quantity))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes and validates session content. Keys must be positive
// integers, values positive integers, and keys unique. Anything else is
// rejected with ErrMalformedCart.
func (c *Cart) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected object", ErrMalformedCart)
	}

	var out Cart
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedCart, err)
		}
		key, _ := tok.(string)
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: invalid product id %q", ErrMalformedCart, key)
		}
		if out.Has(id) {
			return fmt.Errorf("%w: duplicate product id %d", ErrMalformedCart, id)
		}

		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedCart, err)
		}
		num, ok := tok.(json.Number)
		if !ok {
			return fmt.Errorf("%w: quantity for %d is not a number", ErrMalformedCart, id)
		}
		qty, err := strconv.Atoi(num.String())
		if err != nil || qty <= 0 {
			return fmt.Errorf("%w: invalid quantity %q for %d", ErrMalformedCart, num.String(), id)
		}
		out.Set(id, qty)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrMalformedCart)
	}
	*c = out
	return nil
}

// DecodeCart parses session content. Empty input yields an empty cart.
func DecodeCart(raw string) (*Cart, error) {
	c := NewCart()
	if raw == "" {
		return c, nil
	}
	if err := c.UnmarshalJSON([]byte(raw)); err != nil {
		return nil, err
	}
	return c, nil
}
