package cart

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Cart is the session-scoped mapping of product IDs to quantities. It
// never stores prices or names; those are resolved at read time.
type Cart map[uuid.UUID]int

// NewCart returns an empty cart.
func NewCart() Cart {
	return Cart{}
}

// Add accumulates quantity onto any existing line for the product.
func (c Cart) Add(productID uuid.UUID, quantity int) {
	if quantity < 1 {
		return
	}
	c[productID] += quantity
}

// Set overwrites the quantity for the product. Zero or negative
// quantities remove the line entirely.
func (c Cart) Set(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		delete(c, productID)
		return
	}
	c[productID] = quantity
}

// Remove drops the line for the product. Removing an absent product is
// a no-op.
func (c Cart) Remove(productID uuid.UUID) {
	delete(c, productID)
}

// Quantity returns the stored quantity, zero when absent.
func (c Cart) Quantity(productID uuid.UUID) int {
	return c[productID]
}

// Len returns the number of distinct product lines.
func (c Cart) Len() int {
	return len(c)
}

// ProductIDs returns the product IDs present in the cart.
func (c Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	return ids
}

// MarshalJSON encodes the cart as a string-keyed object so the wire
// form stays readable in Redis.
func (c Cart) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(c))
	for id, qty := range c {
		out[id.String()] = qty
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the string-keyed object form. Unparseable keys
// fail loudly rather than silently dropping lines.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Cart, len(raw))
	for key, qty := range raw {
		id, err := uuid.Parse(key)
		if err != nil {
			return fmt.Errorf("invalid product id %q in cart payload: %w", key, err)
		}
		out[id] = qty
	}
	*c = out
	return nil
}
