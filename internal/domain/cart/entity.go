// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// DefaultMaxQuantity is the per-line quantity cap applied when no
// configuration override is supplied.
const DefaultMaxQuantity = 5

// Product is the immutable snapshot of a product captured at the moment it
// is added to the cart. Later catalog edits never reach existing carts.
type Product struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"` // Unit price in minor currency units
	ImageURL string `json:"image_url,omitempty"`
}

// LineItem pairs a product snapshot with the quantity a shopper intends to buy
type LineItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Cart holds the ordered line items for one browsing session.
// Insertion order is the order products were first added.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// New creates an empty cart for the given session
func New(sessionID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SessionID: sessionID,
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem adds one unit of the product. An existing line is incremented and
// clamped to maxQuantity; at the cap the call is a no-op. A new product is
// appended with quantity 1. Invalid input does not exist: everything is
// normalized, never rejected.
func (c *Cart) AddItem(p Product, maxQuantity int) {
	if maxQuantity < 1 {
		maxQuantity = DefaultMaxQuantity
	}

	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			if c.Items[i].Quantity < maxQuantity {
				c.Items[i].Quantity++
				c.touch()
			}
			return
		}
	}

	c.Items = append(c.Items, LineItem{
		Product:  p,
		Quantity: 1,
		AddedAt:  time.Now().UTC(),
	})
	c.touch()
}

// UpdateQuantity sets the quantity for a product already in the cart.
// Quantities below 1 remove the line, quantities above maxQuantity are
// clamped. Unknown product ids are a no-op.
func (c *Cart) UpdateQuantity(productID uint, quantity, maxQuantity int) {
	if quantity < 1 {
		c.RemoveItem(productID)
		return
	}
	if maxQuantity < 1 {
		maxQuantity = DefaultMaxQuantity
	}
	if quantity > maxQuantity {
		quantity = maxQuantity
	}

	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			c.touch()
			return
		}
	}
}

// RemoveItem deletes the line for the product if present; otherwise a no-op
func (c *Cart) RemoveItem(productID uint) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.touch()
}

// Total returns the cart total in minor currency units, recomputed from the
// live item sequence on every call.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Product.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the summed quantity across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no line items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
