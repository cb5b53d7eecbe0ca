package cart

import (
	"github.com/google/uuid"
)

// Line is a cart entry for one product. Quantity never drops below one; a
// line that should disappear is removed, not zeroed.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
}

// Cart is an immutable value. Every operation returns a new Cart and leaves
// the receiver untouched, so callers can hold onto prior states safely.
// Insertion order of lines is preserved.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() Cart {
	return Cart{}
}

// FromLines builds a cart from existing lines, clamping quantities to one.
func FromLines(lines []Line) Cart {
	copied := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			continue
		}
		if line.Qty < 1 {
			line.Qty = 1
		}
		copied = append(copied, line)
	}
	return Cart{lines: copied}
}

// Add puts the product in the cart with quantity one. Adding a product that
// is already present changes nothing, including its quantity.
func (c Cart) Add(productID uuid.UUID) Cart {
	if productID == uuid.Nil {
		return c
	}
	if _, ok := c.find(productID); ok {
		return c
	}
	lines := append(c.copyLines(), Line{ProductID: productID, Qty: 1})
	return Cart{lines: lines}
}

// AdjustQuantity shifts the quantity of an existing line by delta, clamped to
// a floor of one. Adjusting a product that is not in the cart changes nothing.
func (c Cart) AdjustQuantity(productID uuid.UUID, delta int) Cart {
	idx, ok := c.find(productID)
	if !ok {
		return c
	}
	qty := c.lines[idx].Qty + delta
	if qty < 1 {
		qty = 1
	}
	lines := c.copyLines()
	lines[idx].Qty = qty
	return Cart{lines: lines}
}

// Remove drops the product's line. Removing an absent product changes nothing.
func (c Cart) Remove(productID uuid.UUID) Cart {
	idx, ok := c.find(productID)
	if !ok {
		return c
	}
	lines := c.copyLines()
	lines = append(lines[:idx], lines[idx+1:]...)
	return Cart{lines: lines}
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

// Lines returns a copy of the cart's lines in insertion order.
func (c Cart) Lines() []Line {
	return c.copyLines()
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Len returns the number of distinct product lines.
func (c Cart) Len() int {
	return len(c.lines)
}

// Qty returns the quantity for the product, or zero when absent.
func (c Cart) Qty(productID uuid.UUID) int {
	if idx, ok := c.find(productID); ok {
		return c.lines[idx].Qty
	}
	return 0
}

func (c Cart) find(productID uuid.UUID) (int, bool) {
	for i, line := range c.lines {
		if line.ProductID == productID {
			return i, true
		}
	}
	return 0, false
}

func (c Cart) copyLines() []Line {
	return append([]Line(nil), c.lines...)
}
