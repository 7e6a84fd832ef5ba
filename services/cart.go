package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bikefood/models"
)

// Cart holds the customer's line items in insertion order, one line per
// item id. Lines are created and mutated only through AddItem and
// SetQuantity, so a line that exists always has quantity >= 1.
type Cart struct {
	lines []models.CartLine
}

// AddItem bumps the quantity of an existing line, or appends a new line
// with quantity 1. It never fails.
func (c *Cart) AddItem(item models.MenuItem) {
	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i].Qty++
			return
		}
	}
	c.lines = append(c.lines, models.CartLine{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Qty:       1,
		Image:     item.Image,
	})
}

// SetQuantity updates a line's quantity in place, preserving its position.
// Zero removes the line; a positive quantity for an unknown id is a no-op.
func (c *Cart) SetQuantity(itemID string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("quantity %d: %w", qty, ErrInvalidArgument)
	}
	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		if qty == 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Qty = qty
		}
		return nil
	}
	return nil
}

// Subtotal is the sum of unit price times quantity over all lines; zero
// for an empty cart.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return sum
}

// Total is the subtotal plus the delivery fee quoted for this order.
func (c *Cart) Total(deliveryFee decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Add(deliveryFee)
}

// Clear empties the cart; used when an order is finalized or abandoned.
func (c *Cart) Clear() {
	c.lines = nil
}

// Size returns the number of distinct lines.
func (c *Cart) Size() int {
	return len(c.lines)
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
