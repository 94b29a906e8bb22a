package services

import (
	"foodify/models"

	"github.com/shopspring/decimal"
)

// Cart holds the lines the customer intends to order. One line per distinct
// item id, in insertion order. Count and Total are recomputed on every read;
// there is no cached state to go stale.
type Cart struct {
	lines []models.CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add puts one unit of item in the cart. If a line for the item already
// exists its quantity grows by one, otherwise a new line is appended.
func (c *Cart) Add(item models.MenuItem) {
	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, models.CartLine{Item: item, Quantity: 1})
}

// Increase bumps the quantity of the line for id. No-op if id is absent.
func (c *Cart) Increase(id int64) {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			c.lines[i].Quantity++
			return
		}
	}
}

// Decrease lowers the quantity of the line for id, clamped at 1. A line is
// never removed implicitly; use Remove. No-op if id is absent.
func (c *Cart) Decrease(id int64) {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			if c.lines[i].Quantity > 1 {
				c.lines[i].Quantity--
			}
			return
		}
	}
}

// Remove deletes the line for id entirely. No-op if id is absent.
func (c *Cart) Remove(id int64) {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	return append([]models.CartLine(nil), c.lines...)
}

// Count is the sum of quantities over all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total is the sum of quantity x unit price over all lines, rounded to
// 2 decimal places.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round(2)
}
