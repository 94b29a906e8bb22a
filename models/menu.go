package models

import "github.com/shopspring/decimal"

type Category struct {
	ID   int64
	Name string // unique
	Icon string
}

type MenuItem struct {
	ID          int64
	Name        string
	Category    string // must match a known Category name
	Price       decimal.Decimal
	Rating      float64 // 0..5
	Description string
	ImageRef    string
}

// CartLine holds one distinct menu item and how many of it the customer wants.
// Quantity is always >= 1; removal is an explicit operation, never a side effect
// of decrementing.
type CartLine struct {
	Item     MenuItem
	Quantity int
}

// Subtotal returns quantity x unit price for this line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
