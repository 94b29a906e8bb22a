package services

import (
	"time"

	"foodify/models"

	"github.com/shopspring/decimal"
)

// OrderHistory is the per-session order list, newest first. The checkout
// pipeline only ever prepends; nothing is updated or removed.
type OrderHistory struct {
	orders []models.Order
}

func NewOrderHistory(seed ...models.Order) *OrderHistory {
	return &OrderHistory{orders: append([]models.Order(nil), seed...)}
}

func (h *OrderHistory) Prepend(o models.Order) {
	h.orders = append([]models.Order{o}, h.orders...)
}

// Orders returns a copy of the history, newest first.
func (h *OrderHistory) Orders() []models.Order {
	return append([]models.Order(nil), h.orders...)
}

func (h *OrderHistory) Len() int {
	return len(h.orders)
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err) // seed data is static
	}
	return t
}

// SeedOrders returns the two sample orders every fresh session starts with.
func SeedOrders() []models.Order {
	return []models.Order{
		{
			ID: "ORD-002",
			Items: []models.OrderItem{
				{Name: "Classic Burger", Quantity: 2, UnitPrice: decimal.RequireFromString("9.99")},
				{Name: "Fresh Juice", Quantity: 1, UnitPrice: decimal.RequireFromString("4.99")},
			},
			Total:  decimal.RequireFromString("24.97"),
			Status: models.OrderStatusPreparing,
			Date:   date("2025-01-16"),
		},
		{
			ID: "ORD-001",
			Items: []models.OrderItem{
				{Name: "Margherita Pizza", Quantity: 1, UnitPrice: decimal.RequireFromString("12.99")},
				{Name: "Coca Cola", Quantity: 2, UnitPrice: decimal.RequireFromString("2.99")},
			},
			Total:  decimal.RequireFromString("18.97"),
			Status: models.OrderStatusDelivered,
			Date:   date("2025-01-15"),
		},
	}
}
