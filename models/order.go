package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusDelivered = "delivered"
)

const (
	PaymentCard = "card"
	PaymentCash = "cash"
)

// OrderItem is a snapshot of a cart line at submission time. It carries the
// name and unit price as they were when the order was placed, so later catalog
// changes never alter past orders.
type OrderItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is immutable once created. Status values other than pending only
// appear in seed data; nothing in this core advances a pending order.
type Order struct {
	ID     string
	Items  []OrderItem
	Total  decimal.Decimal
	Status string
	Date   time.Time
}

// DeliveryForm is the checkout form scratch state. Name, Address and Phone are
// required; Email is optional.
type DeliveryForm struct {
	Name          string
	Address       string
	Phone         string
	Email         string
	PaymentMethod string // PaymentCard or PaymentCash
}

// NewDeliveryForm returns the form's empty defaults (card payment preselected).
func NewDeliveryForm() DeliveryForm {
	return DeliveryForm{PaymentMethod: PaymentCard}
}
