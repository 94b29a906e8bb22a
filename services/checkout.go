package services

import (
	"strings"
	"time"

	"foodify/models"

	"github.com/google/uuid"
)

// Pipeline states for the checkout state machine.
const (
	PipelineIdle       = "idle"
	PipelineSubmitting = "submitting"
	PipelineSucceeded  = "succeeded"
)

// ValidSubmission is the synchronous entry guard of the checkout pipeline.
// It rejects an empty cart and blank required delivery fields. Whitespace-only
// values count as blank.
func ValidSubmission(lines []models.CartLine, form models.DeliveryForm) error {
	if len(lines) == 0 {
		return &ValidationError{Field: "cart", Reason: "cart is empty"}
	}
	if strings.TrimSpace(form.Name) == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if strings.TrimSpace(form.Address) == "" {
		return &ValidationError{Field: "address", Reason: "address is required"}
	}
	if strings.TrimSpace(form.Phone) == "" {
		return &ValidationError{Field: "phone", Reason: "phone is required"}
	}
	return nil
}

// NewOrderID returns a fresh order id. The id space is large enough that
// collisions within a session are not a practical concern.
func NewOrderID() string {
	return "ORD-" + strings.ToUpper(uuid.NewString())
}

// SnapshotOrder freezes the given cart lines into a new pending Order dated
// now. The snapshot copies names and unit prices, so later catalog changes
// never reach past orders.
func SnapshotOrder(lines []models.CartLine, now time.Time) models.Order {
	items := make([]models.OrderItem, len(lines))
	total := (&Cart{lines: lines}).Total()
	for i, l := range lines {
		items[i] = models.OrderItem{
			Name:      l.Item.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Item.Price,
		}
	}
	return models.Order{
		ID:     NewOrderID(),
		Items:  items,
		Total:  total,
		Status: models.OrderStatusPending,
		Date:   now,
	}
}
