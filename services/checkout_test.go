package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"foodify/catalog"
	"foodify/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(catalog.Default(), Options{
		SubmitDelay:  50 * time.Millisecond,
		PlacedWindow: 10 * time.Millisecond,
	})
}

func fillForm(s *Store) {
	s.SetCustomerName("Ada")
	s.SetAddress("1 Main St")
	s.SetPhone("+1 555 0100")
}

func placedOrder(t *testing.T, s *Store) models.Order {
	t.Helper()
	done := make(chan models.Order, 1)
	s.OnOrderPlaced(func(o models.Order) { done <- o })
	if err := s.SubmitOrder(); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if got := s.PipelineState(); got != PipelineSubmitting {
		t.Fatalf("pipeline state after submit = %s, want %s", got, PipelineSubmitting)
	}
	select {
	case o := <-done:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("order never completed")
		return models.Order{}
	}
}

func TestValidSubmission(t *testing.T) {
	cat := catalog.Default()
	margherita, _ := cat.ItemByID(1)
	lines := []models.CartLine{{Item: margherita, Quantity: 1}}
	okForm := models.DeliveryForm{Name: "Ada", Address: "1 Main St", Phone: "+1 555 0100"}

	tests := []struct {
		name      string
		lines     []models.CartLine
		form      models.DeliveryForm
		wantField string
	}{
		{"empty cart", nil, okForm, "cart"},
		{"missing name", lines, models.DeliveryForm{Address: "a", Phone: "p"}, "name"},
		{"whitespace name", lines, models.DeliveryForm{Name: "  ", Address: "a", Phone: "p"}, "name"},
		{"missing address", lines, models.DeliveryForm{Name: "n", Phone: "p"}, "address"},
		{"missing phone", lines, models.DeliveryForm{Name: "n", Address: "a"}, "phone"},
		{"valid", lines, okForm, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidSubmission(tt.lines, tt.form)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			ve, ok := AsValidationError(err)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %s, want %s", ve.Field, tt.wantField)
			}
		})
	}
}

func TestSubmitEmptyCartLeavesEverythingUntouched(t *testing.T) {
	s := testStore(t)
	fillForm(s)
	before := len(s.Orders())

	err := s.SubmitOrder()
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := s.PipelineState(); got != PipelineIdle {
		t.Errorf("pipeline state = %s, want %s", got, PipelineIdle)
	}
	if len(s.Orders()) != before {
		t.Errorf("order history changed on failed submission")
	}
}

func TestPlaceOrderScenario(t *testing.T) {
	s := testStore(t)
	if err := s.AddToCart(1); err != nil { // Margherita Pizza 12.99
		t.Fatal(err)
	}
	if err := s.AddToCart(5); err != nil { // Coca Cola 2.99
		t.Fatal(err)
	}
	s.IncreaseQty(5) // x2
	fillForm(s)
	s.SetEmail("ada@example.com")
	if err := s.SetPaymentMethod(models.PaymentCash); err != nil {
		t.Fatal(err)
	}
	historyBefore := len(s.Orders())

	order := placedOrder(t, s)

	if order.Total.StringFixed(2) != "18.97" {
		t.Errorf("order total = %s, want 18.97", order.Total.StringFixed(2))
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("order status = %s, want %s", order.Status, models.OrderStatusPending)
	}
	if len(order.Items) != 2 {
		t.Fatalf("order items = %d, want 2", len(order.Items))
	}
	if order.Items[0].Name != "Margherita Pizza" || order.Items[0].Quantity != 1 {
		t.Errorf("unexpected first item: %+v", order.Items[0])
	}
	if order.Items[1].Name != "Coca Cola" || order.Items[1].Quantity != 2 {
		t.Errorf("unexpected second item: %+v", order.Items[1])
	}

	if got := len(s.CartLines()); got != 0 {
		t.Errorf("cart has %d lines after order, want 0", got)
	}
	orders := s.Orders()
	if len(orders) != historyBefore+1 {
		t.Fatalf("history length = %d, want %d", len(orders), historyBefore+1)
	}
	if orders[0].ID != order.ID {
		t.Errorf("new order is not at index 0")
	}
	form := s.Form()
	if form.Name != "" || form.Address != "" || form.Phone != "" || form.Email != "" {
		t.Errorf("form not reset: %+v", form)
	}
	if form.PaymentMethod != models.PaymentCard {
		t.Errorf("payment method not reset to card: %s", form.PaymentMethod)
	}
}

func TestCartMutationDuringDelayDoesNotReachOrder(t *testing.T) {
	s := testStore(t)
	if err := s.AddToCart(1); err != nil { // Margherita Pizza 12.99
		t.Fatal(err)
	}
	fillForm(s)

	done := make(chan models.Order, 1)
	s.OnOrderPlaced(func(o models.Order) { done <- o })
	if err := s.SubmitOrder(); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}

	// Mutate the cart while the submission is in flight. The order must
	// reflect the cart as it was at submit time.
	s.RemoveFromCart(1)
	if err := s.AddToCart(7); err != nil { // Chocolate Cake
		t.Fatal(err)
	}

	var order models.Order
	select {
	case order = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("order never completed")
	}

	if len(order.Items) != 1 || order.Items[0].Name != "Margherita Pizza" {
		t.Fatalf("order items = %+v, want the Margherita captured at submit", order.Items)
	}
	if got := order.Total.StringFixed(2); got != "12.99" {
		t.Errorf("order total = %s, want 12.99", got)
	}
	if got := len(s.CartLines()); got != 0 {
		t.Errorf("cart has %d lines after completion, want 0", got)
	}
}

func TestSecondSubmitRejectedWhileInFlight(t *testing.T) {
	s := NewStore(catalog.Default(), Options{
		SubmitDelay:  200 * time.Millisecond,
		PlacedWindow: 10 * time.Millisecond,
	})
	if err := s.AddToCart(3); err != nil {
		t.Fatal(err)
	}
	fillForm(s)

	if err := s.SubmitOrder(); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := s.SubmitOrder(); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("second submit = %v, want ErrSubmitInFlight", err)
	}
}

func TestSucceededRevertsToIdle(t *testing.T) {
	s := testStore(t)
	if err := s.AddToCart(7); err != nil {
		t.Fatal(err)
	}
	fillForm(s)
	placedOrder(t, s)

	if got := s.PipelineState(); got != PipelineSucceeded {
		t.Fatalf("pipeline state right after completion = %s, want %s", got, PipelineSucceeded)
	}
	deadline := time.Now().Add(2 * time.Second)
	for s.PipelineState() != PipelineIdle {
		if time.Now().After(deadline) {
			t.Fatal("pipeline never reverted to idle")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestOrderSnapshotIsDecoupled(t *testing.T) {
	cat := catalog.Default()
	margherita, _ := cat.ItemByID(1)
	lines := []models.CartLine{{Item: margherita, Quantity: 3}}

	order := SnapshotOrder(lines, time.Now())
	if order.Total.StringFixed(2) != "38.97" {
		t.Errorf("total = %s, want 38.97", order.Total.StringFixed(2))
	}

	// Mutating the source lines after the snapshot must not reach the order.
	lines[0].Quantity = 99
	lines[0].Item.Name = "changed"
	if order.Items[0].Quantity != 3 || order.Items[0].Name != "Margherita Pizza" {
		t.Errorf("snapshot shares state with cart lines: %+v", order.Items[0])
	}
}

func TestNewOrderIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewOrderID()
		if !strings.HasPrefix(id, "ORD-") {
			t.Fatalf("id %q missing ORD- prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSeedOrders(t *testing.T) {
	s := testStore(t)
	orders := s.Orders()
	if len(orders) != 2 {
		t.Fatalf("fresh session has %d orders, want 2", len(orders))
	}
	// Newest first: ORD-002 (2025-01-16) before ORD-001 (2025-01-15).
	if orders[0].ID != "ORD-002" || orders[1].ID != "ORD-001" {
		t.Errorf("seed order ordering wrong: %s, %s", orders[0].ID, orders[1].ID)
	}
	if orders[1].Total.StringFixed(2) != "18.97" {
		t.Errorf("ORD-001 total = %s, want 18.97", orders[1].Total.StringFixed(2))
	}
	if orders[0].Status != models.OrderStatusPreparing || orders[1].Status != models.OrderStatusDelivered {
		t.Errorf("seed statuses wrong: %s, %s", orders[0].Status, orders[1].Status)
	}
}
