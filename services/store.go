package services

import (
	"fmt"
	"sync"
	"time"

	"foodify/catalog"
	"foodify/models"

	"github.com/shopspring/decimal"
)

const (
	DefaultSubmitDelay  = 1200 * time.Millisecond
	DefaultPlacedWindow = 3 * time.Second
)

// Options tunes the checkout pipeline timings. Zero values fall back to the
// defaults above.
type Options struct {
	SubmitDelay  time.Duration // simulated submission latency
	PlacedWindow time.Duration // how long Succeeded is shown before reverting to Idle
}

// Store owns all session state: catalog, filter state, cart, delivery form,
// order history and the checkout pipeline. It is the single mutator; the
// presentation layer only calls its queries and commands. The mutex exists
// because completeSubmit runs on a timer goroutine, not because commands
// overlap.
type Store struct {
	mu sync.Mutex

	catalog  *catalog.Catalog
	filters  FilterState
	cart     *Cart
	form     models.DeliveryForm
	history  *OrderHistory
	pipeline string

	submitDelay  time.Duration
	placedWindow time.Duration
	placedHooks  []func(models.Order)
}

func NewStore(cat *catalog.Catalog, opts Options) *Store {
	if opts.SubmitDelay <= 0 {
		opts.SubmitDelay = DefaultSubmitDelay
	}
	if opts.PlacedWindow <= 0 {
		opts.PlacedWindow = DefaultPlacedWindow
	}
	return &Store{
		catalog:      cat,
		filters:      DefaultFilterState(),
		cart:         NewCart(),
		form:         models.NewDeliveryForm(),
		history:      NewOrderHistory(SeedOrders()...),
		pipeline:     PipelineIdle,
		submitDelay:  opts.SubmitDelay,
		placedWindow: opts.PlacedWindow,
	}
}

// OnOrderPlaced registers fn to run after an order has been appended to the
// history and the cart cleared. Hooks run outside the store lock.
func (s *Store) OnOrderPlaced(fn func(models.Order)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placedHooks = append(s.placedHooks, fn)
}

// --- queries ---

func (s *Store) Catalog() []models.MenuItem {
	return s.catalog.Items()
}

func (s *Store) Categories() []models.Category {
	return s.catalog.Categories()
}

func (s *Store) PopularItems() []models.MenuItem {
	return s.catalog.Popular()
}

// VisibleItems runs the filter/sort engine against the current filter state.
func (s *Store) VisibleItems() []models.MenuItem {
	s.mu.Lock()
	f := s.filters
	s.mu.Unlock()
	return VisibleItems(s.catalog.Items(), f)
}

func (s *Store) Filters() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *Store) CartLines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Orders()
}

func (s *Store) Form() models.DeliveryForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Store) PipelineState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline
}

// --- filter commands ---

func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.SearchTerm = term
}

func (s *Store) SetCategory(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Category = name
}

func (s *Store) SetPriceBand(band string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.PriceBand = band
}

func (s *Store) SetSortKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.SortKey = key
}

func (s *Store) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = DefaultFilterState()
}

// --- cart commands ---

func (s *Store) AddToCart(itemID int64) error {
	item, ok := s.catalog.ItemByID(itemID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownItem, itemID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Add(item)
	return nil
}

func (s *Store) IncreaseQty(itemID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Increase(itemID)
}

func (s *Store) DecreaseQty(itemID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Decrease(itemID)
}

func (s *Store) RemoveFromCart(itemID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(itemID)
}

// --- delivery form commands ---

func (s *Store) SetCustomerName(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Name = v
}

func (s *Store) SetAddress(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Address = v
}

func (s *Store) SetPhone(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Phone = v
}

func (s *Store) SetEmail(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Email = v
}

func (s *Store) SetPaymentMethod(method string) error {
	if method != models.PaymentCard && method != models.PaymentCash {
		return fmt.Errorf("unknown payment method: %s", method)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.PaymentMethod = method
	return nil
}

// --- checkout ---

// SubmitOrder runs the entry guard and, if it passes, moves the pipeline to
// Submitting and schedules completion after the simulated latency. It returns
// ErrSubmitInFlight while a submission is pending and a *ValidationError when
// the guard rejects; in both cases no state changes. Once scheduled, the
// submission cannot fail. The cart lines are captured here: mutating the cart
// during the delay never reaches the placed order.
func (s *Store) SubmitOrder() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipeline == PipelineSubmitting {
		return ErrSubmitInFlight
	}
	if err := ValidSubmission(s.cart.Lines(), s.form); err != nil {
		return err
	}
	s.pipeline = PipelineSubmitting
	lines := s.cart.Lines()
	time.AfterFunc(s.submitDelay, func() { s.completeSubmit(lines) })
	return nil
}

func (s *Store) completeSubmit(lines []models.CartLine) {
	s.mu.Lock()
	order := SnapshotOrder(lines, time.Now())
	s.history.Prepend(order)
	s.cart.Clear()
	s.form = models.NewDeliveryForm()
	s.pipeline = PipelineSucceeded
	hooks := append([]func(models.Order){}, s.placedHooks...)
	window := s.placedWindow
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(order)
	}

	// Succeeded is transient; fall back to Idle once the display window ends.
	time.AfterFunc(window, func() {
		s.mu.Lock()
		if s.pipeline == PipelineSucceeded {
			s.pipeline = PipelineIdle
		}
		s.mu.Unlock()
	})
}
