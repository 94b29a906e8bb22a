package services

import (
	"errors"
	"fmt"
)

// ErrSubmitInFlight is returned when an order submission is attempted while
// another one has not finished yet. Only one submission may be in flight.
var ErrSubmitInFlight = errors.New("order submission already in progress")

// ErrUnknownItem is returned when a cart command names an item id that does
// not exist in the catalog.
var ErrUnknownItem = errors.New("unknown menu item")

// ValidationError reports why an order submission was rejected by the entry
// guard. The pipeline stays idle and no state is mutated.
type ValidationError struct {
	Field  string // "cart", "name", "address" or "phone"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order: %s", e.Reason)
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
