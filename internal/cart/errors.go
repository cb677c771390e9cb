package cart

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation")
	ErrItemNotFound = errors.New("menu item not found")
	ErrLineNotFound = errors.New("cart line not found")

	// ErrStoreUnavailable tags every failed round-trip to the cart store or
	// the catalog. The service never retries; the caller owns retry policy.
	ErrStoreUnavailable = errors.New("cart store unavailable")
)

// DifferentRestaurantError rejects an add that would mix restaurants in one
// cart. ExistingRestaurantID lets the caller offer "clear cart and retry".
type DifferentRestaurantError struct {
	ExistingRestaurantID string
}

func (e *DifferentRestaurantError) Error() string {
	return fmt.Sprintf("cart already holds items from restaurant %s", e.ExistingRestaurantID)
}

// StoreError wraps a failed store/catalog round-trip. Unwrap exposes both
// ErrStoreUnavailable and the underlying cause, so errors.Is works for either.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cart store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

// PartialFailureError is returned by ResolveConflictAndRetry when the clear
// succeeded but the retried add did not: the cart is now empty, which the
// caller must be able to tell apart from a clean failure that left it intact.
type PartialFailureError struct {
	Err error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("cart cleared but item was not added: %v", e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
