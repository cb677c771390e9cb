// Package cart enforces the single-restaurant cart rule: a user's cart may
// only hold lines from one restaurant at a time. All mutations of cart_items
// go through Service; it holds no in-process state and re-reads the store on
// every call, so concurrent adds from different sessions race exactly as the
// underlying store allows (check-then-act, no row locking).
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKovalyov/food_delivery/internal/models"
)

// Store is the persistence contract for cart lines. Any row-oriented store
// satisfies it; ListLines must return lines in creation order (oldest first).
type Store interface {
	ListLines(ctx context.Context, userID string) ([]models.CartItem, error)
	InsertLine(ctx context.Context, line *models.CartItem) error
	UpdateLine(ctx context.Context, line *models.CartItem) error
	DeleteLine(ctx context.Context, userID, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

// PriceQuote is the catalog's answer for one menu item.
type PriceQuote struct {
	UnitPrice    float64
	RestaurantID string
}

type Catalog interface {
	// PriceOf returns ErrItemNotFound when the menu item does not exist.
	PriceOf(ctx context.Context, menuItemID string) (PriceQuote, error)
}

type Service struct {
	Store   Store
	Catalog Catalog
}

func NewService(store Store, catalog Catalog) *Service {
	return &Service{Store: store, Catalog: catalog}
}

type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	ItemCount int     `json:"item_count"`
}

func validateAdd(menuItemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	if menuItemID == "" {
		return fmt.Errorf("menu item id required: %w", ErrValidation)
	}
	return nil
}

// AddItem merges into an existing line for the same menu item, rejects items
// from a different restaurant, and inserts otherwise. Exactly one write on
// success, zero writes on conflict or validation failure. When restaurantID
// is empty the menu item's owning restaurant is used.
func (s *Service) AddItem(ctx context.Context, userID, menuItemID, restaurantID string, quantity int, note string) (*models.CartItem, error) {
	if err := validateAdd(menuItemID, quantity); err != nil {
		return nil, err
	}

	quote, err := s.Catalog.PriceOf(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, err
		}
		return nil, &StoreError{Op: "price lookup", Err: err}
	}
	if restaurantID == "" {
		restaurantID = quote.RestaurantID
	}

	lines, err := s.Store.ListLines(ctx, userID)
	if err != nil {
		return nil, &StoreError{Op: "list lines", Err: err}
	}

	for i := range lines {
		if lines[i].MenuItemID != menuItemID {
			continue
		}
		line := lines[i]
		line.Quantity += quantity
		line.TotalPrice = line.UnitPrice * float64(line.Quantity)
		if note != "" {
			line.Note = note
		}
		if err := s.Store.UpdateLine(ctx, &line); err != nil {
			return nil, &StoreError{Op: "update line", Err: err}
		}
		return &line, nil
	}

	// The invariant checks every existing line, not just the first one.
	for i := range lines {
		if lines[i].RestaurantID != restaurantID {
			return nil, &DifferentRestaurantError{ExistingRestaurantID: lines[i].RestaurantID}
		}
	}

	line := &models.CartItem{
		UserID:       userID,
		MenuItemID:   menuItemID,
		RestaurantID: restaurantID,
		Quantity:     quantity,
		UnitPrice:    quote.UnitPrice,
		TotalPrice:   quote.UnitPrice * float64(quantity),
		Note:         note,
	}
	if err := s.Store.InsertLine(ctx, line); err != nil {
		return nil, &StoreError{Op: "insert line", Err: err}
	}
	return line, nil
}

// UpdateQuantity sets a line's quantity and recomputes its total from the
// stored unit price. Zero or negative quantity is a validation error, not a
// removal side channel.
func (s *Service) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	lines, err := s.Store.ListLines(ctx, userID)
	if err != nil {
		return nil, &StoreError{Op: "list lines", Err: err}
	}
	for i := range lines {
		if lines[i].ID != lineID {
			continue
		}
		line := lines[i]
		line.Quantity = quantity
		line.TotalPrice = line.UnitPrice * float64(quantity)
		if err := s.Store.UpdateLine(ctx, &line); err != nil {
			return nil, &StoreError{Op: "update line", Err: err}
		}
		return &line, nil
	}
	return nil, ErrLineNotFound
}

// RemoveItem deletes one line. Removing an absent line is not an error.
func (s *Service) RemoveItem(ctx context.Context, userID, lineID string) error {
	if err := s.Store.DeleteLine(ctx, userID, lineID); err != nil {
		return &StoreError{Op: "delete line", Err: err}
	}
	return nil
}

// ClearCart deletes every line of the user's cart. Idempotent.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	if err := s.Store.DeleteAllForUser(ctx, userID); err != nil {
		return &StoreError{Op: "delete all", Err: err}
	}
	return nil
}

// GetCart returns the cart lines in insertion order, oldest first. An empty
// cart comes back as an empty slice, never nil, so it serializes as [].
func (s *Service) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	lines, err := s.Store.ListLines(ctx, userID)
	if err != nil {
		return nil, &StoreError{Op: "list lines", Err: err}
	}
	if lines == nil {
		lines = []models.CartItem{}
	}
	return lines, nil
}

// Totals recomputes the cart summary on demand; nothing is cached.
func (s *Service) Totals(ctx context.Context, userID string) (Totals, error) {
	lines, err := s.Store.ListLines(ctx, userID)
	if err != nil {
		return Totals{}, &StoreError{Op: "list lines", Err: err}
	}
	var t Totals
	for _, l := range lines {
		t.Subtotal += l.TotalPrice
		t.ItemCount += l.Quantity
	}
	return t, nil
}

// ResolveConflictAndRetry clears the cart and re-issues the add. The two
// steps are not atomic: when the clear lands but the add fails the cart is
// left empty, and the caller gets a PartialFailureError so it can say so.
// Input is validated before the clear; a bad request never touches the cart.
func (s *Service) ResolveConflictAndRetry(ctx context.Context, userID, menuItemID, restaurantID string, quantity int, note string) (*models.CartItem, error) {
	if err := validateAdd(menuItemID, quantity); err != nil {
		return nil, err
	}
	if err := s.ClearCart(ctx, userID); err != nil {
		return nil, err
	}
	line, err := s.AddItem(ctx, userID, menuItemID, restaurantID, quantity, note)
	if err != nil {
		return nil, &PartialFailureError{Err: err}
	}
	return line, nil
}
