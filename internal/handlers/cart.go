package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MKovalyov/food_delivery/internal/cart"
	"github.com/MKovalyov/food_delivery/internal/logging"
	"github.com/MKovalyov/food_delivery/internal/mykafka"
)

type CartHandler struct {
	Svc      *cart.Service
	Producer *mykafka.Producer
}

type addToCartRequest struct {
	MenuItemID   string `json:"menu_item_id"`
	RestaurantID string `json:"restaurant_id"`
	Quantity     int    `json:"quantity"`
	Note         string `json:"note"`
}

// cartError translates the core's tagged errors into HTTP responses. The
// core never logs or retries; messaging policy lives here.
func cartError(c echo.Context, err error) error {
	var conflict *cart.DifferentRestaurantError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, echo.Map{
			"code":                   "different_restaurant",
			"message":                "cart can only contain items from one restaurant",
			"existing_restaurant_id": conflict.ExistingRestaurantID,
		})
	}
	var partial *cart.PartialFailureError
	if errors.As(err, &partial) {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"code":    "cart_cleared_add_failed",
			"message": "cart was cleared but the new item was not added",
		})
	}
	switch {
	case errors.Is(err, cart.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "validation", "message": err.Error()})
	case errors.Is(err, cart.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"code": "item_not_found", "message": err.Error()})
	case errors.Is(err, cart.ErrLineNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"code": "line_not_found", "message": err.Error()})
	case errors.Is(err, cart.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"code": "store_unavailable", "message": "cart store unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"code": "internal", "message": "internal error"})
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	userID, err := currentUserID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return unauthorized(c)
	}

	items, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "error", err)
		return cartError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	userID, err := currentUserID(c)
	if err != nil {
		l.Error("add_to_cart_error", "status", 401, "error", err)
		return unauthorized(c)
	}

	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddItem(ctx, userID, req.MenuItemID, req.RestaurantID, req.Quantity, req.Note)
	if err != nil {
		l.Warn("add_to_cart_rejected", "error", err)
		return cartError(c, err)
	}

	publishEvent(c, h.Producer, "cart_events", userID, map[string]any{
		"type":       "cart_item_added",
		"userID":     userID,
		"menuItemID": item.MenuItemID,
		"quantity":   item.Quantity,
	})

	l.Info("item added to cart", "line", item.ID)
	return c.JSON(http.StatusOK, item)
}

// ResolveConflict is the clear-and-retry flow offered after a 409: the user
// confirmed they want to discard the existing cart.
func (h *CartHandler) ResolveConflict(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "resolve.cart.conflict")

	userID, err := currentUserID(c)
	if err != nil {
		l.Error("resolve_conflict_error", "status", 401, "error", err)
		return unauthorized(c)
	}

	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("resolve_conflict_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.ResolveConflictAndRetry(ctx, userID, req.MenuItemID, req.RestaurantID, req.Quantity, req.Note)
	if err != nil {
		l.Error("resolve_conflict_error", "error", err)
		return cartError(c, err)
	}

	publishEvent(c, h.Producer, "cart_events", userID, map[string]any{
		"type":       "cart_replaced",
		"userID":     userID,
		"menuItemID": item.MenuItemID,
		"quantity":   item.Quantity,
	})

	l.Info("cart replaced", "line", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart.quantity")

	userID, err := currentUserID(c)
	if err != nil {
		l.Error("update_quantity_error", "status", 401, "error", err)
		return unauthorized(c)
	}

	lineID := c.Param("id")
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID, lineID, req.Quantity)
	if err != nil {
		l.Warn("update_quantity_rejected", "error", err)
		return cartError(c, err)
	}

	publishEvent(c, h.Producer, "cart_events", userID, map[string]any{
		"type":        "cart_quantity_updated",
		"userID":      userID,
		"lineID":      item.ID,
		"newQuantity": item.Quantity,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.cart.item")

	userID, err := currentUserID(c)
	if err != nil {
		l.Error("remove_item_error", "status", 401, "error", err)
		return unauthorized(c)
	}

	lineID := c.Param("id")
	if err := h.Svc.RemoveItem(ctx, userID, lineID); err != nil {
		l.Error("remove_item_error", "error", err)
		return cartError(c, err)
	}

	publishEvent(c, h.Producer, "cart_events", userID, map[string]any{
		"type":   "cart_item_removed",
		"userID": userID,
		"lineID": lineID,
	})

	return c.JSON(http.StatusOK, echo.Map{"deleted_item": lineID})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	userID, err := currentUserID(c)
	if err != nil {
		l.Error("clear_cart_error", "status", 401, "error", err)
		return unauthorized(c)
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		l.Error("clear_cart_error", "error", err)
		return cartError(c, err)
	}

	publishEvent(c, h.Producer, "cart_events", userID, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) GetTotals(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart.totals")

	userID, err := currentUserID(c)
	if err != nil {
		l.Error("get_totals_error", "status", 401, "error", err)
		return unauthorized(c)
	}

	totals, err := h.Svc.Totals(ctx, userID)
	if err != nil {
		l.Error("get_totals_error", "error", err)
		return cartError(c, err)
	}

	return c.JSON(http.StatusOK, totals)
}
