package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/MKovalyov/food_delivery/internal/logging"
	"github.com/MKovalyov/food_delivery/internal/models"
	"github.com/MKovalyov/food_delivery/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type OrderResponse struct {
	OrderID     string             `json:"order_id"`
	Subtotal    float64            `json:"subtotal"`
	DeliveryFee float64            `json:"delivery_fee"`
	Total       float64            `json:"total"`
	Status      string             `json:"status"`
	Items       []models.OrderItem `json:"items"`
}

// Checkout turns the current cart into an order. Snapshotting the lines,
// computing totals and clearing the cart happen in one transaction, so a
// failed checkout leaves the cart untouched.
func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	userID, err := currentUserID(c)
	if err != nil {
		l.Error("checkout_error", "status", 401, "error", err)
		return unauthorized(c)
	}

	var (
		order      models.Order
		orderItems []models.OrderItem
	)

	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("created_at ASC").Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
		}

		var restaurant models.Restaurant
		if err := tx.Where("id = ?", lines[0].RestaurantID).First(&restaurant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusBadRequest, "restaurant not found")
			}
			return err
		}

		var subtotal float64
		for _, line := range lines {
			subtotal += line.TotalPrice
		}

		order = models.Order{
			UserID:       userID,
			RestaurantID: restaurant.ID,
			Subtotal:     subtotal,
			DeliveryFee:  restaurant.DeliveryFee,
			Total:        subtotal + restaurant.DeliveryFee,
			Status:       "new",
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems = make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			oi := models.OrderItem{
				OrderID:    order.ID,
				UserID:     userID,
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: line.TotalPrice,
				Note:       line.Note,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
			orderItems = append(orderItems, oi)
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})

	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		l.Error("checkout_error", "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "checkout failed")
	}

	publishEvent(c, h.Producer, "order_events", userID, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.Total,
	})

	l.Info("order placed", "order", order.ID, "total", order.Total)
	return c.JSON(http.StatusOK, OrderResponse{
		OrderID:     order.ID,
		Subtotal:    order.Subtotal,
		DeliveryFee: order.DeliveryFee,
		Total:       order.Total,
		Status:      order.Status,
		Items:       orderItems,
	})
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var orders []models.Order
	if err := h.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, orders)
}
