package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MKovalyov/food_delivery/internal/mykafka"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// currentUserID reads the subject set by the auto-refresh middleware.
func currentUserID(c echo.Context) (string, error) {
	v, ok := c.Get("userID").(string)
	if !ok || v == "" {
		return "", errors.New("unauthorized")
	}
	return v, nil
}

// publishEvent is fire-and-forget: delivery failures are logged, never
// surfaced to the client. A nil producer disables events entirely.
func publishEvent(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, "unauthorized")
}
