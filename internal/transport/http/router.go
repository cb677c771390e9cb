package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/MKovalyov/food_delivery/internal/handlers"
	"github.com/MKovalyov/food_delivery/internal/logging"
	"github.com/MKovalyov/food_delivery/internal/service"
)

type Deps struct {
	DB                *gorm.DB
	Logger            *slog.Logger
	AuthHandler       *handlers.AuthHandler
	CartHandler       *handlers.CartHandler
	RestaurantHandler *handlers.RestaurantHandler
	OrderHandler      *handlers.OrderHandler
	SearchHandler     *handlers.SearchHandler
	TokenService      *service.TokenService
}

// requestLogger puts a request-scoped logger into the request context, so
// handlers picking it up via logging.FromContext carry the request id.
func requestLogger(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rl := l.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), rl)))
			return next(c)
		}
	}
}

func Register(e *echo.Echo, d *Deps) {
	if d.Logger != nil {
		e.Use(requestLogger(d.Logger))
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	v1.GET("/categories", d.RestaurantHandler.GetCategories)
	v1.GET("/discounts", d.RestaurantHandler.GetDiscounts)
	v1.GET("/restaurants", d.RestaurantHandler.GetRestaurants)
	v1.GET("/restaurants/:id", d.RestaurantHandler.GetRestaurant)
	v1.GET("/restaurants/:id/menu", d.RestaurantHandler.GetRestaurantMenu)
	v1.GET("/menu-items/:id", d.RestaurantHandler.GetMenuItem)

	authed := v1.Group("", d.TokenService.AutoRefreshMiddleware)

	authed.GET("/cart", d.CartHandler.GetCart)
	authed.POST("/cart", d.CartHandler.AddToCart)
	authed.DELETE("/cart", d.CartHandler.ClearCart)
	authed.POST("/cart/resolve", d.CartHandler.ResolveConflict)
	authed.GET("/cart/totals", d.CartHandler.GetTotals)
	authed.PATCH("/cart/items/:id", d.CartHandler.UpdateQuantity)
	authed.DELETE("/cart/items/:id", d.CartHandler.RemoveItem)

	authed.POST("/cart/checkout", d.OrderHandler.Checkout)
	authed.GET("/orders", d.OrderHandler.GetOrders)

	authed.GET("/favorites", d.RestaurantHandler.GetFavorites)
	authed.POST("/favorites/:restaurantID", d.RestaurantHandler.AddFavorite)
	authed.DELETE("/favorites/:restaurantID", d.RestaurantHandler.RemoveFavorite)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)

	admin.POST("/restaurants", d.RestaurantHandler.CreateRestaurant)
	admin.PATCH("/restaurants/:id", d.RestaurantHandler.PatchRestaurant)
	admin.DELETE("/restaurants/:id", d.RestaurantHandler.DeleteRestaurant)
	admin.POST("/menu-items", d.RestaurantHandler.CreateMenuItem)
	admin.PATCH("/menu-items/:id", d.RestaurantHandler.PatchMenuItem)
	admin.DELETE("/menu-items/:id", d.RestaurantHandler.DeleteMenuItem)
}
