package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/MKovalyov/food_delivery/internal/models"
	"github.com/MKovalyov/food_delivery/internal/mykafka"
	"github.com/MKovalyov/food_delivery/internal/util"
)

type RestaurantHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *RestaurantHandler) GetCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// GetRestaurants lists open restaurants, best rated first. Supports
// ?featured=1 and ?category_id= filters plus page/size pagination.
func (h *RestaurantHandler) GetRestaurants(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Restaurant{}).Where("is_open = ?", true)
	if c.QueryParam("featured") == "1" || c.QueryParam("featured") == "true" {
		q = q.Where("is_featured = ?", true)
	}
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var items []models.Restaurant
	if err := q.Order("rating DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *RestaurantHandler) GetRestaurant(c echo.Context) error {
	var restaurant models.Restaurant
	if err := h.DB.Where("id = ?", c.Param("id")).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, restaurant)
}

// GetRestaurantMenu returns available menu items, popular first then by name.
func (h *RestaurantHandler) GetRestaurantMenu(c echo.Context) error {
	var items []models.MenuItem
	if err := h.DB.
		Where("restaurant_id = ? AND is_available = ?", c.Param("id"), true).
		Order("is_popular DESC").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *RestaurantHandler) GetMenuItem(c echo.Context) error {
	var item models.MenuItem
	if err := h.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *RestaurantHandler) GetDiscounts(c echo.Context) error {
	var discounts []models.Discount
	if err := h.DB.
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&discounts).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, discounts)
}

func (h *RestaurantHandler) AddFavorite(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	fav := models.Favorite{UserID: userID, RestaurantID: c.Param("restaurantID")}
	if err := h.DB.Where("user_id = ? AND restaurant_id = ?", fav.UserID, fav.RestaurantID).
		FirstOrCreate(&fav).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, fav)
}

func (h *RestaurantHandler) RemoveFavorite(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.DB.
		Where("user_id = ? AND restaurant_id = ?", userID, c.Param("restaurantID")).
		Delete(&models.Favorite{}).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RestaurantHandler) GetFavorites(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var favs []models.Favorite
	if err := h.DB.Where("user_id = ?", userID).Find(&favs).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	if len(favs) == 0 {
		return c.JSON(http.StatusOK, []models.Restaurant{})
	}

	ids := make([]string, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.RestaurantID)
	}
	var restaurants []models.Restaurant
	if err := h.DB.Where("id IN ?", ids).Find(&restaurants).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, restaurants)
}

func (h *RestaurantHandler) CreateRestaurant(c echo.Context) error {
	var restaurant models.Restaurant
	if err := c.Bind(&restaurant); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	restaurant.ID = ""

	if err := h.DB.Create(&restaurant).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	publishEvent(c, h.Producer, "restaurant_events", restaurant.ID, map[string]any{
		"type":         "restaurant_created",
		"restaurantID": restaurant.ID,
		"name":         restaurant.Name,
	})

	return c.JSON(http.StatusCreated, restaurant)
}

func (h *RestaurantHandler) PatchRestaurant(c echo.Context) error {
	var restaurant models.Restaurant
	if err := h.DB.Where("id = ?", c.Param("id")).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if err := c.Bind(&restaurant); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	restaurant.ID = c.Param("id")

	if err := h.DB.Save(&restaurant).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	publishEvent(c, h.Producer, "restaurant_events", restaurant.ID, map[string]any{
		"type":         "restaurant_updated",
		"restaurantID": restaurant.ID,
		"name":         restaurant.Name,
	})

	return c.JSON(http.StatusOK, restaurant)
}

func (h *RestaurantHandler) DeleteRestaurant(c echo.Context) error {
	id := c.Param("id")
	if err := h.DB.Where("id = ?", id).Delete(&models.Restaurant{}).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	publishEvent(c, h.Producer, "restaurant_events", id, map[string]any{
		"type":         "restaurant_deleted",
		"restaurantID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *RestaurantHandler) CreateMenuItem(c echo.Context) error {
	var item models.MenuItem
	if err := c.Bind(&item); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	item.ID = ""
	if item.RestaurantID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "restaurant_id required")
	}

	if err := h.DB.Create(&item).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	publishEvent(c, h.Producer, "restaurant_events", item.RestaurantID, map[string]any{
		"type":       "menu_item_created",
		"menuItemID": item.ID,
		"name":       item.Name,
	})

	return c.JSON(http.StatusCreated, item)
}

func (h *RestaurantHandler) PatchMenuItem(c echo.Context) error {
	var item models.MenuItem
	if err := h.DB.Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if err := c.Bind(&item); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	item.ID = c.Param("id")

	if err := h.DB.Save(&item).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	publishEvent(c, h.Producer, "restaurant_events", item.RestaurantID, map[string]any{
		"type":       "menu_item_updated",
		"menuItemID": item.ID,
		"name":       item.Name,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *RestaurantHandler) DeleteMenuItem(c echo.Context) error {
	id := c.Param("id")
	if err := h.DB.Where("id = ?", id).Delete(&models.MenuItem{}).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	publishEvent(c, h.Producer, "restaurant_events", id, map[string]any{
		"type":       "menu_item_deleted",
		"menuItemID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
