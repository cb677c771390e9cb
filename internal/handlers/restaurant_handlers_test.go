package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKovalyov/food_delivery/internal/models"
)

func seedRestaurant(env *testEnv, name string, rating float64, open, featured bool) models.Restaurant {
	r := models.Restaurant{
		Name:       name,
		Address:    "somewhere",
		Rating:     rating,
		IsOpen:     open,
		IsFeatured: featured,
	}
	require.NoError(env.T, env.DB.Create(&r).Error)
	return r
}

func TestGetRestaurants_FiltersAndOrder(t *testing.T) {
	env := newTestEnv(t)
	h := &RestaurantHandler{DB: env.DB}

	seedRestaurant(env, "closed", 5, false, false)
	low := seedRestaurant(env, "low", 3.2, true, false)
	high := seedRestaurant(env, "high", 4.8, true, true)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/restaurants", nil, "")
	require.NoError(t, h.GetRestaurants(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Restaurant `json:"data"`
		Meta map[string]any      `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, high.ID, resp.Data[0].ID)
	assert.Equal(t, low.ID, resp.Data[1].ID)
	assert.EqualValues(t, 2, resp.Meta["total"])
}

func TestGetRestaurants_Featured(t *testing.T) {
	env := newTestEnv(t)
	h := &RestaurantHandler{DB: env.DB}

	seedRestaurant(env, "plain", 4, true, false)
	featured := seedRestaurant(env, "featured", 4, true, true)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/restaurants?featured=1", nil, "")
	require.NoError(t, h.GetRestaurants(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Restaurant `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, featured.ID, resp.Data[0].ID)
}

func TestGetRestaurant_NotFound(t *testing.T) {
	env := newTestEnv(t)
	h := &RestaurantHandler{DB: env.DB}

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/restaurants/missing", nil, "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())
	err := h.GetRestaurant(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestGetRestaurantMenu_OnlyAvailable(t *testing.T) {
	env := newTestEnv(t)
	h := &RestaurantHandler{DB: env.DB}
	r := seedRestaurant(env, "diner", 4, true, false)

	require.NoError(t, env.DB.Create(&models.MenuItem{
		RestaurantID: r.ID, Name: "soup", Price: 3, IsAvailable: true,
	}).Error)
	require.NoError(t, env.DB.Create(&models.MenuItem{
		RestaurantID: r.ID, Name: "off_menu", Price: 9, IsAvailable: false,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/restaurants/"+r.ID+"/menu", nil, "")
	c.SetParamNames("id")
	c.SetParamValues(r.ID)
	require.NoError(t, h.GetRestaurantMenu(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "soup", resp[0].Name)
}

func TestFavorites(t *testing.T) {
	env := newTestEnv(t)
	h := &RestaurantHandler{DB: env.DB}
	userID := uuid.NewString()
	r := seedRestaurant(env, "fav", 4, true, false)

	// adding twice keeps a single row
	for i := 0; i < 2; i++ {
		rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/favorites/"+r.ID, nil, userID)
		c.SetParamNames("restaurantID")
		c.SetParamValues(r.ID)
		require.NoError(t, h.AddFavorite(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	var count int64
	env.DB.Model(&models.Favorite{}).Count(&count)
	require.EqualValues(t, 1, count)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/favorites", nil, userID)
	require.NoError(t, h.GetFavorites(c))
	var favs []models.Restaurant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &favs))
	require.Len(t, favs, 1)
	assert.Equal(t, r.ID, favs[0].ID)

	rec, c = env.doJSONRequest(http.MethodDelete, "/api/v1/favorites/"+r.ID, nil, userID)
	c.SetParamNames("restaurantID")
	c.SetParamValues(r.ID)
	require.NoError(t, h.RemoveFavorite(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	env.DB.Model(&models.Favorite{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateAndPatchMenuItem(t *testing.T) {
	env := newTestEnv(t)
	h := &RestaurantHandler{DB: env.DB}
	r := seedRestaurant(env, "admin_target", 4, true, false)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/menu-items", map[string]any{
		"restaurant_id": r.ID,
		"name":          "wrap",
		"price":         6.5,
		"is_available":  true,
	}, "")
	require.NoError(t, h.CreateMenuItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec, c = env.doJSONRequest(http.MethodPatch, "/api/v1/admin/menu-items/"+created.ID, map[string]any{
		"price": 7.0,
	}, "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, h.PatchMenuItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.MenuItem
	require.NoError(t, env.DB.Where("id = ?", created.ID).First(&updated).Error)
	assert.Equal(t, 7.0, updated.Price)
	assert.Equal(t, "wrap", updated.Name)
}
