// Package cartstore backs cart.Store and cart.Catalog with gorm.
package cartstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/MKovalyov/food_delivery/internal/cart"
	"github.com/MKovalyov/food_delivery/internal/models"
)

type GormStore struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) ListLines(ctx context.Context, userID string) ([]models.CartItem, error) {
	var lines []models.CartItem
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *GormStore) InsertLine(ctx context.Context, line *models.CartItem) error {
	return s.DB.WithContext(ctx).Create(line).Error
}

func (s *GormStore) UpdateLine(ctx context.Context, line *models.CartItem) error {
	return s.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", line.ID).
		Updates(map[string]any{
			"quantity":    line.Quantity,
			"total_price": line.TotalPrice,
			"note":        line.Note,
		}).Error
}

func (s *GormStore) DeleteLine(ctx context.Context, userID, id string) error {
	// gorm reports no error for a delete that matched nothing, which is
	// exactly the idempotence RemoveItem needs. Scoping by user keeps one
	// user's line ids useless to another.
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.CartItem{}).Error
}

func (s *GormStore) DeleteAllForUser(ctx context.Context, userID string) error {
	return s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

func (s *GormStore) PriceOf(ctx context.Context, menuItemID string) (cart.PriceQuote, error) {
	var item models.MenuItem
	if err := s.DB.WithContext(ctx).
		Select("price", "restaurant_id").
		Where("id = ?", menuItemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.PriceQuote{}, cart.ErrItemNotFound
		}
		return cart.PriceQuote{}, err
	}
	return cart.PriceQuote{UnitPrice: item.Price, RestaurantID: item.RestaurantID}, nil
}
