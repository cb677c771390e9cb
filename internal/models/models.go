package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"type:uuid;primaryKey"     json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type RefreshToken struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	Token     string `gorm:"unique;not null"      json:"token"`
	UserID    string `gorm:"index;not null"       json:"user_id"`
	Role      string `gorm:"not null"             json:"role"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"default:false"        json:"revoked"`
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type Category struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"not null"             json:"category_name"`
	Description string `json:"category_description"`
	ImageURL    string `json:"image_url,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Restaurant struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string  `gorm:"not null"             json:"restaurant_name"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	CategoryID   string  `gorm:"type:uuid;index"      json:"category_id"`
	ImageURL     string  `json:"image_url,omitempty"`
	Rating       float64 `json:"rating"`
	TotalReviews int     `json:"total_reviews"`
	DeliveryFee  float64 `json:"delivery_fee"`
	MinimumOrder float64 `json:"minimum_order"`
	DeliveryTime string  `json:"delivery_time"`
	IsOpen       bool    `gorm:"default:true"         json:"is_open"`
	IsFeatured   bool    `gorm:"default:false"        json:"is_featured"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type MenuItem struct {
	ID           string  `gorm:"type:uuid;primaryKey"     json:"id"`
	RestaurantID string  `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	Name         string  `gorm:"not null"                 json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `gorm:"not null"                 json:"price"`
	ImageURL     string  `json:"image_url,omitempty"`
	Category     string  `json:"category,omitempty"`
	IsVegetarian bool    `gorm:"default:false"            json:"is_vegetarian"`
	IsPopular    bool    `gorm:"default:false"            json:"is_popular"`
	IsAvailable  bool    `gorm:"default:true"             json:"is_available"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// CartItem is one line of a user's cart. TotalPrice always equals
// UnitPrice*Quantity; UnitPrice is snapshotted from the menu item at first
// add and is not re-fetched on quantity updates.
type CartItem struct {
	ID           string    `gorm:"type:uuid;primaryKey"      json:"id"`
	UserID       string    `gorm:"type:uuid;index;not null"  json:"user_id"`
	MenuItemID   string    `gorm:"type:uuid;not null"        json:"menu_item_id"`
	RestaurantID string    `gorm:"type:uuid;not null"        json:"restaurant_id"`
	Quantity     int       `gorm:"not null;check:quantity>0" json:"quantity"`
	UnitPrice    float64   `gorm:"not null"                  json:"price"`
	TotalPrice   float64   `gorm:"not null"                  json:"total_price"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Order struct {
	ID           string    `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID       string    `gorm:"type:uuid;index;not null" json:"user_id"`
	RestaurantID string    `gorm:"type:uuid;not null"       json:"restaurant_id"`
	Subtotal     float64   `gorm:"not null"                 json:"subtotal"`
	DeliveryFee  float64   `json:"delivery_fee"`
	Total        float64   `gorm:"not null"                 json:"total"`
	Status       string    `gorm:"not null"                 json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID         string  `gorm:"type:uuid;primaryKey"     json:"id"`
	OrderID    string  `gorm:"type:uuid;index;not null" json:"order_id"`
	UserID     string  `gorm:"type:uuid;not null"       json:"user_id"`
	MenuItemID string  `gorm:"type:uuid;not null"       json:"menu_item_id"`
	Quantity   int     `gorm:"not null"                 json:"quantity"`
	UnitPrice  float64 `gorm:"not null"                 json:"price"`
	TotalPrice float64 `gorm:"not null"                 json:"total_price"`
	Note       string  `json:"note,omitempty"`
}

func (o *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type Favorite struct {
	ID           string `gorm:"type:uuid;primaryKey"                      json:"id"`
	UserID       string `gorm:"type:uuid;uniqueIndex:idx_user_restaurant" json:"user_id"`
	RestaurantID string `gorm:"type:uuid;uniqueIndex:idx_user_restaurant" json:"restaurant_id"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

type Discount struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"not null"             json:"title"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image_url,omitempty"`
	DiscountPercent int       `json:"discount_percent"`
	ValidUntil      time.Time `json:"valid_until"`
	IsActive        bool      `gorm:"default:true"         json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

func (d *Discount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
