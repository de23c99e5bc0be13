package menu

import "time"

// Dish is a menu item. Stock is nil when inventory is not tracked for the
// dish.
type Dish struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"image_url"`
	IsAvailable   bool      `json:"is_available"`
	IsHidden      bool      `json:"is_hidden"`
	LoyaltyPoints *int      `json:"loyalty_points"`
	WaitTime      *int      `json:"wait_time"`
	Stock         *int      `json:"stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DishInput is the editable part of a dish.
type DishInput struct {
	Name          string  `json:"name" yaml:"name"`
	Description   string  `json:"description" yaml:"description"`
	Price         float64 `json:"price" yaml:"price"`
	Currency      string  `json:"currency" yaml:"currency"`
	Category      string  `json:"category" yaml:"category"`
	ImageURL      string  `json:"image_url" yaml:"image_url"`
	LoyaltyPoints *int    `json:"loyalty_points" yaml:"loyalty_points"`
	WaitTime      *int    `json:"wait_time" yaml:"wait_time"`
}

// Admin list filters.
const (
	FilterAll         = "all"
	FilterAvailable   = "available"
	FilterUnavailable = "unavailable"
)

func (in DishInput) apply(d *Dish) {
	d.Name = in.Name
	d.Description = in.Description
	d.Price = in.Price
	d.Currency = in.Currency
	d.Category = in.Category
	d.ImageURL = in.ImageURL
	d.LoyaltyPoints = in.LoyaltyPoints
	d.WaitTime = in.WaitTime
}
