package core

import "context"

type StockAdjustment struct {
	DishID string `json:"id"`
	Delta  int    `json:"delta"`
}

// StockLevel is the state of one dish after an adjustment. Stock is nil
// for dishes whose inventory is not tracked.
type StockLevel struct {
	DishID      string `json:"dish_id"`
	Stock       *int   `json:"stock"`
	IsAvailable bool   `json:"is_available"`
}

type InventoryAdjuster interface {
	Adjust(ctx context.Context, items []StockAdjustment) ([]StockLevel, error)
}
