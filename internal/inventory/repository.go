package inventory

import (
	"context"

	"darmenu/internal/core"
)

type Repository interface {
	Items(ctx context.Context) ([]Item, error)
	Stock(ctx context.Context, dishID string) (*int, error)
	SetStock(ctx context.Context, dishID string, stock int) (core.StockLevel, error)
	// Adjust applies all deltas in one transaction. Unknown dishes are
	// skipped.
	Adjust(ctx context.Context, items []core.StockAdjustment) ([]core.StockLevel, error)
}
