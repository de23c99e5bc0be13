package inventory

import (
	"github.com/google/uuid"

	"darmenu/internal/core"
)

// Item is one dish as seen by the inventory screen.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       *int    `json:"stock"`
	IsAvailable bool    `json:"is_available"`
}

type Metrics struct {
	TotalItems      int `json:"total_items"`
	TotalUnits      int `json:"total_units"`
	LowStockItems   int `json:"low_stock_items"`
	OutOfStockItems int `json:"out_of_stock_items"`
	UntrackedItems  int `json:"untracked_items"`
}

type Overview struct {
	Items             []Item  `json:"items"`
	Metrics           Metrics `json:"metrics"`
	LowStockThreshold int     `json:"low_stock_threshold"`
}

// ComputeMetrics summarizes stock levels. Untracked items only count
// toward TotalItems and UntrackedItems.
func ComputeMetrics(items []Item, lowStockThreshold int) Metrics {
	m := Metrics{TotalItems: len(items)}
	for _, it := range items {
		if it.Stock == nil {
			m.UntrackedItems++
			continue
		}
		s := *it.Stock
		m.TotalUnits += s
		switch {
		case s == 0:
			m.OutOfStockItems++
		case s <= lowStockThreshold:
			m.LowStockItems++
		}
	}
	return m
}

// normalizeAdjustments drops entries with a malformed id or a zero delta.
// Repeated ids are kept and applied in order.
func normalizeAdjustments(items []core.StockAdjustment) []core.StockAdjustment {
	out := make([]core.StockAdjustment, 0, len(items))
	for _, it := range items {
		if it.Delta == 0 {
			continue
		}
		if _, err := uuid.Parse(it.DishID); err != nil {
			continue
		}
		out = append(out, it)
	}
	return out
}

// applyDelta is the stock rule shared by every repository: tracked stock
// never goes below zero and availability follows stock.
func applyDelta(stock *int, available bool, delta int) (*int, bool) {
	if stock == nil {
		return nil, available
	}
	next := *stock + delta
	if next < 0 {
		next = 0
	}
	return &next, next > 0
}
