package inventory

import (
	"context"
	"sort"
	"sync"

	"darmenu/internal/core"
)

type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]*Item
}

func NewMemoryRepository(items ...Item) *MemoryRepository {
	r := &MemoryRepository{items: make(map[string]*Item)}
	for i := range items {
		it := items[i]
		r.items[it.ID] = &it
	}
	return r
}

func (r *MemoryRepository) Items(ctx context.Context) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepository) Stock(ctx context.Context, dishID string) (*int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[dishID]
	if !ok {
		return nil, ErrDishNotFound
	}
	if it.Stock == nil {
		return nil, nil
	}
	s := *it.Stock
	return &s, nil
}

func (r *MemoryRepository) SetStock(ctx context.Context, dishID string, stock int) (core.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[dishID]
	if !ok {
		return core.StockLevel{}, ErrDishNotFound
	}
	s := stock
	it.Stock = &s
	it.IsAvailable = stock > 0
	return level(it), nil
}

func (r *MemoryRepository) Adjust(ctx context.Context, items []core.StockAdjustment) ([]core.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	levels := make([]core.StockLevel, 0, len(items))
	for _, adj := range items {
		it, ok := r.items[adj.DishID]
		if !ok {
			continue
		}
		it.Stock, it.IsAvailable = applyDelta(it.Stock, it.IsAvailable, adj.Delta)
		levels = append(levels, level(it))
	}
	return levels, nil
}

func level(it *Item) core.StockLevel {
	lvl := core.StockLevel{DishID: it.ID, IsAvailable: it.IsAvailable}
	if it.Stock != nil {
		s := *it.Stock
		lvl.Stock = &s
	}
	return lvl
}
