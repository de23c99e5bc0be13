package menu

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps dishes in process. Used by tests and local runs
// without a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	dishes map[string]*Dish
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{dishes: make(map[string]*Dish)}
}

func (r *MemoryRepository) sorted(keep func(*Dish) bool, less func(a, b *Dish) bool) []Dish {
	var picked []*Dish
	for _, d := range r.dishes {
		if keep(d) {
			picked = append(picked, d)
		}
	}
	sort.Slice(picked, func(i, j int) bool { return less(picked[i], picked[j]) })

	out := make([]Dish, 0, len(picked))
	for _, d := range picked {
		out = append(out, *d)
	}
	return out
}

func byCategoryName(a, b *Dish) bool {
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	return a.Name < b.Name
}

func (r *MemoryRepository) ListPublic(ctx context.Context, category string) ([]Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(d *Dish) bool {
		return !d.IsHidden && (category == "" || d.Category == category)
	}, byCategoryName), nil
}

func (r *MemoryRepository) Categories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, d := range r.dishes {
		if d.IsHidden || d.Category == "" || seen[d.Category] {
			continue
		}
		seen[d.Category] = true
		out = append(out, d.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MemoryRepository) List(ctx context.Context, filter string) ([]Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(d *Dish) bool {
		switch filter {
		case FilterAvailable:
			return d.IsAvailable
		case FilterUnavailable:
			return !d.IsAvailable
		}
		return true
	}, func(a, b *Dish) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dishes[id]
	if !ok {
		return nil, ErrDishNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *MemoryRepository) FindByName(ctx context.Context, name string) (*Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.dishes {
		if strings.EqualFold(d.Name, name) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrDishNotFound
}

func (r *MemoryRepository) Create(ctx context.Context, d *Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	now := time.Now()
	d.CreatedAt, d.UpdatedAt = now, now
	cp := *d
	r.dishes[d.ID] = &cp
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, d *Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.dishes[d.ID]
	if !ok {
		return ErrDishNotFound
	}
	d.UpdatedAt = time.Now()
	d.CreatedAt = cur.CreatedAt
	d.IsAvailable, d.IsHidden, d.Stock = cur.IsAvailable, cur.IsHidden, cur.Stock
	cp := *d
	r.dishes[d.ID] = &cp
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.dishes[id]; !ok {
		return ErrDishNotFound
	}
	delete(r.dishes, id)
	return nil
}

func (r *MemoryRepository) mutate(id string, fn func(*Dish)) (*Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.dishes[id]
	if !ok {
		return nil, ErrDishNotFound
	}
	fn(d)
	d.UpdatedAt = time.Now()
	cp := *d
	return &cp, nil
}

func (r *MemoryRepository) SetAvailability(ctx context.Context, id string, available bool) (*Dish, error) {
	return r.mutate(id, func(d *Dish) { d.IsAvailable = available })
}

func (r *MemoryRepository) SetHidden(ctx context.Context, id string, hidden bool) (*Dish, error) {
	return r.mutate(id, func(d *Dish) { d.IsHidden = hidden })
}

func (r *MemoryRepository) SetImage(ctx context.Context, id string, url string) (*Dish, error) {
	return r.mutate(id, func(d *Dish) { d.ImageURL = url })
}

// SetStock seeds stock for tests that need tracked inventory.
func (r *MemoryRepository) SetStock(id string, stock *int, available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.dishes[id]; ok {
		d.Stock = stock
		d.IsAvailable = available
	}
}
