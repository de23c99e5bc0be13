package tables

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tables: make(map[string]*Table)}
}

func (r *MemoryRepository) List(ctx context.Context) ([]Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryRepository) FindByLabel(ctx context.Context, label string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tables {
		if strings.EqualFold(t.Label, label) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrTableNotFound
}

func (r *MemoryRepository) labelTaken(label, exceptID string) bool {
	for _, t := range r.tables {
		if t.ID != exceptID && strings.EqualFold(t.Label, label) {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) Create(ctx context.Context, t *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.labelTaken(t.Label, "") {
		return ErrLabelTaken
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	cp := *t
	r.tables[t.ID] = &cp
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, t *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.tables[t.ID]
	if !ok {
		return ErrTableNotFound
	}
	if r.labelTaken(t.Label, t.ID) {
		return ErrLabelTaken
	}
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = time.Now()
	cp := *t
	r.tables[t.ID] = &cp
	return nil
}

func (r *MemoryRepository) SetStatus(ctx context.Context, id, status string) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	cp := *t
	return &cp, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[id]; !ok {
		return ErrTableNotFound
	}
	delete(r.tables, id)
	return nil
}
