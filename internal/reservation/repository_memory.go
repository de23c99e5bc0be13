package reservation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu           sync.RWMutex
	reservations map[string]*Reservation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{reservations: make(map[string]*Reservation)}
}

// Insert stores r as-is, filling in id and timestamps when missing.
func (r *MemoryRepository) Insert(res Reservation) Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	if res.ReservedAt.IsZero() {
		res.ReservedAt = res.CreatedAt
	}
	if res.Status == "" {
		res.Status = StatusPending
	}
	cp := res
	r.reservations[res.ID] = &cp
	return res
}

func (r *MemoryRepository) newestFirst(keep func(*Reservation) bool, limit int) []Reservation {
	out := []Reservation{}
	for _, res := range r.reservations {
		if keep(res) {
			out = append(out, *res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *MemoryRepository) List(ctx context.Context, status string, limit int) ([]Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.newestFirst(func(res *Reservation) bool {
		return status == "" || res.Status == status
	}, limit), nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, userID, clientID string, limit int) ([]Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.newestFirst(func(res *Reservation) bool {
		return (userID != "" && res.UserID == userID) || (clientID != "" && res.ClientID == clientID)
	}, limit), nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *MemoryRepository) Transition(ctx context.Context, id, status string, from []string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return "", ErrReservationNotFound
	}
	previous := res.Status
	if len(from) > 0 && !contains(from, previous) {
		return previous, ErrNotCancellable
	}
	res.Status = status
	return previous, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[id]; !ok {
		return ErrReservationNotFound
	}
	delete(r.reservations, id)
	return nil
}

func (r *MemoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.reservations))
	r.reservations = make(map[string]*Reservation)
	return n, nil
}
