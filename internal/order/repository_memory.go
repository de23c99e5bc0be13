package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"darmenu/internal/loyalty"
	"darmenu/internal/menu"
	"darmenu/internal/notify"
)

// MemoryRepository places orders against in-memory menu, loyalty and
// outbox stores.
type MemoryRepository struct {
	mu     sync.Mutex
	dishes *menu.MemoryRepository
	points *loyalty.MemoryRepository
	outbox notify.Outbox
	placed []Placement
}

func NewMemoryRepository(dishes *menu.MemoryRepository, points *loyalty.MemoryRepository, outbox notify.Outbox) *MemoryRepository {
	return &MemoryRepository{dishes: dishes, points: points, outbox: outbox}
}

func (r *MemoryRepository) Place(ctx context.Context, p Placement) (*Placed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	type next struct {
		id    string
		stock int
	}
	var updates []next
	for _, d := range p.Decrements {
		dish, err := r.dishes.Get(ctx, d.DishID)
		if err != nil {
			return nil, err
		}
		if dish.Stock == nil {
			continue
		}
		if *dish.Stock < d.Delta {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, d.DishID)
		}
		updates = append(updates, next{id: d.DishID, stock: *dish.Stock - d.Delta})
	}

	if p.PointsUsed > 0 {
		balance, err := r.points.Balance(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if balance < p.PointsUsed {
			return nil, ErrInsufficientPoints
		}
	}

	for _, u := range updates {
		stock := u.stock
		r.dishes.SetStock(u.id, &stock, stock > 0)
	}

	placed := &Placed{CreatedAt: time.Now()}
	meta := map[string]any{"reservation_id": p.ReservationID}
	for _, txn := range []loyalty.Transaction{
		{UserID: p.UserID, Kind: loyalty.KindRedeem, Amount: p.PointsUsed, Reason: "order discount", Metadata: meta},
		{UserID: p.UserID, Kind: loyalty.KindAward, Amount: p.PointsEarned, Reason: "order", Metadata: meta},
	} {
		if txn.Amount <= 0 {
			continue
		}
		balance, err := r.points.Apply(ctx, txn)
		if err != nil {
			return nil, err
		}
		placed.PointsBalance = &balance
	}

	if err := r.outbox.Enqueue(ctx, notify.OrderEvent{
		Kind:          notify.KindNewOrder,
		ReservationID: p.ReservationID,
		CreatedAt:     placed.CreatedAt,
		Order:         p.Notes,
	}); err != nil {
		return nil, err
	}

	r.placed = append(r.placed, p)
	return placed, nil
}

// Placed returns the committed placements in order.
func (r *MemoryRepository) Placed() []Placement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Placement(nil), r.placed...)
}
