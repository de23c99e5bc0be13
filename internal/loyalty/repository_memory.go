package loyalty

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu       sync.Mutex
	balances map[string]int
	ledger   []Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{balances: make(map[string]int)}
}

func (r *MemoryRepository) Balance(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[userID], nil
}

func (r *MemoryRepository) Apply(ctx context.Context, txn Transaction) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if txn.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	balance := r.balances[txn.UserID]
	switch txn.Kind {
	case KindAward:
		balance += txn.Amount
	case KindRedeem:
		if txn.Amount > balance {
			return 0, ErrInsufficientPoints
		}
		balance -= txn.Amount
	default:
		return 0, ErrInvalidKind
	}

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	txn.CreatedAt = time.Now()
	r.balances[txn.UserID] = balance
	r.ledger = append(r.ledger, txn)
	return balance, nil
}

func (r *MemoryRepository) History(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Transaction{}
	for i := len(r.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.ledger[i].UserID == userID {
			out = append(out, r.ledger[i])
		}
	}
	return out, nil
}
