package loyalty

import "context"

type Repository interface {
	Balance(ctx context.Context, userID string) (int, error)
	// Apply records txn and returns the new balance. Redemptions larger than
	// the balance fail with ErrInsufficientPoints.
	Apply(ctx context.Context, txn Transaction) (int, error)
	History(ctx context.Context, userID string, limit int) ([]Transaction, error)
}
