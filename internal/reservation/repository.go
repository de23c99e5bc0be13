package reservation

import "context"

type Repository interface {
	// List returns reservations newest first; status "" means any.
	List(ctx context.Context, status string, limit int) ([]Reservation, error)
	ListByOwner(ctx context.Context, userID, clientID string, limit int) ([]Reservation, error)
	Get(ctx context.Context, id string) (*Reservation, error)
	// Transition moves the reservation to status and returns the previous
	// one. When from is not empty the current status must be one of from,
	// else ErrNotCancellable.
	Transition(ctx context.Context, id, status string, from []string) (string, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
