package order

import "context"

// Repository commits a checkout.
type Repository interface {
	// Place fails with ErrInsufficientStock when a tracked dish no longer
	// has enough stock, and with ErrInsufficientPoints when the balance
	// dropped below the redemption.
	Place(ctx context.Context, p Placement) (*Placed, error)
}
