package notify

import (
	"time"

	"darmenu/internal/core"
)

const (
	KindNewOrder       = "new"
	KindOrderCancelled = "cancelled"
)

// OrderEvent is what every channel receives.
type OrderEvent struct {
	Kind          string          `json:"kind"`
	ReservationID string          `json:"reservation_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Order         core.OrderNotes `json:"order"`
}

func (e OrderEvent) Cancelled() bool {
	return e.Kind == KindOrderCancelled
}

// ShortID is the first eight characters of the reservation id.
func (e OrderEvent) ShortID() string {
	if len(e.ReservationID) <= 8 {
		return e.ReservationID
	}
	return e.ReservationID[:8]
}
