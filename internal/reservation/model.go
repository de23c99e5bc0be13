package reservation

import (
	"time"

	"darmenu/internal/core"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusSeated    = "seated"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

var statuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusSeated:    true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

func ValidStatus(s string) bool {
	return statuses[s]
}

// Active reports whether the reservation is still in progress.
func Active(status string) bool {
	return status == StatusPending || status == StatusConfirmed || status == StatusSeated
}

// Customer list filters.
const (
	FilterAll       = "all"
	FilterActive    = "active"
	FilterCompleted = "completed"
)

// cancellable are the states a customer may cancel from.
var cancellable = []string{StatusPending, StatusConfirmed}

type Reservation struct {
	ID         string          `json:"id"`
	TableID    string          `json:"table_id,omitempty"`
	TableLabel string          `json:"table_label"`
	UserID     string          `json:"user_id,omitempty"`
	UserEmail  string          `json:"user_email"`
	ClientID   string          `json:"client_id,omitempty"`
	PartySize  int             `json:"party_size"`
	ReservedAt time.Time       `json:"reserved_at"`
	Status     string          `json:"status"`
	Notes      core.OrderNotes `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
}
