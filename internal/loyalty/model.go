package loyalty

import "time"

const (
	KindAward  = "award"
	KindRedeem = "redeem"
)

// Transaction is one ledger row.
type Transaction struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Kind      string         `json:"kind"`
	Amount    int            `json:"amount"`
	Reason    string         `json:"reason"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
