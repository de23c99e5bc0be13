package order

import (
	"time"

	"darmenu/internal/core"
)

// CartLine is one entry of the client cart. The same dish may appear more
// than once; lines are merged before pricing.
type CartLine struct {
	DishID string `json:"dish_id" binding:"required,uuid"`
	Qty    int    `json:"qty"`
}

type QuoteRequest struct {
	Items       []CartLine `json:"items" binding:"required,dive"`
	PointsToUse int        `json:"points_to_use" binding:"gte=0"`
}

// QuoteLine is a priced cart line. Requested is what the client asked for,
// Qty what live stock allows.
type QuoteLine struct {
	DishID    string  `json:"dish_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Requested int     `json:"requested"`
	Available *int    `json:"available"`
	LineTotal float64 `json:"line_total"`
	Points    int     `json:"points"`
}

type Quote struct {
	Lines         []QuoteLine `json:"lines"`
	Subtotal      float64     `json:"subtotal"`
	PointsBalance int         `json:"points_balance"`
	MaxRedeemable int         `json:"max_redeemable"`
	PointsUsed    int         `json:"points_used"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total"`
	PointsEarned  int         `json:"points_earned"`
	Adjusted      bool        `json:"adjusted"`
}

type CheckoutRequest struct {
	OrderType    string     `json:"order_type" binding:"required,oneof=dine-in takeout"`
	TableLabel   string     `json:"table_label"`
	Items        []CartLine `json:"items" binding:"required,min=1,dive"`
	PointsToUse  int        `json:"points_to_use" binding:"gte=0"`
	ContactPhone string     `json:"contact_phone" binding:"max=40"`
	PartySize    int        `json:"party_size" binding:"gte=0,lte=50"`
}

// Placement is everything written in the checkout transaction.
type Placement struct {
	ReservationID string
	TableID       string
	UserID        string
	ClientID      string
	PartySize     int
	Notes         core.OrderNotes
	Decrements    []core.StockAdjustment
	PointsUsed    int
	PointsEarned  int
}

// Placed is the committed result of a Placement.
type Placed struct {
	CreatedAt     time.Time
	PointsBalance *int
}

// Receipt is returned to the client after checkout.
type Receipt struct {
	ReservationID string          `json:"reservation_id"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Order         core.OrderNotes `json:"order"`
	Quote         *Quote          `json:"quote"`
	PointsBalance *int            `json:"points_balance,omitempty"`
}
