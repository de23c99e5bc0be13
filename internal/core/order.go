package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	OrderTypeDineIn  = "dine-in"
	OrderTypeTakeout = "takeout"
)

// OrderItem is one line of a placed order.
type OrderItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// UnmarshalJSON accepts qty as a number or a numeric string and floors
// fractional values. Anything else decodes as 0.
func (it *OrderItem) UnmarshalJSON(data []byte) error {
	type plain OrderItem
	var raw struct {
		plain
		Qty json.RawMessage `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*it = OrderItem(raw.plain)
	it.Qty = parseQty(raw.Qty)
	return nil
}

func parseQty(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Floor(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// OrderNotes is the order snapshot stored with a reservation.
type OrderNotes struct {
	OrderType         string      `json:"orderType"`
	TableNumber       string      `json:"tableNumber,omitempty"`
	Items             []OrderItem `json:"items"`
	Subtotal          float64     `json:"subtotal"`
	LoyaltyPointsUsed int         `json:"loyaltyPointsUsed"`
	LoyaltyDiscount   float64     `json:"loyaltyDiscount"`
	Total             float64     `json:"total"`
	ContactPhone      string      `json:"contact_phone,omitempty"`
}

// RestockAdjustments turns the order lines back into positive stock
// deltas. Every line with an id returns at least one unit.
func (n OrderNotes) RestockAdjustments() []StockAdjustment {
	out := make([]StockAdjustment, 0, len(n.Items))
	for _, it := range n.Items {
		if it.ID == "" {
			continue
		}
		qty := it.Qty
		if qty < 1 {
			qty = 1
		}
		out = append(out, StockAdjustment{DishID: it.ID, Delta: qty})
	}
	return out
}
