package order

import (
	"fmt"
	"math"
	"strings"

	"darmenu/internal/core"
	"darmenu/internal/loyalty"
	"darmenu/internal/menu"
)

var (
	ErrEmptyCart         = core.NewError(core.ErrInvalid, "cart is empty")
	ErrDishUnavailable   = core.NewError(core.ErrConflict, "dish is not available")
	ErrInsufficientStock = core.NewError(core.ErrConflict, "insufficient stock")
)

// StockError lists the lines whose requested quantity exceeds stock.
type StockError struct {
	Lines []QuoteLine
}

func (e *StockError) Error() string {
	names := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		names = append(names, l.Name)
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(names, ", ")
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// mergeLines sums quantities per dish, keeps first-seen order and drops
// empty lines.
func mergeLines(lines []CartLine) []CartLine {
	index := make(map[string]int, len(lines))
	var out []CartLine
	for _, l := range lines {
		id := strings.TrimSpace(l.DishID)
		if id == "" || l.Qty <= 0 {
			continue
		}
		if i, ok := index[id]; ok {
			out[i].Qty += l.Qty
			continue
		}
		index[id] = len(out)
		out = append(out, CartLine{DishID: id, Qty: l.Qty})
	}
	return out
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildQuote prices merged cart lines against the dishes they reference.
// Quantities above tracked stock are clamped and the quote is marked
// Adjusted. balance is the caller's loyalty balance, 0 for guests.
func BuildQuote(lines []CartLine, dishes map[string]menu.Dish, balance, pointsRequested int) (*Quote, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	q := &Quote{Lines: make([]QuoteLine, 0, len(lines)), PointsBalance: balance}
	for _, l := range lines {
		d, ok := dishes[l.DishID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDishUnavailable, l.DishID)
		}
		if !d.IsAvailable || d.IsHidden {
			return nil, fmt.Errorf("%w: %s", ErrDishUnavailable, d.Name)
		}

		qty := l.Qty
		if d.Stock != nil && qty > *d.Stock {
			qty = max(*d.Stock, 0)
			q.Adjusted = true
		}

		line := QuoteLine{
			DishID:    d.ID,
			Name:      d.Name,
			Price:     d.Price,
			Qty:       qty,
			Requested: l.Qty,
			Available: d.Stock,
			LineTotal: roundMoney(d.Price * float64(qty)),
			Points:    menu.FidelityPoints(d) * qty,
		}
		q.Lines = append(q.Lines, line)
		q.Subtotal += line.LineTotal
		q.PointsEarned += line.Points
	}

	q.Subtotal = roundMoney(q.Subtotal)
	q.MaxRedeemable = loyalty.MaxRedeemable(balance, q.Subtotal)
	q.PointsUsed = loyalty.ClampRedemption(pointsRequested, balance, q.Subtotal)
	q.Discount = loyalty.Discount(q.PointsUsed)
	q.Total = roundMoney(q.Subtotal - q.Discount)
	return q, nil
}

// shortLines returns the lines clamped below what was requested.
func (q *Quote) shortLines() []QuoteLine {
	var out []QuoteLine
	for _, l := range q.Lines {
		if l.Qty < l.Requested {
			out = append(out, l)
		}
	}
	return out
}

// notes is the order snapshot stored on the reservation.
func (q *Quote) notes(orderType, tableLabel, contactPhone string) core.OrderNotes {
	items := make([]core.OrderItem, 0, len(q.Lines))
	for _, l := range q.Lines {
		items = append(items, core.OrderItem{ID: l.DishID, Name: l.Name, Qty: l.Qty, Price: l.Price})
	}
	return core.OrderNotes{
		OrderType:         orderType,
		TableNumber:       tableLabel,
		Items:             items,
		Subtotal:          q.Subtotal,
		LoyaltyPointsUsed: q.PointsUsed,
		LoyaltyDiscount:   q.Discount,
		Total:             q.Total,
		ContactPhone:      contactPhone,
	}
}

func (q *Quote) decrements() []core.StockAdjustment {
	out := make([]core.StockAdjustment, 0, len(q.Lines))
	for _, l := range q.Lines {
		out = append(out, core.StockAdjustment{DishID: l.DishID, Delta: l.Qty})
	}
	return out
}
