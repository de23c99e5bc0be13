package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"darmenu/internal/core"
)

// Formatter renders order events as chat text.
type Formatter struct {
	Currency string
	Location *time.Location
}

func (f Formatter) money(v float64) string {
	return humanize.FormatFloat("#,###.##", v) + " " + f.Currency
}

func emoji(ev OrderEvent) string {
	if ev.Cancelled() {
		return "❌"
	}
	return "🍽️"
}

// Message is the Markdown body shared by the chat channels.
func (f Formatter) Message(ev OrderEvent) string {
	title := "NEW ORDER RECEIVED"
	if ev.Cancelled() {
		title = "ORDER CANCELLED"
	}
	o := ev.Order

	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n\n", emoji(ev), title)

	orderType := "Takeout"
	if o.OrderType == core.OrderTypeDineIn {
		orderType = "Dine-in"
	}
	fmt.Fprintf(&b, "📍 *Type:* %s\n", orderType)
	if o.TableNumber != "" {
		fmt.Fprintf(&b, "🪑 *Table:* %s\n", o.TableNumber)
	}
	if o.ContactPhone != "" {
		fmt.Fprintf(&b, "📞 *Contact:* %s\n", o.ContactPhone)
	}

	b.WriteString("\n*ITEMS:*\n")
	for i, it := range o.Items {
		fmt.Fprintf(&b, "%d. %s", i+1, it.Name)
		if it.Qty > 1 {
			fmt.Fprintf(&b, " ×%d", it.Qty)
		}
		if it.Price > 0 {
			fmt.Fprintf(&b, " - %s", f.money(it.Price*float64(it.Qty)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n💰 *PRICING:*\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", f.money(o.Subtotal))
	if o.LoyaltyPointsUsed > 0 && o.LoyaltyDiscount > 0 {
		fmt.Fprintf(&b, "Loyalty Discount (%d pts): -%s\n", o.LoyaltyPointsUsed, f.money(o.LoyaltyDiscount))
	}
	fmt.Fprintf(&b, "*Total: %s*\n", f.money(o.Total))

	if ev.ReservationID != "" {
		fmt.Fprintf(&b, "\n🆔 Order ID: %s\n", ev.ShortID())
	}

	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	at := ev.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	fmt.Fprintf(&b, "\n⏰ %s", at.In(loc).Format("02/01/2006, 15:04:05"))

	return b.String()
}
