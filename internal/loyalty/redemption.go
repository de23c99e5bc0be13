package loyalty

import "math"

// PointValue is the currency value of one point.
const PointValue = 1.0

// MaxRedeemable is the most points usable on an order: the balance, capped
// at the whole-currency part of the order total.
func MaxRedeemable(balance int, total float64) int {
	if balance <= 0 || total <= 0 {
		return 0
	}
	capByTotal := int(math.Floor(total / PointValue))
	if balance < capByTotal {
		return balance
	}
	return capByTotal
}

// ClampRedemption bounds a requested redemption to [0, MaxRedeemable].
func ClampRedemption(requested, balance int, total float64) int {
	if requested <= 0 {
		return 0
	}
	max := MaxRedeemable(balance, total)
	if requested > max {
		return max
	}
	return requested
}

func Discount(points int) float64 {
	return float64(points) * PointValue
}

// QuickSelect returns the floored share of max for the checkout shortcut
// buttons (0.25, 0.5, 1).
func QuickSelect(max int, fraction float64) int {
	if max <= 0 || fraction <= 0 {
		return 0
	}
	if fraction >= 1 {
		return max
	}
	return int(math.Floor(float64(max) * fraction))
}
