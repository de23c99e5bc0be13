package menu

import "math"

// FidelityPoints is what one unit of the dish earns: the configured
// loyalty_points, or one point per 10 currency units of price.
func FidelityPoints(d Dish) int {
	if d.LoyaltyPoints != nil {
		return *d.LoyaltyPoints
	}
	return int(math.Floor(d.Price / 10))
}
