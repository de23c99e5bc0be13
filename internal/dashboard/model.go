package dashboard

import (
	"math"
	"time"
)

// Counts are the raw numbers behind the admin overview.
type Counts struct {
	TotalTables        int `json:"total_tables"`
	AvailableTables    int `json:"available_tables"`
	ActiveReservations int `json:"active_reservations"`
	TodayReservations  int `json:"today_reservations"`
	TotalMenuItems     int `json:"total_menu_items"`
	AvailableMenuItems int `json:"available_menu_items"`
	TotalUsers         int `json:"total_users"`
	AdminUsers         int `json:"admin_users"`
}

type Overview struct {
	Counts
	TableOccupancy   int       `json:"table_occupancy"`
	MenuAvailability int       `json:"menu_availability"`
	Since            time.Time `json:"since"`
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// NewOverview derives the percentages. Occupancy counts every table that
// is not available.
func NewOverview(c Counts, since time.Time) Overview {
	return Overview{
		Counts:           c,
		TableOccupancy:   percent(c.TotalTables-c.AvailableTables, c.TotalTables),
		MenuAvailability: percent(c.AvailableMenuItems, c.TotalMenuItems),
		Since:            since,
	}
}

// StartOfDay is local midnight of now in loc.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
