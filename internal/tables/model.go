package tables

import "time"

const (
	StatusAvailable    = "available"
	StatusOccupied     = "occupied"
	StatusReserved     = "reserved"
	StatusMaintenance  = "maintenance"
	StatusOutOfService = "out_of_service"
)

var statuses = map[string]bool{
	StatusAvailable:    true,
	StatusOccupied:     true,
	StatusReserved:     true,
	StatusMaintenance:  true,
	StatusOutOfService: true,
}

func ValidStatus(s string) bool {
	return statuses[s]
}

type Table struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Seats     int       `json:"seats"`
	Location  string    `json:"location"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TableInput struct {
	Label    string `json:"label"`
	Seats    int    `json:"seats"`
	Location string `json:"location"`
	Status   string `json:"status"`
}

// Link is the QR deep link for one table.
type Link struct {
	TableID string `json:"table_id"`
	Label   string `json:"label"`
	URL     string `json:"url"`
}
