package core

import "context"

const (
	TopicDishes       = "dishes"
	TopicReservations = "reservations"
	TopicTables       = "tables"
	TopicSettings     = "settings"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Change describes one row change pushed to realtime subscribers.
// UserID and ClientID scope reservation changes to their owner.
type Change struct {
	Topic    string `json:"topic"`
	Action   string `json:"action"`
	ID       string `json:"id,omitempty"`
	UserID   string `json:"-"`
	ClientID string `json:"-"`
}

type ChangeNotifier interface {
	Notify(ctx context.Context, change Change)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Change) {}
