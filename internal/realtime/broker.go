package realtime

import (
	"context"
	"log/slog"
	"sync"

	"darmenu/internal/core"
	"darmenu/internal/logging"
)

// Broker carries row changes to websocket subscribers.
type Broker interface {
	Publish(ctx context.Context, change core.Change) error
	// Subscribe returns a channel of changes on topic and a func that
	// ends the subscription and closes the channel.
	Subscribe(ctx context.Context, topic string) (<-chan core.Change, func())
}

var Topics = map[string]bool{
	core.TopicDishes:       true,
	core.TopicReservations: true,
	core.TopicTables:       true,
	core.TopicSettings:     true,
}

const subscriberBuffer = 32

// Hub is the in-process Broker.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[chan core.Change]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[chan core.Change]struct{})}
}

// Publish never blocks: a subscriber whose buffer is full misses the change.
func (h *Hub) Publish(_ context.Context, change core.Change) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.topics[change.Topic] {
		select {
		case ch <- change:
		default:
			slog.Warn("[REALTIME] subscriber too slow, change dropped", "topic", change.Topic, "id", change.ID)
		}
	}
	return nil
}

func (h *Hub) Subscribe(_ context.Context, topic string) (<-chan core.Change, func()) {
	ch := make(chan core.Change, subscriberBuffer)

	h.mu.Lock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[chan core.Change]struct{})
	}
	h.topics[topic][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.topics[topic], ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers counts the live subscriptions on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Notifier adapts a Broker to core.ChangeNotifier. Publish failures are
// logged; a change feed outage never fails the write that caused it.
type Notifier struct {
	broker Broker
}

func NewNotifier(b Broker) *Notifier {
	return &Notifier{broker: b}
}

func (n *Notifier) Notify(ctx context.Context, change core.Change) {
	if err := n.broker.Publish(ctx, change); err != nil {
		slog.Error("[REALTIME] publish failed", "topic", change.Topic, logging.Err(err))
	}
}

// Visible reports whether id may see change. Reservation changes are
// private to their owner and to admins.
func Visible(id core.Identity, change core.Change) bool {
	if change.Topic != core.TopicReservations || id.IsAdmin() {
		return true
	}
	return id.Owns(change.UserID, change.ClientID)
}
