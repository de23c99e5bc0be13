package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"darmenu/internal/core"
	"darmenu/internal/logging"
)

const channelPrefix = "darmenu:changes:"

// wireChange keeps the owner fields that core.Change hides from clients.
type wireChange struct {
	Topic    string `json:"topic"`
	Action   string `json:"action"`
	ID       string `json:"id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

func encodeChange(c core.Change) ([]byte, error) {
	return json.Marshal(wireChange(c))
}

func decodeChange(payload string) (core.Change, error) {
	var w wireChange
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return core.Change{}, err
	}
	return core.Change(w), nil
}

// RedisBroker shares changes between API instances over Redis pub/sub.
// Every instance relays what it receives into its local hub, which serves
// the websocket subscriptions.
type RedisBroker struct {
	client *redis.Client
	hub    *Hub
}

// NewRedisClient connects using a redis:// URL.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func NewRedisBroker(client *redis.Client, hub *Hub) *RedisBroker {
	return &RedisBroker{client: client, hub: hub}
}

func (b *RedisBroker) Publish(ctx context.Context, change core.Change) error {
	payload, err := encodeChange(change)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelPrefix+change.Topic, payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (<-chan core.Change, func()) {
	return b.hub.Subscribe(ctx, topic)
}

// Run relays Redis messages into the local hub until ctx is cancelled.
func (b *RedisBroker) Run(ctx context.Context) error {
	sub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	slog.Info("[REALTIME] relaying changes from redis")

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			change, err := decodeChange(msg.Payload)
			if err != nil {
				slog.Warn("[REALTIME] bad change payload", "channel", msg.Channel, logging.Err(err))
				continue
			}
			if change.Topic == "" {
				change.Topic = strings.TrimPrefix(msg.Channel, channelPrefix)
			}
			_ = b.hub.Publish(ctx, change)
		}
	}
}
