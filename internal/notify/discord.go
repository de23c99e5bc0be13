package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	discordGreen = 0x00ff00
	discordRed   = 0xff0000
)

type DiscordChannel struct {
	webhookURL string
	restaurant string
	client     *http.Client
}

func NewDiscordChannel(webhookURL, restaurant string) *DiscordChannel {
	return &DiscordChannel{webhookURL: webhookURL, restaurant: restaurant, client: defaultHTTPClient}
}

func (d *DiscordChannel) Name() string { return "discord" }

func (d *DiscordChannel) Send(ctx context.Context, ev OrderEvent, message string) error {
	title, color := "New Order", discordGreen
	if ev.Cancelled() {
		title, color = "Order Cancelled", discordRed
	}

	return postJSON(ctx, d.client, d.webhookURL, "application/json", map[string]any{
		"embeds": []map[string]any{{
			"title":       fmt.Sprintf("%s %s - %s", emoji(ev), title, d.restaurant),
			"description": message,
			"color":       color,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"footer":      map[string]string{"text": "Restaurant Digital Menu System"},
		}},
	}, nil)
}
