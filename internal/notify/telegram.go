package notify

import (
	"context"
	"fmt"
	"net/http"
)

type TelegramChannel struct {
	token      string
	chatID     string
	restaurant string
	apiBase    string
	client     *http.Client
}

func NewTelegramChannel(token, chatID, restaurant string) *TelegramChannel {
	return &TelegramChannel{
		token:      token,
		chatID:     chatID,
		restaurant: restaurant,
		apiBase:    "https://api.telegram.org",
		client:     defaultHTTPClient,
	}
}

func (t *TelegramChannel) Name() string { return "telegram" }

func (t *TelegramChannel) Send(ctx context.Context, ev OrderEvent, message string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	return postJSON(ctx, t.client, url, "application/json", map[string]string{
		"chat_id":    t.chatID,
		"text":       fmt.Sprintf("%s *%s*\n\n%s", emoji(ev), t.restaurant, message),
		"parse_mode": "Markdown",
	}, nil)
}
