package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WhatsAppChannel sends through the WhatsApp Business API when credentials
// are set, otherwise posts to a relay webhook, otherwise logs a wa.me link
// staff can open by hand.
type WhatsAppChannel struct {
	phoneNumberID   string
	accessToken     string
	webhookURL      string
	restaurantPhone string
	graphBase       string
	client          *http.Client
}

func NewWhatsAppChannel(phoneNumberID, accessToken, webhookURL, restaurantPhone string) *WhatsAppChannel {
	return &WhatsAppChannel{
		phoneNumberID:   phoneNumberID,
		accessToken:     accessToken,
		webhookURL:      webhookURL,
		restaurantPhone: restaurantPhone,
		graphBase:       "https://graph.facebook.com/v18.0",
		client:          defaultHTTPClient,
	}
}

func (w *WhatsAppChannel) Name() string { return "whatsapp" }

func (w *WhatsAppChannel) usesBusinessAPI() bool {
	return w.phoneNumberID != "" && w.accessToken != ""
}

func (w *WhatsAppChannel) recipient() string {
	return strings.TrimPrefix(w.restaurantPhone, "+")
}

// ChatLink is the wa.me link that opens a chat prefilled with message.
func (w *WhatsAppChannel) ChatLink(message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", w.recipient(), url.QueryEscape(message))
}

func (w *WhatsAppChannel) Send(ctx context.Context, ev OrderEvent, message string) error {
	if w.usesBusinessAPI() {
		if w.restaurantPhone == "" {
			return errors.New("RESTAURANT_PHONE not set")
		}
		header := http.Header{}
		header.Set("Authorization", "Bearer "+w.accessToken)
		return postJSON(ctx, w.client, fmt.Sprintf("%s/%s/messages", w.graphBase, w.phoneNumberID), "application/json",
			map[string]any{
				"messaging_product": "whatsapp",
				"to":                w.recipient(),
				"type":              "text",
				"text":              map[string]string{"body": message},
			}, header)
	}

	if w.webhookURL != "" {
		return postJSON(ctx, w.client, w.webhookURL, "application/json", map[string]any{
			"message":          message,
			"orderData":        ev.Order,
			"reservation_id":   ev.ReservationID,
			"timestamp":        time.Now().UTC().Format(time.RFC3339),
			"restaurant_phone": w.restaurantPhone,
			"whatsapp_url":     w.ChatLink(message),
		}, nil)
	}

	slog.Info("[NOTIFY] whatsapp message ready to send manually",
		"reservation_id", ev.ReservationID,
		"to", w.restaurantPhone,
		"whatsapp_url", w.ChatLink(message),
	)
	return nil
}
