package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"darmenu/internal/config"
	"darmenu/internal/logging"
)

const channelTimeout = 10 * time.Second

// Fanout sends one event to every configured channel concurrently.
// A failing channel never blocks or fails the others.
type Fanout struct {
	formatter Formatter
	channels  []Channel
	timeout   time.Duration
}

func NewFanout(formatter Formatter, channels ...Channel) *Fanout {
	return &Fanout{formatter: formatter, channels: channels, timeout: channelTimeout}
}

// NewFanoutFromConfig enables each channel whose credentials are present.
// WhatsApp is always enabled since it falls back to logging a chat link.
func NewFanoutFromConfig(cfg *config.Config) *Fanout {
	n := cfg.Notify
	var channels []Channel

	if n.TelegramBotToken != "" && n.TelegramChatID != "" {
		channels = append(channels, NewTelegramChannel(n.TelegramBotToken, n.TelegramChatID, cfg.RestaurantName))
	}
	if n.DiscordWebhook != "" {
		channels = append(channels, NewDiscordChannel(n.DiscordWebhook, cfg.RestaurantName))
	}
	if n.SendGridAPIKey != "" && n.RestaurantEmail != "" {
		channels = append(channels, NewEmailChannel(n.SendGridAPIKey, n.EmailFrom, n.RestaurantEmail, cfg.RestaurantName))
	}
	channels = append(channels, NewWhatsAppChannel(n.WhatsAppPhoneNumberID, n.WhatsAppAccessToken, n.WhatsAppWebhookURL, n.RestaurantPhone))
	if n.GoogleSheetsURL != "" {
		channels = append(channels, NewSheetsChannel(n.GoogleSheetsURL))
	}

	return NewFanout(Formatter{Currency: cfg.Currency, Location: cfg.Location()}, channels...)
}

// Names lists the enabled channels.
func (f *Fanout) Names() []string {
	names := make([]string, 0, len(f.channels))
	for _, ch := range f.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Send reports how many channels accepted the event.
func (f *Fanout) Send(ctx context.Context, ev OrderEvent) (sent, total int) {
	total = len(f.channels)
	if total == 0 {
		return 0, 0
	}

	message := f.formatter.Message(ev)
	results := make([]error, total)

	var wg sync.WaitGroup
	for i, ch := range f.channels {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()
			results[i] = ch.Send(cctx, ev, message)
		}(i, ch)
	}
	wg.Wait()

	for i, err := range results {
		if err != nil {
			slog.Warn("[NOTIFY] channel failed",
				"channel", f.channels[i].Name(),
				"reservation_id", ev.ReservationID,
				logging.Err(err),
			)
			continue
		}
		sent++
	}

	slog.Info("[NOTIFY] Sent notifications",
		"sent", sent,
		"total", total,
		"kind", ev.Kind,
		"reservation_id", ev.ReservationID,
	)
	return sent, total
}
