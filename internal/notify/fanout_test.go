package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"darmenu/internal/config"
)

type fakeChannel struct {
	name string
	err  error

	mu       sync.Mutex
	messages []string
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Send(_ context.Context, _ OrderEvent, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return f.err
}

type blockingChannel struct{}

func (blockingChannel) Name() string { return "slow" }

func (blockingChannel) Send(ctx context.Context, _ OrderEvent, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestFanoutCountsSuccesses(t *testing.T) {
	ok := &fakeChannel{name: "ok"}
	bad := &fakeChannel{name: "bad", err: errors.New("down")}
	f := NewFanout(Formatter{Currency: "MAD"}, ok, bad)

	sent, total := f.Send(context.Background(), sampleEvent(KindNewOrder))

	assert.Equal(t, 1, sent)
	assert.Equal(t, 2, total)
	assert.Len(t, ok.messages, 1)
	assert.Len(t, bad.messages, 1)
	assert.Equal(t, ok.messages[0], bad.messages[0])
}

func TestFanoutTimesOutSlowChannel(t *testing.T) {
	ok := &fakeChannel{name: "ok"}
	f := NewFanout(Formatter{}, blockingChannel{}, ok)
	f.timeout = 20 * time.Millisecond

	sent, total := f.Send(context.Background(), sampleEvent(KindNewOrder))
	assert.Equal(t, 1, sent)
	assert.Equal(t, 2, total)
}

func TestFanoutNoChannels(t *testing.T) {
	sent, total := NewFanout(Formatter{}).Send(context.Background(), sampleEvent(KindNewOrder))
	assert.Zero(t, sent)
	assert.Zero(t, total)
}

func TestNewFanoutFromConfig(t *testing.T) {
	cfg := &config.Config{
		RestaurantName: "Dar",
		Currency:       "MAD",
		Notify: config.NotifyConfig{
			TelegramBotToken: "t",
			TelegramChatID:   "c",
			DiscordWebhook:   "https://discord.example/hook",
			GoogleSheetsURL:  "https://script.example/exec",
		},
	}

	f := NewFanoutFromConfig(cfg)
	assert.Equal(t, []string{"telegram", "discord", "whatsapp", "google_sheets"}, f.Names())
}
