package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	sent, total int
	calls       int
}

func (s *stubSender) Send(context.Context, OrderEvent) (int, int) {
	s.calls++
	return s.sent, s.total
}

func TestProcessOnceMarksSent(t *testing.T) {
	ctx := context.Background()
	outbox := NewMemoryOutbox()
	require.NoError(t, outbox.Enqueue(ctx, sampleEvent(KindNewOrder)))
	require.NoError(t, outbox.Enqueue(ctx, sampleEvent(KindOrderCancelled)))

	sender := &stubSender{sent: 1, total: 3}
	w := NewWorker(outbox, sender, time.Second, 10, 3)

	n, err := w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, sender.calls)

	status, _ := outbox.Status(1)
	assert.Equal(t, StatusSent, status)
	status, _ = outbox.Status(2)
	assert.Equal(t, StatusSent, status)

	n, err = w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessOnceRetriesThenFails(t *testing.T) {
	ctx := context.Background()
	outbox := NewMemoryOutbox()
	require.NoError(t, outbox.Enqueue(ctx, sampleEvent(KindNewOrder)))

	w := NewWorker(outbox, &stubSender{sent: 0, total: 2}, time.Second, 10, 2)

	_, err := w.ProcessOnce(ctx)
	require.NoError(t, err)
	status, reason := outbox.Status(1)
	assert.Equal(t, StatusPending, status)
	assert.Equal(t, "all channels failed", reason)

	_, err = w.ProcessOnce(ctx)
	require.NoError(t, err)
	status, _ = outbox.Status(1)
	assert.Equal(t, StatusFailed, status)

	n, err := w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessOnceNoChannelsCountsAsSent(t *testing.T) {
	ctx := context.Background()
	outbox := NewMemoryOutbox()
	require.NoError(t, outbox.Enqueue(ctx, sampleEvent(KindNewOrder)))

	w := NewWorker(outbox, &stubSender{}, time.Second, 10, 3)
	_, err := w.ProcessOnce(ctx)
	require.NoError(t, err)

	status, _ := outbox.Status(1)
	assert.Equal(t, StatusSent, status)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	outbox := NewMemoryOutbox()
	require.NoError(t, outbox.Enqueue(ctx, sampleEvent(KindNewOrder)))
	sender := &stubSender{sent: 1, total: 1}
	w := NewWorker(outbox, sender, 5*time.Millisecond, 10, 3)

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		status, _ := outbox.Status(1)
		return status == StatusSent
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
