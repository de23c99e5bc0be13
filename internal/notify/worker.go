package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"darmenu/internal/logging"
)

// Sender delivers one event and reports how many channels accepted it.
type Sender interface {
	Send(ctx context.Context, ev OrderEvent) (sent, total int)
}

// Worker drains the outbox on a fixed interval.
type Worker struct {
	outbox      Outbox
	sender      Sender
	interval    time.Duration
	batchSize   int
	maxAttempts int
}

func NewWorker(outbox Outbox, sender Sender, interval time.Duration, batchSize, maxAttempts int) *Worker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Worker{
		outbox:      outbox,
		sender:      sender,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("[NOTIFY] worker started", "interval", w.interval.String(), "batch", w.batchSize)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("[NOTIFY] worker stopped")
			return
		case <-ticker.C:
			if _, err := w.ProcessOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("[NOTIFY] batch failed", logging.Err(err))
			}
		}
	}
}

// ProcessOnce claims one batch and delivers it. It returns the number of
// jobs handled.
func (w *Worker) ProcessOnce(ctx context.Context) (int, error) {
	jobs, err := w.outbox.Claim(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	for _, job := range jobs {
		sent, total := w.sender.Send(ctx, job.Event)

		if total == 0 || sent > 0 {
			if err := w.outbox.MarkSent(ctx, job.ID); err != nil {
				return 0, err
			}
			continue
		}

		final := job.Attempts >= w.maxAttempts
		if err := w.outbox.MarkFailed(ctx, job.ID, "all channels failed", final); err != nil {
			return 0, err
		}
		if final {
			slog.Error("[NOTIFY] giving up on notification",
				"outbox_id", job.ID,
				"reservation_id", job.Event.ReservationID,
				"attempts", job.Attempts,
			)
		}
	}
	return len(jobs), nil
}
