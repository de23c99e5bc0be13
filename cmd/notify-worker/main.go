package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"darmenu/internal/config"
	"darmenu/internal/db"
	"darmenu/internal/logging"
	"darmenu/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, flush := logging.Setup(cfg)
	defer flush()

	logger.Info("📣 Notification worker starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Error("database connection failed", logging.Err(err))
		flush()
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("✅ Connected to PostgreSQL")

	fanout := notify.NewFanoutFromConfig(cfg)
	logger.Info("notification channels", "channels", fanout.Names())

	worker := notify.NewWorker(notify.NewPostgresOutbox(pool), fanout,
		cfg.Notify.PollInterval, cfg.Notify.BatchSize, cfg.Notify.MaxAttempts)
	worker.Run(ctx)
}
