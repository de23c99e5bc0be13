package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"darmenu/internal/auth"
	"darmenu/internal/config"
	"darmenu/internal/dashboard"
	"darmenu/internal/db"
	"darmenu/internal/inventory"
	"darmenu/internal/logging"
	"darmenu/internal/loyalty"
	"darmenu/internal/menu"
	"darmenu/internal/notify"
	"darmenu/internal/order"
	"darmenu/internal/realtime"
	"darmenu/internal/reservation"
	"darmenu/internal/router"
	"darmenu/internal/settings"
	"darmenu/internal/storage"
	"darmenu/internal/tables"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", logging.Err(err))
		os.Exit(1)
	}
}

func run() error {
	// ───────────────────────── CONFIG ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, flush := logging.Setup(cfg)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	// ───────────────────────── REALTIME ─────────────────────────
	hub := realtime.NewHub()
	var broker realtime.Broker = hub
	if cfg.RedisURL != "" {
		client, err := realtime.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		redisBroker := realtime.NewRedisBroker(client, hub)
		go func() {
			if err := redisBroker.Run(ctx); err != nil {
				slog.Error("[REALTIME] redis relay stopped", logging.Err(err))
			}
		}()
		broker = redisBroker
	}
	notifier := realtime.NewNotifier(broker)

	// ───────────────────────── STORAGE ─────────────────────────
	var images menu.Storage
	if cfg.R2.Enabled() {
		r2, err := storage.NewR2Client(ctx, cfg.R2)
		if err != nil {
			return err
		}
		images = r2
	} else {
		logger.Warn("R2 not configured, dish image uploads disabled")
	}

	// ───────────────────────── SERVICES ─────────────────────────
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}
	authService := auth.NewService(auth.NewPostgresUserRepository(pool), tokens)

	dishRepo := menu.NewPostgresRepository(pool)
	menuService := menu.NewService(dishRepo, images, notifier, cfg.Currency)
	inventoryService := inventory.NewService(inventory.NewPostgresRepository(pool), notifier, cfg.LowStockThreshold)
	tablesService := tables.NewService(tables.NewPostgresRepository(pool), notifier, cfg.PublicBaseURL)
	loyaltyService := loyalty.NewService(loyalty.NewPostgresRepository(pool))

	outbox := notify.NewPostgresOutbox(pool)
	orderService := order.NewService(dishRepo, loyaltyService, tablesService, order.NewPostgresRepository(pool), notifier)
	reservationService := reservation.NewService(reservation.NewPostgresRepository(pool), inventoryService, outbox, notifier)
	settingsService := settings.NewService(settings.NewPostgresRepository(pool), notifier)
	dashboardService := dashboard.NewService(dashboard.NewPostgresRepository(pool), cfg.Location())

	// ───────────────────────── NOTIFICATIONS ─────────────────────────
	// Disable with NOTIFY_IN_PROCESS=false when cmd/notify-worker runs.
	if cfg.Notify.InProcess {
		fanout := notify.NewFanoutFromConfig(cfg)
		logger.Info("notification channels", "channels", fanout.Names())
		worker := notify.NewWorker(outbox, fanout, cfg.Notify.PollInterval, cfg.Notify.BatchSize, cfg.Notify.MaxAttempts)
		go worker.Run(ctx)
	}

	// ───────────────────────── HTTP ─────────────────────────
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(router.Deps{
		Tokens:       tokens,
		CORSOrigins:  cfg.CORSOrigins,
		Version:      cfg.BuildVersion,
		Auth:         authService,
		Menu:         menuService,
		Inventory:    inventoryService,
		Tables:       tablesService,
		Loyalty:      loyaltyService,
		Orders:       orderService,
		Reservations: reservationService,
		Settings:     settingsService,
		Dashboard:    dashboardService,
		Broker:       broker,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 API listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
