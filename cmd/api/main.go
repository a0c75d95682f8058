package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medicine-reminder/internal/adapters/notify/webhook"
	"medicine-reminder/internal/platform/logger"
	"medicine-reminder/internal/ports/notify"
	"medicine-reminder/internal/router"
	"medicine-reminder/internal/sweeper"
)

// @title Medicine Reminder API
// @version 1.0
// @description Motor de recordatorios de medicación: perfiles, medicinas, tomas y adherencia.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var notifier notify.Notifier = notify.Nop{}
	if url := os.Getenv("NOTIFY_WEBHOOK_URL"); url != "" {
		notifier = webhook.New(webhook.Config{
			URL:    url,
			Secret: os.Getenv("NOTIFY_WEBHOOK_SECRET"),
		})
	}

	var sweepOpts sweeper.Options
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			sweepOpts.AlarmInterval = d
		}
	}

	handler, sw := router.NewRouter(router.Options{
		Log:      log,
		Notifier: notifier,
		Sweep:    sweepOpts,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sw.Start(ctx)

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
