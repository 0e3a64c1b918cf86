package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/robfig/cron"

	"facturita/internal/amqp"
	"facturita/internal/cli"
	"facturita/internal/dashboard"
	"facturita/internal/notify"
	"facturita/internal/server"
	"facturita/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting facturita", "port", cfg.Port, "backend", cfg.DataBackend)

	blobs := cli.InitSnapshots(logger, cfg)

	st, err := store.New(context.Background(), blobs, cfg.Period)
	if err != nil {
		logger.Error("Failed to initialize demo store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	hub := notify.NewHub()
	notifiers := notify.Multi{hub}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		notifiers = append(notifiers, amqp.NewNotifier(amqpClient))
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	// The dashboard container backs the server-rendered page. Remote mode
	// points it at another instance; otherwise it reads the local store.
	var api dashboard.API
	if cfg.APIBaseURL != "" {
		api = dashboard.NewClient(cfg.APIBaseURL)
		logger.Info("Dashboard in remote mode", "base_url", cfg.APIBaseURL)
	} else {
		api = &dashboard.LocalAPI{Store: st}
	}
	container := dashboard.New(api, st.Data(), st.Period())
	container.SetStartDelay(cfg.DashboardDelay)
	container.Observe(notifiers)

	srv := server.NewServer(":"+cfg.Port, st, container, hub, server.Options{
		LatencyMin: cfg.LatencyMin,
		LatencyMax: cfg.LatencyMax,
		Notifier:   notifiers,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	var scheduler *cron.Cron
	if cfg.DemoResetCron != "" {
		scheduler = cron.New()
		err := scheduler.AddFunc(cfg.DemoResetCron, func() {
			if err := st.Reset(context.Background()); err != nil {
				slog.Error("Scheduled demo reset failed", "error", err)
			}
		})
		if err != nil {
			logger.Error("Invalid demo reset schedule", "error", err, "schedule", cfg.DemoResetCron)
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("Scheduled demo reset enabled", "schedule", cfg.DemoResetCron)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	go func() {
		if err := container.Start(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Dashboard initial load failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
