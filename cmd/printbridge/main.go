package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orrn/printbridge/internal/api"
	"github.com/orrn/printbridge/internal/api/middleware"
	"github.com/orrn/printbridge/internal/config"
	"github.com/orrn/printbridge/internal/core"
	"github.com/orrn/printbridge/internal/db"
	"github.com/orrn/printbridge/internal/directory"
	"github.com/orrn/printbridge/internal/journal"
	"github.com/orrn/printbridge/internal/logger"
	"github.com/orrn/printbridge/internal/webhook"
)

func main() {
	configPath := flag.String("config", "printbridge.yaml", "path to the YAML configuration file")
	secureCookie := flag.Bool("secure-cookie", false, "mark the session cookie Secure (enable behind TLS)")
	flag.Parse()

	if err := run(*configPath, *secureCookie); err != nil {
		fmt.Fprintln(os.Stderr, "printbridge:", err)
		os.Exit(1)
	}
}

func run(configPath string, secureCookie bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	conn, err := db.Open(db.Config{Path: cfg.Database.Path})
	if err != nil {
		return err
	}
	defer conn.Close()
	store := db.NewStore(conn)

	sender := webhook.NewWebhookSender(store.Webhooks, webhook.WebhookConfig{
		RetryCount:  cfg.Webhooks.RetryCount,
		RetryDelay:  cfg.Webhooks.RetryDelay,
		Timeout:     cfg.Webhooks.Timeout,
		WorkerCount: cfg.Webhooks.WorkerCount,
		QueueSize:   cfg.Webhooks.QueueSize,
	}, log)
	sender.Start()
	defer sender.Stop()

	registry := directory.NewRegistry(store.Printers)
	manager := core.NewManager(core.ManagerOptions{
		Directory: directory.FromConfig(cfg.Printers, registry, log),
		Writer:    core.NewDeviceWriter(core.WriterOptions{DeviceDir: cfg.Printers.DeviceDir, Logger: log}),
		Command:   core.NewCommandPrinter(core.CommandOptions{Binary: cfg.Printers.PrintCommand, Logger: log}),
		Observer:  journal.New(store.Submissions, sender, log),
		Logger:    log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auth, err := middleware.NewAuthMiddleware(ctx, store.Settings, secureCookie)
	if err != nil {
		return fmt.Errorf("failed to initialise auth: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(api.Dependencies{
			Printers: manager,
			Registry: registry,
			Store:    store,
			Auth:     auth,
			Logger:   log,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("printbridge listening",
			zap.String("addr", srv.Addr),
			zap.String("database", cfg.Database.Path),
			zap.Bool("system_discovery", cfg.Printers.SystemDiscovery))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
